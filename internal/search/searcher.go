// Package search evaluates query files against an inverted index, memoising
// ranked results per canonical query.
package search

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/internal/text"
	"github.com/mitch-ross/search-engine/pkg/jsonw"
)

// Index is the slice of index behaviour the searcher consumes.
type Index interface {
	Search(query []string, partial bool) []index.Result
}

// Interface is implemented by both searcher variants so the driver can hold
// either.
type Interface interface {
	SearchLine(line string, partial bool)
	SearchFile(path string, partial bool) error
	HasQuery(line string) bool
	Results(line string) []index.Result
	Size() int
	WriteResults(w io.Writer) error
}

// Searcher is the serial variant: results are written directly with no
// locking. Not safe for concurrent use.
type Searcher struct {
	index   Index
	results map[string][]index.Result
}

// New returns a serial searcher over idx.
func New(idx Index) *Searcher {
	return &Searcher{
		index:   idx,
		results: make(map[string][]index.Result),
	}
}

// SearchLine evaluates one query line. Lines whose canonical form is empty
// are ignored; repeated canonical forms are served from the memo map.
func (s *Searcher) SearchLine(line string, partial bool) {
	stems := text.UniqueStems(line)
	if len(stems) == 0 {
		return
	}
	canonical := joinStems(stems)
	if _, done := s.results[canonical]; done {
		return
	}
	s.results[canonical] = s.index.Search(stems, partial)
}

// SearchFile evaluates every line of the query file.
func (s *Searcher) SearchFile(path string, partial bool) error {
	return eachLine(path, func(line string) {
		s.SearchLine(line, partial)
	})
}

// HasQuery reports whether the line's canonical form has been searched.
func (s *Searcher) HasQuery(line string) bool {
	canonical := text.CanonicalQuery(line)
	if canonical == "" {
		return false
	}
	_, ok := s.results[canonical]
	return ok
}

// Results returns the ranked results for the line's canonical form, or an
// empty slice.
func (s *Searcher) Results(line string) []index.Result {
	canonical := text.CanonicalQuery(line)
	if canonical == "" {
		return nil
	}
	return s.results[canonical]
}

// Size returns the number of distinct canonical queries searched.
func (s *Searcher) Size() int {
	return len(s.results)
}

// WriteResults serialises every query's ranked results as pretty JSON.
func (s *Searcher) WriteResults(w io.Writer) error {
	return writeResults(w, s.results)
}

// joinStems builds the canonical query from an already-sorted stem set.
func joinStems(stems []string) string {
	canonical := stems[0]
	for _, stem := range stems[1:] {
		canonical += " " + stem
	}
	return canonical
}

// eachLine streams the lines of a file through fn.
func eachLine(path string, fn func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// writeResults renders a results map, queries in ascending order, records in
// rank order. Entries still holding a claim sentinel render as empty lists.
func writeResults(w io.Writer, results map[string][]index.Result) error {
	queries := make([]string, 0, len(results))
	for query := range results {
		queries = append(queries, query)
	}
	sort.Strings(queries)

	out := make([]jsonw.Query, len(queries))
	for i, query := range queries {
		ranked := results[query]
		entry := jsonw.Query{Query: query, Results: make([]jsonw.Result, len(ranked))}
		for j, r := range ranked {
			entry.Results[j] = jsonw.Result{
				Count: r.Matches,
				Score: FormatScore(r.Score),
				Where: r.Location,
			}
		}
		out[i] = entry
	}
	return jsonw.WriteResults(w, out)
}

// FormatScore renders a score with eight fractional digits, rounding half
// away from zero.
func FormatScore(score float64) string {
	rounded := math.Floor(score*1e8+0.5) / 1e8
	return strconv.FormatFloat(rounded, 'f', 8, 64)
}
