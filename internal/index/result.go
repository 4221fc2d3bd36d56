package index

import (
	"sort"
	"unicode"
)

// Result is one ranked search hit. Words carries counts[Location] captured
// when the search finalises its results, so the comparator never reaches back
// into the index.
type Result struct {
	Location string
	Matches  int64
	Words    int
	Score    float64
}

// accumulator collects per-location results in discovery order during a
// single search.
type accumulator struct {
	byLocation map[string]int
	results    []Result
}

func newAccumulator() *accumulator {
	return &accumulator{byLocation: make(map[string]int)}
}

func (a *accumulator) add(location string, matches int) {
	i, ok := a.byLocation[location]
	if !ok {
		i = len(a.results)
		a.byLocation[location] = i
		a.results = append(a.results, Result{Location: location})
	}
	a.results[i].Matches += int64(matches)
}

// ranked finalises scores from the counts snapshot and sorts into rank
// order.
func (a *accumulator) ranked(counts map[string]int) []Result {
	for i := range a.results {
		r := &a.results[i]
		r.Words = counts[r.Location]
		r.Score = float64(r.Matches) / float64(r.Words)
	}
	sort.Slice(a.results, func(i, j int) bool {
		return lessResult(a.results[i], a.results[j])
	})
	return a.results
}

// lessResult is the ranking order: score descending, then word count
// descending, then location ascending case-insensitively with an exact
// comparison breaking any remaining tie so the order is total.
func lessResult(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Words != b.Words {
		return a.Words > b.Words
	}
	if c := compareFold(a.Location, b.Location); c != 0 {
		return c < 0
	}
	return a.Location < b.Location
}

// compareFold orders strings by simple case folding, rune by rune.
func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, sizeA := decodeFoldedRune(a)
		rb, sizeB := decodeFoldedRune(b)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		a, b = a[sizeA:], b[sizeB:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func decodeFoldedRune(s string) (rune, int) {
	for _, r := range s {
		return unicode.ToLower(unicode.ToUpper(r)), len(string(r))
	}
	return 0, 0
}

// sortLocations orders locations the way they appear in every output:
// case-insensitively ascending, exact comparison on ties.
func sortLocations(locations []string) {
	sort.Slice(locations, func(i, j int) bool {
		if c := compareFold(locations[i], locations[j]); c != 0 {
			return c < 0
		}
		return locations[i] < locations[j]
	})
}

// EqualFoldLess reports whether a orders before b under the location
// collation. Exposed for tests asserting ranking laws.
func EqualFoldLess(a, b string) bool {
	if c := compareFold(a, b); c != 0 {
		return c < 0
	}
	return a < b
}
