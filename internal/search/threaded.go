package search

import (
	"io"
	"sync"
	"time"

	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/internal/text"
	"github.com/mitch-ross/search-engine/pkg/metrics"
	"github.com/mitch-ross/search-engine/pkg/workqueue"
)

// ThreadedSearcher dispatches each query line onto the work queue. A task
// claims its canonical query by installing a nil sentinel under the results
// mutex, runs the search outside the mutex (the index carries its own lock),
// then swaps the real list in. Duplicate lines therefore cost at most one
// index search.
type ThreadedSearcher struct {
	index   Index
	queue   *workqueue.Queue
	metrics *metrics.Metrics

	mu      sync.Mutex
	results map[string][]index.Result
}

// NewThreaded returns a searcher that fans work out across queue.
func NewThreaded(idx Index, queue *workqueue.Queue, m *metrics.Metrics) *ThreadedSearcher {
	return &ThreadedSearcher{
		index:   idx,
		queue:   queue,
		metrics: m,
		results: make(map[string][]index.Result),
	}
}

// SearchLine enqueues the evaluation of one query line.
func (s *ThreadedSearcher) SearchLine(line string, partial bool) {
	s.queue.Execute(func() {
		s.searchTask(line, partial)
	})
}

// SearchFile dispatches every line of the query file, then drains the queue
// so results are complete when it returns.
func (s *ThreadedSearcher) SearchFile(path string, partial bool) error {
	defer s.queue.Finish()
	return eachLine(path, func(line string) {
		s.SearchLine(line, partial)
	})
}

func (s *ThreadedSearcher) searchTask(line string, partial bool) {
	stems := text.UniqueStems(line)
	if len(stems) == 0 {
		return
	}
	canonical := joinStems(stems)

	s.mu.Lock()
	if _, claimed := s.results[canonical]; claimed {
		s.mu.Unlock()
		return
	}
	// Claim the key so concurrent duplicates bail out above.
	s.results[canonical] = nil
	s.mu.Unlock()

	start := time.Now()
	ranked := s.index.Search(stems, partial)
	if s.metrics != nil {
		mode := "exact"
		if partial {
			mode = "partial"
		}
		s.metrics.SearchQueriesTotal.WithLabelValues(mode).Inc()
		s.metrics.SearchLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}

	s.mu.Lock()
	s.results[canonical] = ranked
	s.mu.Unlock()
}

// HasQuery reports whether the line's canonical form has been searched or
// claimed.
func (s *ThreadedSearcher) HasQuery(line string) bool {
	canonical := text.CanonicalQuery(line)
	if canonical == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.results[canonical]
	return ok
}

// Results returns the ranked results for the line's canonical form, or an
// empty slice.
func (s *ThreadedSearcher) Results(line string) []index.Result {
	canonical := text.CanonicalQuery(line)
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[canonical]
}

// Size returns the number of distinct canonical queries searched.
func (s *ThreadedSearcher) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// WriteResults serialises a stable snapshot of the results map.
func (s *ThreadedSearcher) WriteResults(w io.Writer) error {
	s.mu.Lock()
	snapshot := make(map[string][]index.Result, len(s.results))
	for query, ranked := range s.results {
		snapshot[query] = ranked
	}
	s.mu.Unlock()
	return writeResults(w, snapshot)
}
