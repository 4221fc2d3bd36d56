package build

import (
	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/pkg/logger"
	"github.com/mitch-ross/search-engine/pkg/metrics"
	"github.com/mitch-ross/search-engine/pkg/workqueue"
)

// BuildThreaded walks the tree on the calling goroutine, enqueues one task
// per file, and drains the queue before returning. Each task builds a fresh
// local index and merges it into the shared index under its write lock, so
// position counters never interleave across files.
func BuildThreaded(path string, idx *index.ThreadSafeIndex, queue *workqueue.Queue, m *metrics.Metrics) error {
	log := logger.WithComponent("builder")

	err := walk(path, func(file string) error {
		queue.Execute(func() {
			local := index.New()
			if err := IndexFile(file, local); err != nil {
				log.Error("indexing file failed", "path", file, "error", err)
				return
			}
			idx.AddAll(local)
			if m != nil {
				m.DocsIndexedTotal.Inc()
				m.IndexMergesTotal.Inc()
			}
		})
		return nil
	})

	queue.Finish()
	return err
}
