// Package crawl implements a bounded breadth-first web crawl that feeds the
// shared inverted index. Admission is atomic over the processed set and the
// remaining budget, so the crawl never exceeds its page limit.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/internal/text"
	"github.com/mitch-ross/search-engine/pkg/logger"
	"github.com/mitch-ross/search-engine/pkg/metrics"
	"github.com/mitch-ross/search-engine/pkg/workqueue"
)

// Crawler walks pages breadth-first from a seed, indexing each fetched page
// into the shared index under the page's fragment-free URL.
type Crawler struct {
	index   *index.ThreadSafeIndex
	queue   *workqueue.Queue
	fetcher *Fetcher
	metrics *metrics.Metrics
	log     *slog.Logger

	// mu protects seen and remaining together: admission checks and updates
	// both under one critical section.
	mu        sync.Mutex
	seen      map[string]struct{}
	remaining int
}

// New returns a crawler feeding idx via queue.
func New(idx *index.ThreadSafeIndex, queue *workqueue.Queue, fetcher *Fetcher, m *metrics.Metrics) *Crawler {
	return &Crawler{
		index:   idx,
		queue:   queue,
		fetcher: fetcher,
		metrics: m,
		log:     logger.WithComponent("crawler"),
		seen:    make(map[string]struct{}),
	}
}

// Crawl admits the seed and processes pages until the queue drains. crawls
// is a hard upper bound on distinct URLs admitted, the seed included. Not
// reusable: a crawler runs one crawl.
func (c *Crawler) Crawl(seed string, crawls int) error {
	u, err := url.Parse(seed)
	if err != nil {
		return fmt.Errorf("parsing seed %s: %w", seed, err)
	}
	if !isHTTP(u) {
		return fmt.Errorf("seed %s: scheme must be http or https", seed)
	}
	u.Fragment = ""

	c.mu.Lock()
	c.remaining = crawls - 1
	c.seen[u.String()] = struct{}{}
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.CrawlBudgetRemaining.Set(float64(crawls - 1))
	}

	c.queue.Execute(func() { c.process(u) })
	c.queue.Finish()
	return nil
}

// Processed returns how many URLs were admitted.
func (c *Crawler) Processed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// process fetches one admitted page, admits its links while budget remains,
// and merges the page's text into the shared index.
func (c *Crawler) process(page *url.URL) {
	location := page.String()

	body, ok := c.fetcher.Fetch(context.Background(), page)
	if !ok {
		return
	}

	parsed := ParsePage(page, body)
	for _, link := range parsed.Links {
		if c.metrics != nil {
			c.metrics.LinksDiscoveredTotal.Inc()
		}
		c.admit(link)
	}

	local := index.New()
	position := 1
	for _, line := range parsed.Lines {
		for _, stem := range text.Stems(line) {
			local.Add(stem, location, position)
			position++
		}
	}
	c.index.AddAll(local)
	if c.metrics != nil {
		c.metrics.PagesCrawledTotal.Inc()
		c.metrics.IndexMergesTotal.Inc()
	}
	c.log.Debug("page indexed", "url", location, "stems", position-1)
}

// admit reserves a crawl slot for the link and enqueues it. The whole
// check-and-reserve runs under one lock; splitting it would over-admit.
func (c *Crawler) admit(link *url.URL) {
	target := link.String()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[target]; dup || c.remaining <= 0 {
		return
	}
	c.seen[target] = struct{}{}
	c.remaining--
	if c.metrics != nil {
		c.metrics.CrawlBudgetRemaining.Set(float64(c.remaining))
	}
	c.queue.Execute(func() { c.process(link) })
}
