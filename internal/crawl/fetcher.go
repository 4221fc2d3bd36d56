package crawl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/mitch-ross/search-engine/pkg/config"
	"github.com/mitch-ross/search-engine/pkg/logger"
)

// Fetcher retrieves HTML pages. It follows a bounded number of redirects,
// accepts only 200 responses whose content type is text/html, and caps the
// number of in-flight requests with a weighted semaphore — the work queue
// bounds CPU, the semaphore bounds sockets.
type Fetcher struct {
	client *http.Client
	sem    *semaphore.Weighted
	log    *slog.Logger
}

// NewFetcher builds a fetcher from the fetch configuration.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	concurrent := cfg.MaxConcurrent
	if concurrent < 1 {
		concurrent = 1
	}
	return &Fetcher{
		client: client,
		sem:    semaphore.NewWeighted(concurrent),
		log:    logger.WithComponent("fetcher"),
	}
}

// Fetch returns the HTML body of the page, or ok=false when the page cannot
// be fetched or is not HTML. Failures are not errors to the crawl; the
// caller simply skips the page.
func (f *Fetcher) Fetch(ctx context.Context, page *url.URL) (string, bool) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return "", false
	}
	defer f.sem.Release(1)

	resp, err := f.client.Get(page.String())
	if err != nil {
		f.log.Debug("fetch failed", "url", page.String(), "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Debug("fetch skipped", "url", page.String(), "status", resp.StatusCode)
		return "", false
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		f.log.Debug("fetch skipped, not html", "url", page.String(), "content_type", contentType)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.log.Debug("reading body failed", "url", page.String(), "error", err)
		return "", false
	}
	return string(body), true
}
