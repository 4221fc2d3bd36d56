package crawl

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/pkg/config"
	"github.com/mitch-ross/search-engine/pkg/workqueue"
)

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{
		Timeout:       5 * time.Second,
		MaxRedirects:  3,
		MaxConcurrent: 8,
	}
}

func newCrawler(t *testing.T) (*Crawler, *index.ThreadSafeIndex) {
	t.Helper()
	queue := workqueue.New(4)
	t.Cleanup(queue.Join)
	idx := index.NewThreadSafe()
	return New(idx, queue, NewFetcher(testFetchConfig()), nil), idx
}

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}
}

func TestCrawlSinglePage(t *testing.T) {
	server := httptest.NewServer(htmlHandler(
		`<html><head><title>skip me</title></head><body><p>Red fish, red fish.</p></body></html>`,
	))
	defer server.Close()

	crawler, idx := newCrawler(t)
	if err := crawler.Crawl(server.URL, 1); err != nil {
		t.Fatal(err)
	}

	location := server.URL
	if got := idx.CountOf(location); got != 4 {
		t.Errorf("CountOf = %d, want 4", got)
	}
	if diff := cmp.Diff([]int{1, 3}, idx.StemPositionsIn("red", location)); diff != "" {
		t.Errorf("red positions (-want +got):\n%s", diff)
	}
	if idx.HasStem("skip") || idx.HasStem("titl") {
		t.Error("head content leaked into the index")
	}
}

// A crawl budget of 3 over a page with five links admits exactly 3 URLs.
func TestCrawlBudget(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.URL.Path == "/" {
			fmt.Fprint(w, `<html><body>
				<a href="/one">1</a>
				<a href="/two">2</a>
				<a href="/three">3</a>
				<a href="/four">4</a>
				<a href="/five">5</a>
			</body></html>`)
			return
		}
		fmt.Fprintf(w, "<html><body>leaf %s</body></html>", r.URL.Path)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	crawler, idx := newCrawler(t)
	if err := crawler.Crawl(server.URL, 3); err != nil {
		t.Fatal(err)
	}

	if got := crawler.Processed(); got != 3 {
		t.Errorf("admitted %d URLs, want 3", got)
	}

	admitted := map[string]struct{}{
		server.URL:            {},
		server.URL + "/one":   {},
		server.URL + "/two":   {},
		server.URL + "/three": {},
		server.URL + "/four":  {},
		server.URL + "/five":  {},
	}
	for _, location := range idx.Locations() {
		if _, ok := admitted[location]; !ok {
			t.Errorf("indexed location %s was never admitted", location)
		}
	}
}

func TestCrawlDeduplicatesLinks(t *testing.T) {
	var leafHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", htmlHandler(
		`<html><body><a href="/leaf">a</a><a href="/leaf">b</a><a href="/leaf#section">c</a></body></html>`,
	))
	mux.HandleFunc("/leaf", func(w http.ResponseWriter, r *http.Request) {
		leafHits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>leaf words</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	crawler, _ := newCrawler(t)
	if err := crawler.Crawl(server.URL, 10); err != nil {
		t.Fatal(err)
	}

	if got := crawler.Processed(); got != 2 {
		t.Errorf("admitted %d URLs, want 2 (seed + deduplicated leaf)", got)
	}
	if got := leafHits.Load(); got != 1 {
		t.Errorf("leaf fetched %d times, want 1", got)
	}
}

func TestCrawlSkipsNonHTML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", htmlHandler(
		`<html><body><a href="/data">data</a> page words</body></html>`,
	))
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"word": "hidden"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	crawler, idx := newCrawler(t)
	if err := crawler.Crawl(server.URL, 5); err != nil {
		t.Fatal(err)
	}

	if idx.HasStem("hidden") {
		t.Error("non-HTML response was indexed")
	}
	if !idx.HasLocation(server.URL) {
		t.Error("seed page missing from the index")
	}
}

func TestCrawlFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/real", http.StatusFound)
	})
	mux.HandleFunc("/real", htmlHandler("<html><body>landed here</body></html>"))
	server := httptest.NewServer(mux)
	defer server.Close()

	crawler, idx := newCrawler(t)
	if err := crawler.Crawl(server.URL, 1); err != nil {
		t.Fatal(err)
	}

	// The location stays the admitted URL; the content comes from the
	// redirect target.
	if !idx.HasStem("land") {
		t.Error("redirected content missing from the index")
	}
	if !idx.HasLocation(server.URL) {
		t.Errorf("expected location %s, got %v", server.URL, idx.Locations())
	}
}

func TestCrawlRejectsBadSeed(t *testing.T) {
	crawler, _ := newCrawler(t)
	if err := crawler.Crawl("ftp://example.com/files", 1); err == nil {
		t.Error("expected an error for a non-http seed")
	}
	if err := crawler.Crawl("://bad", 1); err == nil {
		t.Error("expected an error for an unparsable seed")
	}
}

func TestParsePage(t *testing.T) {
	base, _ := url.Parse("https://example.com/docs/page.html")
	page := ParsePage(base, `<html>
		<head><script>var x = "ignored";</script></head>
		<body>
			<a href="other.html">relative</a>
			<a href="/root.html#frag">rooted</a>
			<a href="https://other.org/abs">absolute</a>
			<a href="mailto:someone@example.com">mail</a>
			<p>Visible text here</p>
			<style>p { color: red }</style>
		</body></html>`)

	var links []string
	for _, link := range page.Links {
		links = append(links, link.String())
	}
	wantLinks := []string{
		"https://example.com/docs/other.html",
		"https://example.com/root.html",
		"https://other.org/abs",
	}
	if diff := cmp.Diff(wantLinks, links); diff != "" {
		t.Errorf("links (-want +got):\n%s", diff)
	}

	text := strings.Join(page.Lines, " ")
	if !strings.Contains(text, "Visible text here") {
		t.Errorf("visible text missing: %q", text)
	}
	if strings.Contains(text, "ignored") || strings.Contains(text, "color") {
		t.Errorf("block element text leaked: %q", text)
	}
}
