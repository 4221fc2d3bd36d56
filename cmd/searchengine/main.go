// Command searchengine builds a ranked inverted-index search engine over a
// directory of text files or a crawled web site, answers queries from a
// query file, and writes counts, index, and results as pretty JSON.
//
// Flags are order-independent flag/value pairs:
//
//	-text <path>      build the index from a file or directory
//	-html <url>       crawl from the seed URL
//	-crawl <n>        page budget for the crawl (default 1)
//	-query <path>     query file, one query per line
//	-partial          prefix search instead of exact
//	-threads <n>      worker count (threaded mode; default 5)
//	-counts [path]    write counts JSON (default counts.json)
//	-index [path]     write inverted-index JSON (default index.json)
//	-results [path]   write results JSON (default results.json)
//	-config <path>    optional YAML config file
//
// Per-stage failures are reported on stderr and the remaining stages still
// run; the process exits 0.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mitch-ross/search-engine/internal/args"
	"github.com/mitch-ross/search-engine/internal/build"
	"github.com/mitch-ross/search-engine/internal/crawl"
	"github.com/mitch-ross/search-engine/internal/index"
	"github.com/mitch-ross/search-engine/internal/search"
	"github.com/mitch-ross/search-engine/pkg/config"
	"github.com/mitch-ross/search-engine/pkg/logger"
	"github.com/mitch-ross/search-engine/pkg/metrics"
	"github.com/mitch-ross/search-engine/pkg/workqueue"
)

// indexWriter is the serialisation surface shared by both index variants.
type indexWriter interface {
	WriteCounts(w io.Writer) error
	WriteIndex(w io.Writer) error
}

func main() {
	start := time.Now()
	parser := args.New(os.Args[1:])

	cfg, err := config.Load(parser.String("-config", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: invalid config file")
		cfg, _ = config.Load("")
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}

	var (
		writer   indexWriter
		searcher search.Interface
		queue    *workqueue.Queue
	)

	threaded := parser.HasFlag("-threads") || parser.HasFlag("-html")
	if threaded {
		threads := parser.Int("-threads", cfg.Workers.Threads)
		if threads < 1 {
			threads = workqueue.Default
		}
		queue = workqueue.New(threads)
		safe := index.NewThreadSafe()
		writer = safe

		if parser.HasFlag("-text") {
			if err := build.BuildThreaded(parser.String("-text", ""), safe, queue, m); err != nil {
				fmt.Fprintln(os.Stderr, "Error: invalid file")
			}
		}
		if parser.HasFlag("-html") {
			fetcher := crawl.NewFetcher(cfg.Fetch)
			crawler := crawl.New(safe, queue, fetcher, m)
			if err := crawler.Crawl(parser.String("-html", ""), parser.Int("-crawl", 1)); err != nil {
				fmt.Fprintln(os.Stderr, "Error: invalid seed url")
			}
		}
		searcher = search.NewThreaded(safe, queue, m)
	} else {
		inv := index.New()
		writer = inv

		if parser.HasFlag("-text") {
			if err := build.Build(parser.String("-text", ""), inv); err != nil {
				fmt.Fprintln(os.Stderr, "Error: invalid file")
			}
		}
		searcher = search.New(inv)
	}

	if parser.HasFlag("-query") {
		if err := searcher.SearchFile(parser.String("-query", ""), parser.HasFlag("-partial")); err != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid query file")
		}
	}

	if queue != nil {
		queue.Join()
	}

	if parser.HasFlag("-counts") {
		writeOutput(parser.String("-counts", "counts.json"), writer.WriteCounts)
	}
	if parser.HasFlag("-index") {
		writeOutput(parser.String("-index", "index.json"), writer.WriteIndex)
	}
	if parser.HasFlag("-results") {
		writeOutput(parser.String("-results", "results.json"), searcher.WriteResults)
	}

	fmt.Printf("Elapsed: %f seconds\n", time.Since(start).Seconds())
}

// writeOutput writes one JSON output, reporting failures without aborting
// the rest of the run.
func writeOutput(path string, write func(io.Writer) error) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot write %s\n", path)
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot write %s\n", path)
	}
}
