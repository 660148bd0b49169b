// Command pagepool is a small demo: it seeds a handful of rows into a flat
// page file, then serves them back out through a CLOCK buffer pool.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/anvil-db/clockpool/src/bufferpool"
	"github.com/anvil-db/clockpool/src/config"
	"github.com/anvil-db/clockpool/src/page"
	"github.com/anvil-db/clockpool/src/persist"
)

var rowTypes = []string{"integer", "varchar"}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	rows := flag.Int("rows", 10, "number of demo rows to seed")
	filterLow := flag.Int("filter-low", 1000, "lower exclusive bound of the tuple filter")
	filterHigh := flag.Int("filter-high", 1500, "upper exclusive bound of the tuple filter")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("pagepool: failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log := slog.Default()

	if cfg.PageSize != page.Size {
		log.Error("pagepool: configured page size does not match the compiled-in page format",
			"configured", cfg.PageSize, "compiled", page.Size)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("pagepool: failed to prepare data dir", "error", err)
		os.Exit(1)
	}

	writer := persist.NewWriter(cfg.DataDir, cfg.DataFile)
	if err := seed(writer, *rows); err != nil {
		log.Error("pagepool: failed to seed demo rows", "error", err)
		os.Exit(1)
	}

	reader := persist.NewReader(cfg.DataDir, cfg.DataFile)
	pool, err := bufferpool.NewWithLogger(cfg.PoolSize, reader, log)
	if err != nil {
		log.Error("pagepool: failed to construct pool", "error", err)
		os.Exit(1)
	}

	// Mirror the original demo's filter-by-predicate walk: only tuples
	// whose integer column falls strictly between the configured bounds
	// are surfaced.
	for id := page.PageID(0); id < page.PageID(*rows); id++ {
		g, err := pool.Get(id)
		if err != nil {
			log.Error("pagepool: get failed", "page_id", id, "error", err)
			os.Exit(1)
		}
		tuples, err := g.Page().ReadAll(rowTypes)
		fromDisk := g.FromDisk()
		g.Release()
		if err != nil {
			log.Error("pagepool: decode failed", "page_id", id, "error", err)
			os.Exit(1)
		}
		for _, t := range tuples {
			n := t.Values[0].Int
			if int(n) <= *filterLow || int(n) >= *filterHigh {
				continue
			}
			log.Info("pagepool: found tuple",
				"page_id", id,
				"from_disk", fromDisk,
				"n", n,
				"tag", t.Values[1].Str,
			)
		}
	}
}

// seed writes n single-tuple pages, each tagged with a synthetic uuid, to
// the backing file. Values are spread across a wide range so a subset
// naturally lands inside the default filter bounds.
func seed(w *persist.Writer, n int) error {
	const stride = 400
	for i := 0; i < n; i++ {
		p := page.New()
		p.ID = page.PageID(i)
		tuple := page.Tuple{
			Types: rowTypes,
			Values: []page.Value{
				{Kind: page.Integer, Int: int32(i * stride)},
				{Kind: page.Varchar, Str: uuid.New().String()},
			},
		}
		if _, err := p.Write(tuple); err != nil {
			return err
		}
		if err := w.InsertPage(p); err != nil {
			return err
		}
	}
	return nil
}
