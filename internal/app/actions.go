package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/j-veylop/histkit/internal/config"
	"github.com/j-veylop/histkit/internal/db"
	"github.com/j-veylop/histkit/internal/histogram"
	"github.com/j-veylop/histkit/internal/ingest"
	"github.com/j-veylop/histkit/internal/logger"
	"github.com/j-veylop/histkit/internal/registry"
)

func openDB(c *cli.Context) (*db.DB, error) {
	store, err := db.New(c.String(flagDB))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func closeDB(store *db.DB) {
	if err := store.Close(); err != nil {
		logger.Warn("failed to close database", "path", store.Path(), "error", err)
	}
}

// load fetches the histogram named by key and registers it in the
// process-wide directory. Callers must Close it.
func load(ctx context.Context, store *db.DB, key string, opts ...histogram.Option) (histogram.Histogram, error) {
	path, name, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, path, name, append([]histogram.Option{histogram.WithRegistry(registry.Default)}, opts...)...)
}

func argsExactly(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("expected %d argument(s), got %d; usage: %s %s", n, c.NArg(), c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}

func (r *runner) create(c *cli.Context) error {
	defs, err := config.LoadDefinitions(c.String(flagDefinitions))
	if err != nil {
		return err
	}

	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	for _, def := range defs {
		h, err := def.Build(histogram.WithRegistry(registry.Default))
		if err != nil {
			return err
		}

		_, err = store.Load(c.Context, h.Path(), h.Name())
		switch {
		case err == nil && !c.Bool(flagForce):
			h.Close()
			return fmt.Errorf("histogram %s already exists (use --%s to overwrite)", h.Key(), flagForce)
		case err != nil && !errors.Is(err, db.ErrNotFound):
			h.Close()
			return err
		}

		if err := store.Save(c.Context, h); err != nil {
			h.Close()
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s %s (rank %d, %d bins)\n",
			SuccessStyle.Render("created"), h.Key(), h.Rank(), len(h.Contents()))
		h.Close()
	}

	logger.Info("created histograms", "count", len(defs), "registered", registry.Default.Len())
	return nil
}

func (r *runner) fill(c *cli.Context) error {
	if err := argsExactly(c, 2); err != nil {
		return err
	}
	key, source := c.Args().Get(0), c.Args().Get(1)

	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	var opts []histogram.Option
	if r.cfg.BufferSize > 0 {
		opts = append(opts, histogram.WithBuffer(r.cfg.BufferSize))
	}
	h, err := load(c.Context, store, key, opts...)
	if err != nil {
		return err
	}
	defer h.Close()

	var st ingest.Stats
	if c.Bool(flagFollow) {
		if source == "-" {
			return fmt.Errorf("--%s needs a file, not stdin", flagFollow)
		}
		st, err = r.follow(c, store, h, source)
	} else {
		st, err = fillOnce(c, h, source)
	}
	if err != nil {
		return err
	}

	if err := store.Save(c.Context, h); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %s: %d samples (weight %d) from %d lines, %d entries total\n",
		SuccessStyle.Render("filled"), h.Key(), st.Samples, st.Weight, st.Lines, h.Entries())
	return nil
}

func fillOnce(c *cli.Context, h histogram.Histogram, source string) (ingest.Stats, error) {
	var in io.Reader = c.App.Reader
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return ingest.Stats{}, fmt.Errorf("failed to open samples: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	return ingest.FillParallel(c.Context, h, in, c.Int(flagWorkers))
}

// follow fills from a growing file until interrupted, saving at most once
// per save interval.
func (r *runner) follow(c *cli.Context, store *db.DB, h histogram.Histogram, source string) (ingest.Stats, error) {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lastSave := time.Now()
	logger.Info("following samples", "key", h.Key(), "file", source)
	return ingest.Follow(ctx, h, source, func(st ingest.Stats) {
		if time.Since(lastSave) < r.cfg.SaveInterval {
			return
		}
		lastSave = time.Now()
		if err := store.Save(ctx, h); err != nil {
			logger.Error("checkpoint failed", "key", h.Key(), "error", err)
			return
		}
		logger.Info("checkpoint", "key", h.Key(), "samples", st.Samples, "entries", h.Entries())
	})
}

func (r *runner) show(c *cli.Context) error {
	if err := argsExactly(c, 1); err != nil {
		return err
	}

	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	h, err := load(c.Context, store, c.Args().First())
	if err != nil {
		return err
	}
	defer h.Close()

	renderSummary(c.App.Writer, h)
	renderBins(c.App.Writer, h, c.Bool(flagAll))
	return nil
}

func (r *runner) list(c *cli.Context) error {
	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	summaries, err := store.List(c.Context)
	if err != nil {
		return err
	}
	renderList(c.App.Writer, summaries)
	return nil
}

func (r *runner) add(c *cli.Context) error {
	if err := argsExactly(c, 2); err != nil {
		return err
	}

	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	dst, err := load(c.Context, store, c.Args().Get(0))
	if err != nil {
		return err
	}
	defer dst.Close()

	src, err := load(c.Context, store, c.Args().Get(1))
	if err != nil {
		return err
	}
	defer src.Close()

	scale := c.Uint64(flagScale)
	if err := histogram.Merge(dst, src, scale); err != nil {
		return fmt.Errorf("cannot add %s to %s: %w", src.Key(), dst.Key(), err)
	}
	if err := store.Save(c.Context, dst); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %d x %s to %s, %d entries total\n",
		SuccessStyle.Render("added"), scale, src.Key(), dst.Key(), dst.Entries())
	return nil
}

func (r *runner) reset(c *cli.Context) error {
	if err := argsExactly(c, 1); err != nil {
		return err
	}

	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	h, err := load(c.Context, store, c.Args().First())
	if err != nil {
		return err
	}
	defer h.Close()

	h.Reset()
	if err := store.Save(c.Context, h); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %s\n", SuccessStyle.Render("reset"), h.Key())
	return nil
}

func (r *runner) delete(c *cli.Context) error {
	if err := argsExactly(c, 1); err != nil {
		return err
	}
	path, name, err := splitKey(c.Args().First())
	if err != nil {
		return err
	}

	store, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB(store)

	if err := store.Delete(c.Context, path, name); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %s\n", SuccessStyle.Render("deleted"), c.Args().First())
	return nil
}
