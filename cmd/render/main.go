// Command render writes a PNG of a stored kitchen plan.
//
// The plan comes from the local SQLite store by default, from a Postgres
// plan when --plan is given, or from a serialized document with --in.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/config"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/engine"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/persist"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/store"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/typeid"
)

type options struct {
	dbPath      string
	databaseURL string
	planID      string
	in          string
	layout      string
	out         string
	width       int
	height      int
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.dbPath, "db", cfg.PlannerDB, "local SQLite planner store")
	flag.StringVar(&opts.databaseURL, "database-url", cfg.DatabaseURL, "Postgres URL used with --plan")
	flag.StringVar(&opts.planID, "plan", "", "render the latest snapshot of this plan id")
	flag.StringVarP(&opts.in, "in", "i", "", "read a serialized plan document instead of a store")
	flag.StringVarP(&opts.layout, "layout", "l", "", "preferred layout used when no room exists yet")
	flag.StringVarP(&opts.out, "out", "o", "", "output file (default kitchen-plan-<unix-ms>.png)")
	flag.IntVar(&opts.width, "width", cfg.ExportWidth, "canvas width in pixels")
	flag.IntVar(&opts.height, "height", cfg.ExportHeight, "canvas height in pixels")
	flag.Parse()

	if err := run(context.Background(), cfg, opts); err != nil {
		slog.Error("render plan", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	s, closeStore, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	if s.SeedFromLayout(opts.layout) {
		slog.Info("seeded room from layout", "layout", opts.layout)
	}
	plan := s.Plan()
	if plan.Room == nil {
		return errors.New("plan has no room; pass --layout to create one")
	}

	out := opts.out
	if out == "" {
		out = s.ExportFilename()
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := engine.RenderPNG(f, plan, opts.width, opts.height, cfg.AreaOptions()); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}
	slog.Info("wrote plan",
		"file", out,
		"size", humanize.Bytes(uint64(info.Size())),
		"items", len(plan.PlacedItems),
	)
	return nil
}

func openStore(ctx context.Context, opts options) (*store.Store, func(), error) {
	switch {
	case opts.in != "":
		data, err := os.ReadFile(opts.in)
		if err != nil {
			return nil, nil, fmt.Errorf("read document: %w", err)
		}
		s := store.New()
		if err := s.Import(data); err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	case opts.planID != "":
		if err := typeid.Validate(opts.planID, typeid.PrefixPlan); err != nil {
			return nil, nil, err
		}
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := persist.NewPool(connectCtx, opts.databaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := persist.NewPlanRepository(pool)
		p := persist.NewPlanPersister(repo, opts.planID, typeid.NewSnapshotID)
		s, err := store.Open(ctx, store.WithPersister(p))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil

	default:
		db, err := persist.OpenSQLite(opts.dbPath)
		if err != nil {
			return nil, nil, err
		}
		s, err := store.Open(ctx, store.WithPersister(persist.NewSQLite(db)))
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	}
}
