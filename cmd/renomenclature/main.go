// Command renomenclature rewrites legacy comic asset symbols into the
// era-qualified SERIES.EE.Vn.#ISSUE form and prints the migration report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/panelprofits/symbology/internal/application"
	"github.com/panelprofits/symbology/internal/infrastructure/config"
	"github.com/panelprofits/symbology/internal/infrastructure/store"
	"github.com/panelprofits/symbology/internal/symbology"
)

type options struct {
	dryRun    bool
	batchSize int
}

func parseFlags(args []string, defaultBatchSize int) (options, error) {
	fs := flag.NewFlagSet("renomenclature", flag.ContinueOnError)
	var opts options
	fs.BoolVar(&opts.dryRun, "dry-run", false, "report the changes without writing them")
	fs.IntVar(&opts.batchSize, "batch-size", defaultBatchSize, "assets loaded per page")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.batchSize <= 0 {
		return opts, fmt.Errorf("batch-size must be positive, got %d", opts.batchSize)
	}
	return opts, nil
}

// migrate hydrates a registry from st, runs the migrator over it and writes
// the JSON report to out.
func migrate(ctx context.Context, st *store.Store, opts options, out io.Writer) (*application.MigrationReport, error) {
	registry := symbology.NewRegistry()
	hydrator := application.NewSymbolService(st.Assets, symbology.NewGenerator(registry), st.Ledger)
	if _, err := hydrator.Hydrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to hydrate registry: %w", err)
	}

	migrator := application.NewNomenclatureMigrator(
		st.Assets,
		registry,
		st.Ledger,
		application.WithBatchSize(opts.batchSize),
		application.WithDryRun(opts.dryRun),
	)
	report, err := migrator.Run(ctx)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return report, nil
}

func run(args []string) error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	opts, err := parseFlags(args, cfg.MigrationBatchSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	report, err := migrate(ctx, st, opts, os.Stdout)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Migration finished",
		"dry_run", report.DryRun,
		"scanned", report.Scanned,
		"migrated", len(report.Migrated),
		"conflicts", len(report.Conflicts),
		"failed", len(report.Failed),
	)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
