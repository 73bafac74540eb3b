package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/symbology"
)

const DefaultMigrationBatchSize = 100

// SymbolChange records what happened to one asset during a migration.
type SymbolChange struct {
	AssetID   string `json:"asset_id"`
	Name      string `json:"name"`
	OldSymbol string `json:"old_symbol"`
	NewSymbol string `json:"new_symbol"`
	Error     string `json:"error,omitempty"`
}

// MigrationReport summarizes a NomenclatureMigrator run.
type MigrationReport struct {
	DryRun    bool           `json:"dry_run"`
	Scanned   int            `json:"scanned"`
	Migrated  []SymbolChange `json:"migrated"`
	Conflicts []SymbolChange `json:"conflicts"`
	Failed    []SymbolChange `json:"failed"`
}

// NomenclatureMigrator rewrites comic assets whose symbol predates the
// dotted nomenclature into the era-qualified SERIES.EE.Vn.#ISSUE form.
type NomenclatureMigrator struct {
	repo      domain.AssetRepository
	registry  *symbology.Registry
	ledger    SymbolLedger
	batchSize int
	dryRun    bool
}

type MigratorOption func(*NomenclatureMigrator)

func WithBatchSize(n int) MigratorOption {
	return func(m *NomenclatureMigrator) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

// WithDryRun makes Run report the changes it would make without writing them.
func WithDryRun(dryRun bool) MigratorOption {
	return func(m *NomenclatureMigrator) {
		m.dryRun = dryRun
	}
}

func NewNomenclatureMigrator(repo domain.AssetRepository, registry *symbology.Registry, ledger SymbolLedger, opts ...MigratorOption) *NomenclatureMigrator {
	m := &NomenclatureMigrator{
		repo:      repo,
		registry:  registry,
		ledger:    ledger,
		batchSize: DefaultMigrationBatchSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run pages through undotted comic assets in ID order. A symbol that is
// already taken is recorded as a conflict and the asset keeps its old
// symbol; other per-asset failures are recorded and the run continues.
// Only listing errors and context cancellation stop the run.
func (m *NomenclatureMigrator) Run(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{
		DryRun:    m.dryRun,
		Migrated:  make([]SymbolChange, 0),
		Conflicts: make([]SymbolChange, 0),
		Failed:    make([]SymbolChange, 0),
	}

	slog.InfoContext(ctx, "Nomenclature migration started", "batch_size", m.batchSize, "dry_run", m.dryRun)

	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		page, err := m.repo.ListUndotted(ctx, domain.CategoryComic, afterID, m.batchSize)
		if err != nil {
			return report, fmt.Errorf("failed to list undotted assets after %q: %w", afterID, err)
		}
		if len(page) == 0 {
			break
		}

		for _, asset := range page {
			m.migrate(ctx, asset, report)
		}
		report.Scanned += len(page)
		afterID = page[len(page)-1].ID

		if len(page) < m.batchSize {
			break
		}
	}

	slog.InfoContext(ctx, "Nomenclature migration finished",
		"scanned", report.Scanned,
		"migrated", len(report.Migrated),
		"conflicts", len(report.Conflicts),
		"failed", len(report.Failed),
	)
	return report, nil
}

func (m *NomenclatureMigrator) migrate(ctx context.Context, asset *domain.Asset, report *MigrationReport) {
	change := SymbolChange{
		AssetID:   asset.ID,
		Name:      asset.Name,
		OldSymbol: asset.Symbol,
		NewSymbol: symbology.ComicSymbol(asset.Name, asset.ID),
	}

	if m.dryRun {
		if m.registry.IsUsed(change.NewSymbol) {
			m.conflict(ctx, change, fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, change.NewSymbol), report)
			return
		}
		report.Migrated = append(report.Migrated, change)
		return
	}

	if !m.registry.Reserve(change.NewSymbol) {
		m.conflict(ctx, change, fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, change.NewSymbol), report)
		return
	}

	claimed, err := m.ledger.Claim(ctx, change.NewSymbol)
	if err != nil {
		m.fail(ctx, change, fmt.Errorf("failed to claim symbol %s: %w", change.NewSymbol, err), report)
		return
	}
	if !claimed {
		m.conflict(ctx, change, fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, change.NewSymbol), report)
		return
	}

	// A symbol reserved here stays reserved if the write fails; symbols are never released.
	err = m.repo.UpdateSymbol(ctx, asset.ID, change.NewSymbol)
	switch {
	case errors.Is(err, domain.ErrDuplicateSymbol):
		m.conflict(ctx, change, err, report)
		return
	case err != nil:
		m.fail(ctx, change, err, report)
		return
	}

	report.Migrated = append(report.Migrated, change)
}

func (m *NomenclatureMigrator) conflict(ctx context.Context, change SymbolChange, err error, report *MigrationReport) {
	change.Error = err.Error()
	report.Conflicts = append(report.Conflicts, change)
	slog.WarnContext(ctx, "Symbol conflict, keeping old symbol", "asset_id", change.AssetID, "old", change.OldSymbol, "new", change.NewSymbol)
}

func (m *NomenclatureMigrator) fail(ctx context.Context, change SymbolChange, err error, report *MigrationReport) {
	change.Error = err.Error()
	report.Failed = append(report.Failed, change)
	slog.ErrorContext(ctx, "Failed to migrate asset symbol", "asset_id", change.AssetID, "error", err)
}
