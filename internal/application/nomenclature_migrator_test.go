package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/infrastructure/persistence/memory"
	"github.com/panelprofits/symbology/internal/symbology"
)

func seedComic(t *testing.T, repo domain.AssetRepository, title, symbol string) *domain.Asset {
	t.Helper()
	a := domain.NewAsset(domain.NamedEntity{Name: title, Category: domain.CategoryComic}, symbol)
	require.NoError(t, repo.Save(context.Background(), &a))
	return &a
}

func TestNomenclatureMigrator_Run(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAssetRepository()
	registry := symbology.NewRegistry()
	ledger := memory.NewSymbolLedger()

	batman := seedComic(t, repo, "Batman (1940) #404", "BTMN")
	thor := seedComic(t, repo, "Thor (1998) Vol 2 #62", "THOR")
	seedComic(t, repo, "Spawn (1992) #1", "SPWN.92.V1.#1")
	stockAsset := domain.NewAsset(stock("Batman"), "BTM1")
	require.NoError(t, repo.Save(ctx, &stockAsset))

	migrator := NewNomenclatureMigrator(repo, registry, ledger, WithBatchSize(1))
	report, err := migrator.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Len(t, report.Migrated, 2)
	assert.Empty(t, report.Conflicts)
	assert.Empty(t, report.Failed)

	updated, err := repo.FindByID(ctx, batman.ID)
	require.NoError(t, err)
	assert.Equal(t, "BATM.40.V1.#404", updated.Symbol)
	updated, err = repo.FindByID(ctx, thor.ID)
	require.NoError(t, err)
	assert.Equal(t, "THOR.98.V2.#62", updated.Symbol)

	assert.True(t, registry.IsUsed("BATM.40.V1.#404"))
	claimed, err := ledger.Claimed(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BATM.40.V1.#404", "THOR.98.V2.#62"}, claimed)

	stockAfter, err := repo.FindByID(ctx, stockAsset.ID)
	require.NoError(t, err)
	assert.Equal(t, "BTM1", stockAfter.Symbol)

	again, err := migrator.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Scanned)
}

func TestNomenclatureMigrator_Run_RecordsConflicts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAssetRepository()
	seedComic(t, repo, "Batman (1940) #404", "BATM.40.V1.#404")
	dup := seedComic(t, repo, "Batman (1940) #404", "BTMN")
	other := seedComic(t, repo, "Spawn (1992) #1", "SPWN")

	report, err := NewNomenclatureMigrator(repo, symbology.NewRegistry(), memory.NewSymbolLedger(), WithBatchSize(1)).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, dup.ID, report.Conflicts[0].AssetID)
	assert.Equal(t, "BTMN", report.Conflicts[0].OldSymbol)
	require.Len(t, report.Migrated, 1)
	assert.Equal(t, other.ID, report.Migrated[0].AssetID)

	kept, err := repo.FindByID(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, "BTMN", kept.Symbol)
}

func TestNomenclatureMigrator_Run_DryRun(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAssetRepository()
	registry := symbology.NewRegistry()
	registry.LoadExistingTickers([]string{"THOR.98.V2.#62"})
	batman := seedComic(t, repo, "Batman (1940) #404", "BTMN")
	seedComic(t, repo, "Thor (1998) Vol 2 #62", "THOR")

	report, err := NewNomenclatureMigrator(repo, registry, memory.NewSymbolLedger(), WithDryRun(true)).Run(ctx)

	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Migrated, 1)
	assert.Len(t, report.Conflicts, 1)

	unchanged, err := repo.FindByID(ctx, batman.ID)
	require.NoError(t, err)
	assert.Equal(t, "BTMN", unchanged.Symbol)
	assert.False(t, registry.IsUsed("BATM.40.V1.#404"))
}

func TestNomenclatureMigrator_Run_SkipsSymbolsAlreadyInUse(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAssetRepository()
	registry := symbology.NewRegistry()
	registry.LoadExistingTickers([]string{"THOR.98.V2.#62"})
	ledger := memory.NewSymbolLedger()
	_, err := ledger.Claim(ctx, "HULK.62.V1.#1")
	require.NoError(t, err)

	batman := seedComic(t, repo, "Batman (1940) #404", "BTMN")
	thor := seedComic(t, repo, "Thor (1998) Vol 2 #62", "THOR")
	hulk := seedComic(t, repo, "Hulk (1962) #1", "HULK")

	report, err := NewNomenclatureMigrator(repo, registry, ledger).Run(ctx)

	require.NoError(t, err)
	assert.False(t, report.DryRun)
	require.Len(t, report.Migrated, 1)
	assert.Equal(t, batman.ID, report.Migrated[0].AssetID)
	require.Len(t, report.Conflicts, 2)
	assert.ElementsMatch(t, []string{thor.ID, hulk.ID}, []string{report.Conflicts[0].AssetID, report.Conflicts[1].AssetID})
	for _, c := range report.Conflicts {
		assert.Contains(t, c.Error, domain.ErrDuplicateSymbol.Error())
	}

	kept, err := repo.FindByID(ctx, thor.ID)
	require.NoError(t, err)
	assert.Equal(t, "THOR", kept.Symbol)
	kept, err = repo.FindByID(ctx, hulk.ID)
	require.NoError(t, err)
	assert.Equal(t, "HULK", kept.Symbol)

	migrated, err := repo.FindByID(ctx, batman.ID)
	require.NoError(t, err)
	assert.Equal(t, "BATM.40.V1.#404", migrated.Symbol)
}

func TestNomenclatureMigrator_Run_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("listing error stops the run", func(t *testing.T) {
		listErr := errors.New("connection reset")
		repo := &mockAssetRepository{
			listUndottedFunc: func(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
				return nil, listErr
			},
		}

		_, err := NewNomenclatureMigrator(repo, symbology.NewRegistry(), &mockLedger{}).Run(ctx)
		assert.ErrorIs(t, err, listErr)
	})

	t.Run("update error is recorded and run continues", func(t *testing.T) {
		a := domain.NewAsset(domain.NamedEntity{Name: "Hulk (1962) #1", Category: domain.CategoryComic}, "HULK")
		b := domain.NewAsset(domain.NamedEntity{Name: "Thor (1966) #126", Category: domain.CategoryComic}, "THOR")
		repo := &mockAssetRepository{
			listUndottedFunc: func(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
				assert.Equal(t, domain.CategoryComic, category)
				if afterID != "" {
					return nil, nil
				}
				return []*domain.Asset{&a, &b}, nil
			},
			updateSymbolFunc: func(ctx context.Context, id, symbol string) error {
				if id == a.ID {
					return errors.New("deadlock")
				}
				return nil
			},
		}
		report, err := NewNomenclatureMigrator(repo, symbology.NewRegistry(), &mockLedger{}, WithBatchSize(2)).Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, report.Scanned)
		require.Len(t, report.Failed, 1)
		assert.Equal(t, a.ID, report.Failed[0].AssetID)
		require.Len(t, report.Migrated, 1)
		assert.Equal(t, "THOR.66.V1.#126", report.Migrated[0].NewSymbol)
	})

	t.Run("ledger error is recorded without writing", func(t *testing.T) {
		a := domain.NewAsset(domain.NamedEntity{Name: "Hulk (1962) #1", Category: domain.CategoryComic}, "HULK")
		repo := &mockAssetRepository{
			listUndottedFunc: func(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
				if afterID != "" {
					return nil, nil
				}
				return []*domain.Asset{&a}, nil
			},
			updateSymbolFunc: func(ctx context.Context, id, symbol string) error {
				t.Errorf("unexpected update of %s to %s", id, symbol)
				return nil
			},
		}
		ledger := &mockLedger{
			claimFunc: func(ctx context.Context, symbol string) (bool, error) {
				return false, errors.New("ledger offline")
			},
		}

		report, err := NewNomenclatureMigrator(repo, symbology.NewRegistry(), ledger).Run(ctx)

		require.NoError(t, err)
		require.Len(t, report.Failed, 1)
		assert.Contains(t, report.Failed[0].Error, "ledger offline")
		assert.Empty(t, report.Migrated)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewNomenclatureMigrator(&mockAssetRepository{}, symbology.NewRegistry(), &mockLedger{}).Run(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
