package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/panelprofits/symbology/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SymbolReservation is a row of the durable symbol ledger.
type SymbolReservation struct {
	Symbol    string    `gorm:"primaryKey;size:64"`
	ClaimedAt time.Time `gorm:"not null"`
}

// OpenSQLite opens a SQLite database with driver errors translated to gorm
// sentinels, which is what duplicate detection relies on.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), newConfig())
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", dsn, err)
	}
	return db, nil
}

// OpenPostgres opens a Postgres database through GORM. Schema comes from
// AutoMigrate rather than the goose migrations of the sqldb store.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), newConfig())
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return db, nil
}

func newConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// GormRepository implements domain.AssetRepository using GORM.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// AutoMigrate applies schema changes to the database
func (r *GormRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Asset{}, &SymbolReservation{})
}

func (r *GormRepository) Save(ctx context.Context, asset *domain.Asset) error {
	if err := r.db.WithContext(ctx).Save(asset).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, asset.Symbol)
		}
		slog.Error("Failed to save asset", "asset_id", asset.ID, "error", err)
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	return r.first(ctx, "symbol = ?", symbol)
}

func (r *GormRepository) first(ctx context.Context, cond string, arg any) (*domain.Asset, error) {
	var asset domain.Asset
	if err := r.db.WithContext(ctx).First(&asset, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Debug("Asset not found", "key", arg)
			return nil, domain.ErrAssetNotFound
		}
		slog.Error("Failed to find asset", "key", arg, "error", err)
		return nil, err
	}
	return &asset, nil
}

func (r *GormRepository) List(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error) {
	q := r.db.WithContext(ctx).Order("symbol")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	assets := make([]*domain.Asset, 0)
	if err := q.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *GormRepository) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).Model(&domain.Asset{}).Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

func (r *GormRepository) ListUndotted(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
	assets := make([]*domain.Asset, 0)
	err := r.db.WithContext(ctx).
		Where("category = ? AND id > ? AND symbol NOT LIKE ?", category, afterID, "%"+domain.SymbolSeparator+"%").
		Order("id").
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *GormRepository) UpdateSymbol(ctx context.Context, id, symbol string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("id = ?", id).
		Updates(map[string]any{"symbol": symbol, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, symbol)
		}
		return fmt.Errorf("failed to update symbol: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

// GormLedger is the symbol ledger kept in the same database as the assets.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Claim(ctx context.Context, symbol string) (bool, error) {
	res := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SymbolReservation{Symbol: symbol, ClaimedAt: time.Now().UTC()})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim symbol %s: %w", symbol, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (l *GormLedger) Claimed(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := l.db.WithContext(ctx).Model(&SymbolReservation{}).Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
