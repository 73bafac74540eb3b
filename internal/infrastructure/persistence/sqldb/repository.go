package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/panelprofits/symbology/internal/domain"
)

const assetColumns = "id, symbol, name, category, variation_hint, created_at, updated_at"

// Repository implements domain.AssetRepository on database/sql.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate runs the dialect's schema migrations.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.Dialect.Migrate(ctx, r.db.DB)
}

func (r *Repository) Save(ctx context.Context, a *domain.Asset) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.db.Dialect.UpsertAsset(ctx, tx, a)
	})
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, a.Symbol)
		}
		slog.Error("Failed to save asset", "asset_id", a.ID, "error", err)
		return fmt.Errorf("upsert asset: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := r.rebind("SELECT " + assetColumns + " FROM assets WHERE id = $1")
	return r.findOne(ctx, query, id)
}

func (r *Repository) FindBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	query := r.rebind("SELECT " + assetColumns + " FROM assets WHERE symbol = $1")
	return r.findOne(ctx, query, symbol)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*domain.Asset, error) {
	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		slog.Debug("Asset not found", "key", arg)
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying asset: %w", err)
	}
	return asset, nil
}

// List returns assets ordered by symbol. An empty category matches all
// assets; a non-positive limit disables paging.
func (r *Repository) List(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT " + assetColumns + " FROM assets")
	if category != "" {
		args = append(args, string(category))
		fmt.Fprintf(&sb, " WHERE category = $%d", len(args))
	}
	sb.WriteString(" ORDER BY symbol")
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset, limit)
		fmt.Fprintf(&sb, " OFFSET $%d ROWS FETCH NEXT $%d ROWS ONLY", len(args)-1, len(args))
	}

	return r.queryAssets(ctx, r.rebind(sb.String()), args...)
}

func (r *Repository) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT symbol FROM assets")
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer closeRows(rows)

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// ListUndotted pages by id. The first page has no id predicate: Oracle
// binds an empty afterID as NULL, and id > NULL matches no row.
func (r *Repository) ListUndotted(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
	if afterID == "" {
		query := `
			SELECT ` + assetColumns + `
			FROM assets
			WHERE category = $1 AND symbol NOT LIKE '%.%'
			ORDER BY id
			FETCH FIRST $2 ROWS ONLY
		`
		return r.queryAssets(ctx, r.rebind(query), string(category), limit)
	}

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE category = $1 AND id > $2 AND symbol NOT LIKE '%.%'
		ORDER BY id
		FETCH FIRST $3 ROWS ONLY
	`
	return r.queryAssets(ctx, r.rebind(query), string(category), afterID, limit)
}

func (r *Repository) UpdateSymbol(ctx context.Context, id, symbol string) error {
	query := r.rebind("UPDATE assets SET symbol = $1, updated_at = $2 WHERE id = $3")

	res, err := r.db.ExecContext(ctx, query, symbol, time.Now().UTC(), id)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, symbol)
		}
		return fmt.Errorf("updating symbol: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *Repository) queryAssets(ctx context.Context, query string, args ...any) ([]*domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer closeRows(rows)

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAsset reads assetColumns. variation_hint is nullable because Oracle
// stores empty strings as NULL.
func scanAsset(row rowScanner) (*domain.Asset, error) {
	var (
		a        domain.Asset
		category string
		hint     sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Symbol, &a.Name, &category, &hint, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Category = domain.Category(category)
	a.VariationHint = hint.String
	return &a, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("Failed to close rows", "error", err)
	}
}

func (r *Repository) rebind(query string) string {
	return rebind(r.db.Dialect, query)
}

// rebind rewrites $n placeholders to :n for Oracle.
func rebind(d Dialect, query string) string {
	if d.Name() == "oracle" {
		for i := 10; i >= 1; i-- {
			query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), fmt.Sprintf(":%d", i))
		}
	}
	return query
}
