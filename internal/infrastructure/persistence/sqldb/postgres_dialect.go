package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique index conflict.
const uniqueViolation = "23505"

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) UpsertAsset(ctx context.Context, tx *sql.Tx, a *domain.Asset) error {
	query := `
		INSERT INTO assets (id, symbol, name, category, variation_hint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			variation_hint = EXCLUDED.variation_hint,
			updated_at = EXCLUDED.updated_at
	`
	_, err := tx.ExecContext(ctx, query, a.ID, a.Symbol, a.Name, string(a.Category), a.VariationHint, a.CreatedAt, a.UpdatedAt)
	return err
}

func (d *PostgresDialect) ClaimSymbol(ctx context.Context, db *sql.DB, symbol string, claimedAt time.Time) (bool, error) {
	query := `
		INSERT INTO symbol_reservations (symbol, claimed_at)
		VALUES ($1, $2)
		ON CONFLICT (symbol) DO NOTHING
	`
	res, err := db.ExecContext(ctx, query, symbol, claimedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (d *PostgresDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
