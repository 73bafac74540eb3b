package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

// Migrate runs every script under oracle/ in file name order. Statements are
// separated by '/' lines; objects that already exist are skipped.
func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	entries, err := fs.ReadDir(migrations.OracleFS, "oracle")
	if err != nil {
		return fmt.Errorf("reading migration dir: %w", err)
	}

	for _, entry := range entries {
		content, err := migrations.OracleFS.ReadFile("oracle/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration file %s: %w", entry.Name(), err)
		}

		for _, stmt := range strings.Split(string(content), "/") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}

			if _, err := db.ExecContext(ctx, stmt); err != nil {
				// ORA-00955: name is already used by an existing object
				if !strings.Contains(err.Error(), "ORA-00955") {
					return fmt.Errorf("migrating %s: %s: %w", entry.Name(), stmt, err)
				}
			}
		}
	}
	return nil
}

func (d *OracleDialect) UpsertAsset(ctx context.Context, tx *sql.Tx, a *domain.Asset) error {
	query := `MERGE INTO assets t
             USING (SELECT :1 as id_val FROM dual) s
             ON (t.id = s.id_val)
             WHEN MATCHED THEN
               UPDATE SET
                 symbol = :2,
                 name = :3,
                 category = :4,
                 variation_hint = :5,
                 updated_at = :6
             WHEN NOT MATCHED THEN
               INSERT (id, symbol, name, category, variation_hint, created_at, updated_at)
               VALUES (:7, :8, :9, :10, :11, :12, :13)`

	_, err := tx.ExecContext(ctx, query,
		a.ID,               // 1
		a.Symbol,           // 2 (UPDATE)
		a.Name,             // 3
		string(a.Category), // 4
		a.VariationHint,    // 5
		a.UpdatedAt,        // 6
		a.ID,               // 7 (INSERT)
		a.Symbol,           // 8
		a.Name,             // 9
		string(a.Category), // 10
		a.VariationHint,    // 11
		a.CreatedAt,        // 12
		a.UpdatedAt,        // 13
	)
	return err
}

func (d *OracleDialect) ClaimSymbol(ctx context.Context, db *sql.DB, symbol string, claimedAt time.Time) (bool, error) {
	query := `MERGE INTO symbol_reservations r
             USING (SELECT :1 as symbol_val FROM dual) s
             ON (r.symbol = s.symbol_val)
             WHEN NOT MATCHED THEN
               INSERT (symbol, claimed_at)
               VALUES (:2, :3)`

	res, err := db.ExecContext(ctx, query, symbol, symbol, claimedAt)
	if err != nil {
		// Two sessions can both miss the row and race on the insert.
		if d.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// IsUniqueViolation matches ORA-00001: unique constraint violated.
func (d *OracleDialect) IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}
