package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/panelprofits/symbology/internal/domain"
)

type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	UpsertAsset(ctx context.Context, tx *sql.Tx, a *domain.Asset) error
	// ClaimSymbol inserts symbol into symbol_reservations unless present
	// and reports whether this call inserted it.
	ClaimSymbol(ctx context.Context, db *sql.DB, symbol string, claimedAt time.Time) (bool, error)
	IsUniqueViolation(err error) bool
}
