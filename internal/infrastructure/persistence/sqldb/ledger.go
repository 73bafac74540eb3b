package sqldb

import (
	"context"
	"fmt"
	"time"
)

// Ledger records claimed symbols in the symbol_reservations table so that
// instances sharing a database never hand out the same symbol.
type Ledger struct {
	db *DB
}

func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Claim(ctx context.Context, symbol string) (bool, error) {
	claimed, err := l.db.Dialect.ClaimSymbol(ctx, l.db.DB, symbol, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("claiming symbol %s: %w", symbol, err)
	}
	return claimed, nil
}

func (l *Ledger) Claimed(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT symbol FROM symbol_reservations")
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer closeRows(rows)

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
