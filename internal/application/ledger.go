package application

import "context"

// SymbolLedger is the durable record of claimed symbols shared by every
// instance of the service. Claim is an atomic insert-if-absent: it reports
// false when the symbol was already claimed, by this or another instance.
type SymbolLedger interface {
	Claim(ctx context.Context, symbol string) (bool, error)
	Claimed(ctx context.Context) ([]string, error)
}
