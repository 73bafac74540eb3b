package memory

import (
	"context"
	"sort"
	"sync"
)

// SymbolLedger is a process-local ledger for single-instance deployments.
type SymbolLedger struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

func NewSymbolLedger() *SymbolLedger {
	return &SymbolLedger{claimed: make(map[string]struct{})}
}

func (l *SymbolLedger) Claim(ctx context.Context, symbol string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.claimed[symbol]; ok {
		return false, nil
	}
	l.claimed[symbol] = struct{}{}
	return true, nil
}

func (l *SymbolLedger) Claimed(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbols := make([]string, 0, len(l.claimed))
	for s := range l.claimed {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}
