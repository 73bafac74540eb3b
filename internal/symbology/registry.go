package symbology

import "sync"

// Registry is the set of rendered symbols currently in use. It is safe for
// concurrent use; generation probes and reserves under a single lock so two
// callers can never be handed the same symbol.
//
// Symbols are never released. Callers persist what they generate; the
// registry only lives as long as the process.
type Registry struct {
	mu   sync.RWMutex
	used map[string]struct{}
}

// Stats summarizes registry occupancy.
type Stats struct {
	TotalUsed int `json:"total_used"`
}

func NewRegistry() *Registry {
	return &Registry{used: make(map[string]struct{})}
}

// LoadExistingTickers bulk-loads symbols already assigned in the persistent
// store. It returns how many were not yet known. Empty strings are skipped.
func (r *Registry) LoadExistingTickers(symbols []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := r.used[s]; !ok {
			r.used[s] = struct{}{}
			added++
		}
	}
	return added
}

func (r *Registry) IsUsed(symbol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.used[symbol]
	return ok
}

// Reserve adds symbol if absent and reports whether it was added.
func (r *Registry) Reserve(symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserveLocked(symbol)
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.used)
}

func (r *Registry) Stats() Stats {
	return Stats{TotalUsed: r.Size()}
}

func (r *Registry) reserveLocked(symbol string) bool {
	if _, ok := r.used[symbol]; ok {
		return false
	}
	r.used[symbol] = struct{}{}
	return true
}
