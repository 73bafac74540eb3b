package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/panelprofits/symbology/internal/domain"
)

// AssetRepository keeps assets in process memory. It enforces the same
// symbol uniqueness as the SQL stores.
type AssetRepository struct {
	mu       sync.RWMutex
	assets   map[string]domain.Asset
	bySymbol map[string]string
}

func NewAssetRepository() *AssetRepository {
	return &AssetRepository{
		assets:   make(map[string]domain.Asset),
		bySymbol: make(map[string]string),
	}
}

func (r *AssetRepository) Save(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, taken := r.bySymbol[asset.Symbol]; taken && owner != asset.ID {
		return domain.ErrDuplicateSymbol
	}

	if previous, exists := r.assets[asset.ID]; exists {
		delete(r.bySymbol, previous.Symbol)
	}
	r.assets[asset.ID] = *asset
	r.bySymbol[asset.Symbol] = asset.ID
	return nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, domain.ErrAssetNotFound
	}
	return &asset, nil
}

func (r *AssetRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.bySymbol[symbol]
	if !exists {
		return nil, domain.ErrAssetNotFound
	}
	asset := r.assets[id]
	return &asset, nil
}

// List returns assets ordered by symbol. An empty category matches all
// assets and a non-positive limit returns everything after offset.
func (r *AssetRepository) List(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.filter(func(a domain.Asset) bool {
		return category == "" || a.Category == category
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Symbol < matched[j].Symbol })

	if offset > len(matched) {
		offset = len(matched)
	}
	if offset < 0 {
		offset = 0
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *AssetRepository) ListSymbols(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.bySymbol))
	for s := range r.bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (r *AssetRepository) ListUndotted(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.filter(func(a domain.Asset) bool {
		return a.Category == category && a.ID > afterID && !domain.IsDotted(a.Symbol)
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *AssetRepository) UpdateSymbol(ctx context.Context, id, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, exists := r.assets[id]
	if !exists {
		return domain.ErrAssetNotFound
	}
	if owner, taken := r.bySymbol[symbol]; taken && owner != id {
		return domain.ErrDuplicateSymbol
	}

	delete(r.bySymbol, asset.Symbol)
	asset.Rename(symbol)
	r.assets[id] = asset
	r.bySymbol[symbol] = id
	return nil
}

func (r *AssetRepository) filter(keep func(domain.Asset) bool) []*domain.Asset {
	out := make([]*domain.Asset, 0)
	for _, a := range r.assets {
		if keep(a) {
			asset := a
			out = append(out, &asset)
		}
	}
	return out
}
