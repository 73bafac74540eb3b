package application

import (
	"context"
	"sync"

	"github.com/panelprofits/symbology/internal/domain"
)

type mockAssetRepository struct {
	saveFunc         func(ctx context.Context, asset *domain.Asset) error
	findByIDFunc     func(ctx context.Context, id string) (*domain.Asset, error)
	findBySymbolFunc func(ctx context.Context, symbol string) (*domain.Asset, error)
	listFunc         func(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error)
	listSymbolsFunc  func(ctx context.Context) ([]string, error)
	listUndottedFunc func(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error)
	updateSymbolFunc func(ctx context.Context, id, symbol string) error
}

func (m *mockAssetRepository) Save(ctx context.Context, asset *domain.Asset) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, asset)
	}
	return nil
}

func (m *mockAssetRepository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, domain.ErrAssetNotFound
}

func (m *mockAssetRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	if m.findBySymbolFunc != nil {
		return m.findBySymbolFunc(ctx, symbol)
	}
	return nil, domain.ErrAssetNotFound
}

func (m *mockAssetRepository) List(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, category, limit, offset)
	}
	return nil, nil
}

func (m *mockAssetRepository) ListSymbols(ctx context.Context) ([]string, error) {
	if m.listSymbolsFunc != nil {
		return m.listSymbolsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAssetRepository) ListUndotted(ctx context.Context, category domain.Category, afterID string, limit int) ([]*domain.Asset, error) {
	if m.listUndottedFunc != nil {
		return m.listUndottedFunc(ctx, category, afterID, limit)
	}
	return nil, nil
}

func (m *mockAssetRepository) UpdateSymbol(ctx context.Context, id, symbol string) error {
	if m.updateSymbolFunc != nil {
		return m.updateSymbolFunc(ctx, id, symbol)
	}
	return nil
}

type mockLedger struct {
	mu          sync.Mutex
	claimFunc   func(ctx context.Context, symbol string) (bool, error)
	claimedFunc func(ctx context.Context) ([]string, error)
	claims      []string
}

func (m *mockLedger) Claim(ctx context.Context, symbol string) (bool, error) {
	m.mu.Lock()
	m.claims = append(m.claims, symbol)
	m.mu.Unlock()
	if m.claimFunc != nil {
		return m.claimFunc(ctx, symbol)
	}
	return true, nil
}

func (m *mockLedger) Claimed(ctx context.Context) ([]string, error) {
	if m.claimedFunc != nil {
		return m.claimedFunc(ctx)
	}
	return nil, nil
}

func (m *mockLedger) Claims() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.claims...)
}
