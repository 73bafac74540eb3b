package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/symbology"
)

// maxClaimAttempts lets a caller walk the whole collision sequence when
// other instances keep winning the ledger race.
const maxClaimAttempts = symbology.MaxCollisionAttempts + 1

var ErrMissingDerivativeBase = errors.New("derivative needs a base or an underlying name")

type SymbolService struct {
	repo      domain.AssetRepository
	generator *symbology.Generator
	ledger    SymbolLedger
}

func NewSymbolService(repo domain.AssetRepository, generator *symbology.Generator, ledger SymbolLedger) *SymbolService {
	return &SymbolService{
		repo:      repo,
		generator: generator,
		ledger:    ledger,
	}
}

// Hydrate loads every symbol known to the asset store and the ledger into
// the registry and returns how many were new to it.
func (s *SymbolService) Hydrate(ctx context.Context) (int, error) {
	stored, err := s.repo.ListSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored symbols: %w", err)
	}

	claimed, err := s.ledger.Claimed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list claimed symbols: %w", err)
	}

	registry := s.generator.Registry()
	added := registry.LoadExistingTickers(stored) + registry.LoadExistingTickers(claimed)
	slog.DebugContext(ctx, "Registry hydrated", "added", added, "total", registry.Size())
	return added, nil
}

// Generate assigns a symbol to entity without persisting an asset.
//
// Symbols produced from a variation hint are neither reserved nor claimed;
// the asset store's unique index is what rejects a repeated hint.
func (s *SymbolService) Generate(ctx context.Context, entity domain.NamedEntity) (string, error) {
	if !entity.IsValid() {
		return "", fmt.Errorf("%w: name and a known category are required", domain.ErrInvalidAsset)
	}

	if entity.VariationHint != "" {
		return s.generator.Generate(entity.Name, entity.VariationHint), nil
	}

	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		symbol, err := s.generator.TryGenerate(entity.Name, "")
		if err != nil {
			return "", fmt.Errorf("failed to generate symbol for %q: %w", entity.Name, err)
		}

		claimed, err := s.ledger.Claim(ctx, symbol)
		if err != nil {
			return "", fmt.Errorf("failed to claim symbol %s: %w", symbol, err)
		}
		if claimed {
			return symbol, nil
		}
		slog.InfoContext(ctx, "Symbol claimed elsewhere, trying next candidate", "symbol", symbol)
	}

	return "", fmt.Errorf("%w: every candidate for %q was claimed elsewhere", domain.ErrDuplicateSymbol, entity.Name)
}

// CreateAsset assigns a symbol and persists a new asset under it. Comic
// assets are named with the era-qualified SERIES.EE.Vn.#ISSUE form, seeded
// by the new asset's ID.
func (s *SymbolService) CreateAsset(ctx context.Context, entity domain.NamedEntity) (*domain.Asset, error) {
	if !entity.IsValid() {
		return nil, fmt.Errorf("%w: name and a known category are required", domain.ErrInvalidAsset)
	}

	asset := domain.NewAsset(entity, "")

	var (
		symbol string
		err    error
	)
	if entity.Category == domain.CategoryComic {
		symbol, err = s.claimComicSymbol(ctx, asset.Name, asset.ID)
	} else {
		symbol, err = s.Generate(ctx, entity)
	}
	if err != nil {
		return nil, err
	}
	asset.Symbol = symbol

	// Symbols are never released, so a failed save leaves this one reserved.
	if err := s.repo.Save(ctx, &asset); err != nil {
		return nil, fmt.Errorf("failed to save asset %s: %w", symbol, err)
	}

	slog.InfoContext(ctx, "Asset created", "id", asset.ID, "symbol", asset.Symbol, "category", asset.Category)
	return &asset, nil
}

func (s *SymbolService) claimComicSymbol(ctx context.Context, title, recordID string) (string, error) {
	symbol := symbology.ComicSymbol(title, recordID)

	if !s.generator.Registry().Reserve(symbol) {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, symbol)
	}

	claimed, err := s.ledger.Claim(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("failed to claim symbol %s: %w", symbol, err)
	}
	if !claimed {
		return "", fmt.Errorf("%w: %s", domain.ErrDuplicateSymbol, symbol)
	}
	return symbol, nil
}

func (s *SymbolService) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

func (s *SymbolService) ListAssets(ctx context.Context, category domain.Category, limit, offset int) ([]*domain.Asset, error) {
	assets, err := s.repo.List(ctx, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// DerivativeRequest describes a derivative to name. Base wins over Name;
// when only Name is given the two-character root is derived from it.
type DerivativeRequest struct {
	Base   string
	Name   string
	Kind   symbology.DerivativeKind
	Params symbology.DerivativeParams
}

// Derivative formats a derivative symbol. It does not reserve the result:
// derivative symbols are a pure function of their underlying and terms.
func (s *SymbolService) Derivative(ctx context.Context, req DerivativeRequest) (string, error) {
	if err := req.Params.Validate(req.Kind); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidAsset, err)
	}

	base := symbology.NormalizeSymbol(req.Base)
	if base == "" {
		if strings.TrimSpace(req.Name) == "" {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidAsset, ErrMissingDerivativeBase)
		}
		base = symbology.DerivativeBase(req.Name)
	}

	return symbology.FormatDerivative(base, req.Kind, req.Params), nil
}

// ComicSymbol parses a comic title into its era-qualified symbol.
func (s *SymbolService) ComicSymbol(_ context.Context, title, recordID string) (symbology.ComicIssue, error) {
	if strings.TrimSpace(title) == "" {
		return symbology.ComicIssue{}, fmt.Errorf("%w: title is required", domain.ErrInvalidAsset)
	}
	return symbology.ParseComicTitle(title, recordID), nil
}

func (s *SymbolService) IsUsed(symbol string) bool {
	return s.generator.Registry().IsUsed(symbology.NormalizeSymbol(symbol))
}

func (s *SymbolService) Stats() symbology.Stats {
	return s.generator.Registry().Stats()
}

// Registry exposes the registry the service generates against so other
// workers can reserve into the same set.
func (s *SymbolService) Registry() *symbology.Registry {
	return s.generator.Registry()
}
