package domain

import "context"

// AssetRepository is the persistent asset store symbols are written back to.
// All methods accept context.Context to enable proper timeout handling and
// cancellation propagation.
type AssetRepository interface {
	Save(ctx context.Context, asset *Asset) error
	FindByID(ctx context.Context, id string) (*Asset, error)
	FindBySymbol(ctx context.Context, symbol string) (*Asset, error)
	List(ctx context.Context, category Category, limit, offset int) ([]*Asset, error)
	// ListSymbols returns every assigned symbol, used to hydrate the registry.
	ListSymbols(ctx context.Context) ([]string, error)
	// ListUndotted returns up to limit assets of the category whose symbol
	// predates the dotted nomenclature, ordered by ID and starting after afterID.
	ListUndotted(ctx context.Context, category Category, afterID string, limit int) ([]*Asset, error)
	// UpdateSymbol returns ErrDuplicateSymbol when the symbol belongs to
	// another asset and ErrAssetNotFound when id does not exist.
	UpdateSymbol(ctx context.Context, id, symbol string) error
}
