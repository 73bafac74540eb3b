package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panelprofits/symbology/internal/domain"
)

// CreateAssetResult represents the result of creating a single asset.
type CreateAssetResult struct {
	Index int           `json:"index"`
	Name  string        `json:"name"`
	Asset *domain.Asset `json:"asset,omitempty"`
	Error string        `json:"error,omitempty"`
}

// CreateAssetsBatchResult represents the result of a batch asset creation.
type CreateAssetsBatchResult struct {
	Successful []CreateAssetResult `json:"successful"`
	Failed     []CreateAssetResult `json:"failed"`
}

// CreateAssetsBatch creates assets concurrently. Each entity succeeds or
// fails on its own; results keep the order of the request.
func (s *SymbolService) CreateAssetsBatch(ctx context.Context, entities []domain.NamedEntity) *CreateAssetsBatchResult {
	result := &CreateAssetsBatchResult{
		Successful: make([]CreateAssetResult, 0),
		Failed:     make([]CreateAssetResult, 0),
	}

	if len(entities) == 0 {
		return result
	}

	slog.InfoContext(ctx, "Creating assets in batch", "count", len(entities))

	results := make([]CreateAssetResult, len(entities))
	var wg sync.WaitGroup

	for i, entity := range entities {
		wg.Add(1)
		go func(i int, entity domain.NamedEntity) {
			defer wg.Done()

			r := CreateAssetResult{Index: i, Name: entity.Name}
			asset, err := s.CreateAsset(ctx, entity)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Asset = asset
			}
			results[i] = r
		}(i, entity)
	}

	wg.Wait()

	for _, r := range results {
		if r.Error != "" {
			result.Failed = append(result.Failed, r)
		} else {
			result.Successful = append(result.Successful, r)
		}
	}

	if len(result.Failed) > 0 {
		slog.WarnContext(ctx, "Batch asset creation had failures", "failed", len(result.Failed), "successful", len(result.Successful))
	}

	return result
}
