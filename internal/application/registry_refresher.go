package application

import (
	"context"
	"log/slog"
	"time"
)

type RegistryHydrator interface {
	Hydrate(ctx context.Context) (int, error)
}

// RegistryRefresher periodically re-hydrates the registry so instances
// sharing a store pick up symbols assigned by their peers.
type RegistryRefresher struct {
	hydrator RegistryHydrator
	interval time.Duration
	stopChan chan struct{}
}

func NewRegistryRefresher(hydrator RegistryHydrator, interval time.Duration) *RegistryRefresher {
	return &RegistryRefresher{
		hydrator: hydrator,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (r *RegistryRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("Registry refresher started", "interval", r.interval)

	for {
		select {
		case <-ticker.C:
			added, err := r.hydrator.Hydrate(ctx)
			if err != nil {
				slog.Error("Error refreshing registry", "error", err)
			} else if added > 0 {
				slog.Info("Registry refreshed", "added", added)
			}
		case <-r.stopChan:
			slog.Info("Registry refresher stopped")
			return
		case <-ctx.Done():
			slog.Info("Registry refresher stopped due to context cancellation")
			return
		}
	}
}

func (r *RegistryRefresher) Stop() {
	close(r.stopChan)
}
