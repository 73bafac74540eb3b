// Package store opens the asset repository and symbol ledger selected by
// configuration.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/panelprofits/symbology/internal/domain"
	"github.com/panelprofits/symbology/internal/infrastructure/config"
	persistence "github.com/panelprofits/symbology/internal/infrastructure/persistence/gorm"
	"github.com/panelprofits/symbology/internal/infrastructure/persistence/memory"
	"github.com/panelprofits/symbology/internal/infrastructure/persistence/sqldb"
	"github.com/panelprofits/symbology/internal/infrastructure/redisledger"
)

const migrateTimeout = 30 * time.Second

// Ledger is the durable claim set shared by every instance.
type Ledger interface {
	Claim(ctx context.Context, symbol string) (bool, error)
	Claimed(ctx context.Context) ([]string, error)
}

type Store struct {
	Assets  domain.AssetRepository
	Ledger  Ledger
	closers []func() error
}

// Open connects the configured database, applies its migrations and picks
// the ledger backend. The caller must Close the returned Store.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	s := &Store{}
	if err := s.openAssets(ctx, cfg); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.openLedger(ctx, cfg); err != nil {
		_ = s.Close()
		return nil, err
	}
	slog.Info("Store opened", "driver", cfg.DBDriver, "registry_backend", cfg.RegistryBackend)
	return s, nil
}

func (s *Store) openAssets(ctx context.Context, cfg *config.Config) error {
	switch cfg.DBDriver {
	case config.DriverPostgres, config.DriverOracle:
		db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, db.Close)

		migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
		defer cancel()

		repo := sqldb.NewRepository(db)
		if err := repo.AutoMigrate(migrateCtx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		s.Assets = repo
		s.Ledger = sqldb.NewLedger(db)

	case config.DriverGormPostgres, config.DriverSQLite:
		openDB := persistence.OpenSQLite
		if cfg.DBDriver == config.DriverGormPostgres {
			openDB = persistence.OpenPostgres
		}
		db, err := openDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			s.closers = append(s.closers, sqlDB.Close)
		}

		repo := persistence.NewGormRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		s.Assets = repo
		s.Ledger = persistence.NewGormLedger(db)

	case config.DriverMemory:
		s.Assets = memory.NewAssetRepository()
		s.Ledger = memory.NewSymbolLedger()

	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
	return nil
}

// openLedger replaces the database ledger chosen by openAssets when another
// backend is configured.
func (s *Store) openLedger(ctx context.Context, cfg *config.Config) error {
	switch cfg.RegistryBackend {
	case config.BackendDatabase, "":
	case config.BackendRedis:
		client, err := redisledger.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, client.Close)
		s.Ledger = redisledger.New(client, cfg.RedisKey)
	case config.BackendMemory:
		s.Ledger = memory.NewSymbolLedger()
	default:
		return fmt.Errorf("unsupported registry backend: %s", cfg.RegistryBackend)
	}
	return nil
}

// Close releases connections in reverse order of opening.
func (s *Store) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
