// Package redisledger keeps the shared symbol ledger in a Redis set.
package redisledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the set holding every claimed symbol.
const DefaultKey = "symbology:symbols"

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}

// Ledger claims symbols with SADD, which is atomic across clients: exactly
// one caller sees the member added.
type Ledger struct {
	client redis.Cmdable
	key    string
}

func New(client redis.Cmdable, key string) *Ledger {
	if key == "" {
		key = DefaultKey
	}
	return &Ledger{client: client, key: key}
}

func (l *Ledger) Claim(ctx context.Context, symbol string) (bool, error) {
	added, err := l.client.SAdd(ctx, l.key, symbol).Result()
	if err != nil {
		return false, fmt.Errorf("claiming symbol %s: %w", symbol, err)
	}
	return added == 1, nil
}

func (l *Ledger) Claimed(ctx context.Context) ([]string, error) {
	symbols, err := l.client.SMembers(ctx, l.key).Result()
	if err != nil {
		return nil, fmt.Errorf("listing claimed symbols: %w", err)
	}
	return symbols, nil
}
