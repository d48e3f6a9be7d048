// Package kv provides the key-value backends that persist board snapshots.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/amterp/kanboard/internal/config"
)

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrQuotaExceeded is returned by Set when the backend refuses a value for size.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
)

// Store is a persistent key-value store holding opaque values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend named by settings.Backend.
func Open(ctx context.Context, settings *config.Settings, paths *config.Paths) (Store, error) {
	switch settings.Backend {
	case config.BackendFile:
		return NewFileStore(paths)
	case config.BackendSQLite:
		return OpenSQLite(ctx, paths.SQLitePath())
	case config.BackendRedis:
		return OpenRedis(ctx, settings.RedisURL)
	case config.BackendMemory:
		return NewMemoryStore(0), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}
