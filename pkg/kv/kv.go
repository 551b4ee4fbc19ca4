// Package kv provides the string key/value stores that back shopper state.
package kv

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/db"
	"github.com/fusionwear/storefront/pkg/redis"
)

// Store is a minimal string key/value store. Get reports ok=false for
// missing keys instead of returning an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Deps carries the optional clients a backend may need.
type Deps struct {
	DB    *db.Client
	Redis *redis.Client
}

// Open builds the store selected by cfg.Backend.
func Open(cfg config.StateConfig, deps Deps) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case config.StateBackendMemory:
		return NewMemory(), nil
	case config.StateBackendFile, "":
		return NewFile(cfg.Dir)
	case config.StateBackendSQL:
		if deps.DB == nil {
			return nil, fmt.Errorf("state backend %q requires a database client", cfg.Backend)
		}
		return NewSQL(deps.DB, cfg.Scope), nil
	case config.StateBackendRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("state backend %q requires a redis client", cfg.Backend)
		}
		return NewRedis(deps.Redis, cfg.Scope), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}

// Memory keeps values in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
