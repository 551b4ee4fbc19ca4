package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/fusionwear/storefront/pkg/redis"
)

// Redis stores values under sf:state:<scope>:<key> without expiry.
type Redis struct {
	client *redis.Client
	scope  string
}

func NewRedis(client *redis.Client, scope string) *Redis {
	return &Redis{client: client, scope: scope}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.client.StateKey(r.scope, key))
	if errors.Is(err, redis.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load state %q: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.client.StateKey(r.scope, key), value, 0); err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}
