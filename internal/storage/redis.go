package storage

import (
	"context"
	"errors"
	"time"

	"evently/internal/shared/constants"
	"evently/pkg/cache"
)

// Redis keeps the session in Redis so several shells can share one sign-in
type Redis struct {
	cache     cache.Service
	namespace string
	ttl       time.Duration
}

func NewRedis(svc cache.Service, namespace string, ttl time.Duration) *Redis {
	if namespace == "" {
		namespace = "default"
	}
	return &Redis{cache: svc, namespace: namespace, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.cache.Get(ctx, constants.BuildSessionKey(r.namespace, key), &value)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.cache.Set(ctx, constants.BuildSessionKey(r.namespace, key), value, r.ttl)
}

func (r *Redis) Remove(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, constants.BuildSessionKey(r.namespace, k))
	}
	return r.cache.Delete(ctx, full...)
}
