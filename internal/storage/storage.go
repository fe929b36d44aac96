// Package storage holds the key-value port the session is persisted through.
package storage

import "context"

// Store is a string key-value store. A missing key is reported with ok == false
// and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}
