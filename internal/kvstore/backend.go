// Package kvstore persists opaque values under string keys and wraps them in a
// typed JSON adapter.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when nothing is stored under the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Backend is the host key/value store. Set fully replaces any prior value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
