// Package session manages the bounded, TTL-expiring message history shared
// between a client and the completion backend.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by a KV when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// KV is the narrow capability the store needs from its backing store. The
// durable implementation is Redis; local/dev runs select StubKV at
// construction instead of feature-detecting at call sites.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StubKV is the degraded backing store for deployments without Redis.
// Writes are dropped and reads always miss: sessions created against it
// live only for the turn that created them. Documented behavior, not an
// error state.
type StubKV struct{}

func NewStubKV() *StubKV {
	return &StubKV{}
}

func (*StubKV) Get(context.Context, string) (string, error) {
	return "", ErrKeyNotFound
}

func (*StubKV) Set(context.Context, string, string, time.Duration) error {
	return nil
}

func (*StubKV) Delete(context.Context, string) error {
	return nil
}
