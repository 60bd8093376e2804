// Package store provides the durable key/value storage the notification
// engine persists its settings, history, and do-not-disturb documents to.
// Implementations are interchangeable: in-memory for tests and ephemeral
// sessions, Redis for shops running the shared cache, SQLite for
// standalone installs.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or
// has been removed.
var ErrNotFound = errors.New("store: key not found")

// KeyValueStore is the minimal surface the engine needs: independent keyed
// blobs with no transactional coupling between keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}
