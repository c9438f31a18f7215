// Package storage is the persistence boundary: a string-keyed host store, the
// codec that maps typed records onto it, and change notification for writes
// made by other handles on the same store.
package storage

import (
	"context"
	"errors"
)

var ErrQuotaExceeded = errors.New("storage: quota exceeded")

// DefaultQuotaBytes mirrors the usual per-origin browser storage allowance.
const DefaultQuotaBytes int64 = 5 << 20

const (
	KeyUser   = "obsion_user"
	KeyNotes  = "obsion_notes"
	KeyTodos  = "obsion_todos"
	KeyEvents = "obsion_events"
	KeyToken  = "obsion_token"
)

// CollectionKeys lists the keys that hold a JSON array and are seeded empty.
var CollectionKeys = []string{KeyNotes, KeyTodos, KeyEvents}

// Store is the host key-value store. Implementations must make each Set and
// Remove atomic: either the full value is persisted or the call fails.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Change describes one write observed on the store.
type Change struct {
	Key      string
	Value    string
	Removed  bool
	Origin   string
	Revision int64
}

// ChangeSource exposes the ordered write log a Watcher polls.
type ChangeSource interface {
	Origin() string
	Revision(ctx context.Context) (int64, error)
	ChangesSince(ctx context.Context, after int64) ([]Change, error)
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
