// Package repository implements the CRUD contract for notes, todos and events
// on top of the storage codec. Each collection lives under a single key and is
// rewritten in full on every mutation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/obsion/internal/storage"
)

var ErrNotFound = errors.New("repository: not found")

type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides identifier generation for records and nested items.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp returns now, nudged forward so it never precedes prev.
func (o options) stamp(prev time.Time) time.Time {
	now := o.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

func (o options) idOr(id string) string {
	if id != "" {
		return id
	}
	return o.newID()
}

type collection[T any] struct {
	codec *storage.Codec
	key   string
	idOf  func(T) string
}

func (c collection[T]) load(ctx context.Context) ([]T, error) {
	return storage.ReadCollection[T](ctx, c.codec, c.key)
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	return storage.WriteCollection(ctx, c.codec, c.key, items)
}

func (c collection[T]) indexOf(items []T, id string) int {
	for i, item := range items {
		if c.idOf(item) == id {
			return i
		}
	}
	return -1
}

// remove drops the record with id and persists; absent ids are a no-op.
func (c collection[T]) remove(ctx context.Context, id string) error {
	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	idx := c.indexOf(items, id)
	if idx < 0 {
		return nil
	}
	items = append(items[:idx], items[idx+1:]...)
	return c.save(ctx, items)
}
