package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ParseError reports a stored value that is not valid JSON for its key.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("storage: corrupted value at %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Codec maps typed records and collections onto string values in a Store.
type Codec struct {
	store  Store
	logger *zap.Logger
}

func NewCodec(store Store, logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{store: store, logger: logger}
}

func (c *Codec) Store() Store {
	return c.store
}

// Initialize seeds every collection key that is absent with an empty array.
// Present values are left untouched, corrupted or not.
func (c *Codec) Initialize(ctx context.Context) error {
	for _, key := range CollectionKeys {
		_, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("initialize %s: %w", key, err)
		}
		if ok {
			continue
		}
		if err := c.store.Set(ctx, key, "[]"); err != nil {
			return fmt.Errorf("initialize %s: %w", key, err)
		}
	}
	return nil
}

func (c *Codec) Remove(ctx context.Context, key string) error {
	if err := c.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// ReadCollection decodes the array stored at key. A missing key is written as
// an empty array. A corrupted value is logged, reset to an empty array and
// read as empty; the ParseError only surfaces if that reset fails.
func ReadCollection[T any](ctx context.Context, c *Codec, key string) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		if err := c.store.Set(ctx, key, "[]"); err != nil {
			return nil, fmt.Errorf("seed %s: %w", key, err)
		}
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		perr := &ParseError{Key: key, Err: err}
		c.logger.Warn("resetting corrupted collection", zap.String("key", key), zap.Error(err))
		if setErr := c.store.Set(ctx, key, "[]"); setErr != nil {
			return nil, errors.Join(perr, setErr)
		}
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func WriteCollection[T any](ctx context.Context, c *Codec, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(raw)); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			c.logger.Error("storage quota exceeded", zap.String("key", key), zap.Int("bytes", len(raw)))
		}
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// ReadRecord decodes the single record stored at key. Absent keys and a JSON
// null yield nil; a corrupted record is removed and also yields nil.
func ReadRecord[T any](ctx context.Context, c *Codec, key string) (*T, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var rec *T
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		perr := &ParseError{Key: key, Err: err}
		c.logger.Warn("dropping corrupted record", zap.String("key", key), zap.Error(err))
		if rmErr := c.store.Remove(ctx, key); rmErr != nil {
			return nil, errors.Join(perr, rmErr)
		}
		return nil, nil
	}
	return rec, nil
}

func WriteRecord[T any](ctx context.Context, c *Codec, key string, rec T) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(raw)); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			c.logger.Error("storage quota exceeded", zap.String("key", key), zap.Int("bytes", len(raw)))
		}
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
