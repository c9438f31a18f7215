package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/obsion/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func setupCodec(t *testing.T, quota int64) (*storage.Codec, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(quota)
	codec := storage.NewCodec(store, nil)
	if err := codec.Initialize(t.Context()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return codec, store
}
