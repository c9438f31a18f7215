package repository

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/storage"
)

func TestNoteCreateListUpdateDelete(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	repo := NewNoteRepository(codec, WithClock(clock.Now))
	ctx := t.Context()

	a, err := repo.Create(ctx, model.NoteInput{Title: "A", Content: "alpha", UserID: "u1", Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := repo.Create(ctx, model.NoteInput{Title: "B"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Fatalf("new note must have createdAt == updatedAt: %+v", a)
	}
	if b.Tags == nil {
		t.Fatal("tags must default to an empty list")
	}

	clock.Advance(time.Minute)
	updated, err := repo.Update(ctx, a.ID, model.NotePatch{Tags: model.Some([]string{"y", "z"})})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "A" || updated.Content != "alpha" {
		t.Fatalf("unpatched fields must be kept: %+v", updated)
	}
	if strings.Join(updated.Tags, ",") != "y,z" {
		t.Fatalf("tags must be replaced, got %v", updated.Tags)
	}
	if !updated.UpdatedAt.After(a.UpdatedAt) || !updated.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("unexpected timestamps: %+v", updated)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := repo.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNoteUpdateNeverMovesUpdatedAtBackwards(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	repo := NewNoteRepository(codec, WithClock(clock.Now))
	ctx := t.Context()

	n, err := repo.Create(ctx, model.NoteInput{Title: "skew"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(-time.Hour)
	got, err := repo.Update(ctx, n.ID, model.NotePatch{Title: model.Some("skewed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.UpdatedAt.Before(n.UpdatedAt) {
		t.Fatalf("updatedAt went backwards: %v < %v", got.UpdatedAt, n.UpdatedAt)
	}
}

func TestNoteUpdateUnknownID(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	repo := NewNoteRepository(codec)
	_, err := repo.Update(t.Context(), "missing", model.NotePatch{Title: model.Some("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNoteCreateOverQuotaLeavesCollectionUntouched(t *testing.T) {
	codec, store := setupCodec(t, 512)
	repo := NewNoteRepository(codec)
	ctx := t.Context()

	if _, err := repo.Create(ctx, model.NoteInput{Title: "fits"}); err != nil {
		t.Fatalf("create small: %v", err)
	}
	before, _, _ := store.Get(ctx, storage.KeyNotes)

	_, err := repo.Create(ctx, model.NoteInput{Title: "huge", Content: strings.Repeat("x", 1024)})
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	after, _, _ := store.Get(ctx, storage.KeyNotes)
	if before != after {
		t.Fatalf("failed write must not change stored notes:\nbefore %s\nafter  %s", before, after)
	}
}
