package repository

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/storage"
)

type NoteRepository struct {
	items collection[model.Note]
	opts  options
}

func NewNoteRepository(codec *storage.Codec, opts ...Option) *NoteRepository {
	return &NoteRepository{
		items: collection[model.Note]{codec: codec, key: storage.KeyNotes, idOf: func(n model.Note) string { return n.ID }},
		opts:  buildOptions(opts),
	}
}

// List returns every stored note in insertion order.
func (r *NoteRepository) List(ctx context.Context) ([]model.Note, error) {
	return r.items.load(ctx)
}

func (r *NoteRepository) Get(ctx context.Context, id string) (model.Note, error) {
	notes, err := r.items.load(ctx)
	if err != nil {
		return model.Note{}, err
	}
	idx := r.items.indexOf(notes, id)
	if idx < 0 {
		return model.Note{}, fmt.Errorf("%w: note %s", ErrNotFound, id)
	}
	return notes[idx], nil
}

func (r *NoteRepository) Create(ctx context.Context, in model.NoteInput) (model.Note, error) {
	notes, err := r.items.load(ctx)
	if err != nil {
		return model.Note{}, err
	}
	now := r.opts.now()
	note := model.Note{
		ID:        r.opts.newID(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    in.UserID,
		Tags:      append([]string{}, in.Tags...),
	}
	if err := r.items.save(ctx, append(notes, note)); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// Update merges patch onto the note with id and refreshes updatedAt.
func (r *NoteRepository) Update(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	notes, err := r.items.load(ctx)
	if err != nil {
		return model.Note{}, err
	}
	idx := r.items.indexOf(notes, id)
	if idx < 0 {
		return model.Note{}, fmt.Errorf("%w: note %s", ErrNotFound, id)
	}
	note := notes[idx]
	patch.Apply(&note)
	note.UpdatedAt = r.opts.stamp(note.UpdatedAt)
	notes[idx] = note
	if err := r.items.save(ctx, notes); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return r.items.remove(ctx, id)
}
