package repository

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/storage"
)

type TodoRepository struct {
	items collection[model.Todo]
	opts  options
}

func NewTodoRepository(codec *storage.Codec, opts ...Option) *TodoRepository {
	return &TodoRepository{
		items: collection[model.Todo]{codec: codec, key: storage.KeyTodos, idOf: func(t model.Todo) string { return t.ID }},
		opts:  buildOptions(opts),
	}
}

func (r *TodoRepository) List(ctx context.Context) ([]model.Todo, error) {
	return r.items.load(ctx)
}

func (r *TodoRepository) Get(ctx context.Context, id string) (model.Todo, error) {
	todos, err := r.items.load(ctx)
	if err != nil {
		return model.Todo{}, err
	}
	idx := r.items.indexOf(todos, id)
	if idx < 0 {
		return model.Todo{}, fmt.Errorf("%w: todo %s", ErrNotFound, id)
	}
	return todos[idx], nil
}

// Create stores a new todo. Priority defaults to MEDIUM and checklist items
// without an id get one.
func (r *TodoRepository) Create(ctx context.Context, in model.TodoInput) (model.Todo, error) {
	if err := in.Validate(); err != nil {
		return model.Todo{}, err
	}
	todos, err := r.items.load(ctx)
	if err != nil {
		return model.Todo{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	now := r.opts.now()
	todo := model.Todo{
		ID:          r.opts.newID(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      in.UserID,
		Archived:    in.Archived,
		Checklist:   r.assignChecklistIDs(in.Checklist),
	}
	if err := r.items.save(ctx, append(todos, todo)); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

func (r *TodoRepository) Update(ctx context.Context, id string, patch model.TodoPatch) (model.Todo, error) {
	if err := patch.Validate(); err != nil {
		return model.Todo{}, err
	}
	todos, err := r.items.load(ctx)
	if err != nil {
		return model.Todo{}, err
	}
	idx := r.items.indexOf(todos, id)
	if idx < 0 {
		return model.Todo{}, fmt.Errorf("%w: todo %s", ErrNotFound, id)
	}
	todo := todos[idx]
	patch.Apply(&todo)
	if patch.Checklist.IsSet() {
		todo.Checklist = r.assignChecklistIDs(todo.Checklist)
	}
	todo.UpdatedAt = r.opts.stamp(todo.UpdatedAt)
	todos[idx] = todo
	if err := r.items.save(ctx, todos); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	return r.items.remove(ctx, id)
}

func (r *TodoRepository) assignChecklistIDs(items []model.ChecklistItem) []model.ChecklistItem {
	if items == nil {
		return nil
	}
	out := make([]model.ChecklistItem, len(items))
	for i, item := range items {
		item.ID = r.opts.idOr(item.ID)
		out[i] = item
	}
	return out
}
