package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandeepkv93/obsion/internal/model"
)

func (f *Facade) ListNotes(ctx context.Context) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := f.notes.List(ctx)
	if err != nil {
		return nil, f.fail("list notes", err)
	}
	return notes, nil
}

func (f *Facade) CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error) {
	if err := ctx.Err(); err != nil {
		return model.Note{}, err
	}
	in.UserID = f.userID(ctx, in.UserID)
	note, err := f.notes.Create(ctx, in)
	if err != nil {
		return model.Note{}, f.fail("create note", err)
	}
	f.logger.Debug("note created", zap.String("id", note.ID))
	return note, nil
}

func (f *Facade) UpdateNote(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	if err := ctx.Err(); err != nil {
		return model.Note{}, err
	}
	note, err := f.notes.Update(ctx, id, patch)
	if err != nil {
		return model.Note{}, f.fail("update note", err)
	}
	return note, nil
}

func (f *Facade) DeleteNote(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.notes.Delete(ctx, id); err != nil {
		return f.fail("delete note", err)
	}
	return nil
}

func (f *Facade) ListTodos(ctx context.Context) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	todos, err := f.todos.List(ctx)
	if err != nil {
		return nil, f.fail("list todos", err)
	}
	return todos, nil
}

func (f *Facade) CreateTodo(ctx context.Context, in model.TodoInput) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err
	}
	in.UserID = f.userID(ctx, in.UserID)
	todo, err := f.todos.Create(ctx, in)
	if err != nil {
		return model.Todo{}, f.fail("create todo", err)
	}
	f.logger.Debug("todo created", zap.String("id", todo.ID))
	return todo, nil
}

func (f *Facade) UpdateTodo(ctx context.Context, id string, patch model.TodoPatch) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err
	}
	todo, err := f.todos.Update(ctx, id, patch)
	if err != nil {
		return model.Todo{}, f.fail("update todo", err)
	}
	return todo, nil
}

func (f *Facade) DeleteTodo(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.todos.Delete(ctx, id); err != nil {
		return f.fail("delete todo", err)
	}
	return nil
}

func (f *Facade) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, err := f.events.List(ctx)
	if err != nil {
		return nil, f.fail("list events", err)
	}
	return events, nil
}

func (f *Facade) CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}
	in.UserID = f.userID(ctx, in.UserID)
	ev, err := f.events.Create(ctx, in)
	if err != nil {
		return model.Event{}, f.fail("create event", err)
	}
	f.logger.Debug("event created", zap.String("id", ev.ID))
	return ev, nil
}

func (f *Facade) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}
	ev, err := f.events.Update(ctx, id, patch)
	if err != nil {
		return model.Event{}, f.fail("update event", err)
	}
	return ev, nil
}

func (f *Facade) DeleteEvent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.events.Delete(ctx, id); err != nil {
		return f.fail("delete event", err)
	}
	return nil
}

func (f *Facade) SetAttendeeStatus(ctx context.Context, eventID, email string, status model.AttendeeStatus) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}
	ev, err := f.events.SetAttendeeStatus(ctx, eventID, email, status)
	if err != nil {
		return model.Event{}, f.fail("set attendee status", err)
	}
	return ev, nil
}

func (f *Facade) CurrentUser(ctx context.Context) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := f.session.Current(ctx)
	if err != nil {
		return nil, f.fail("current user", err)
	}
	return user, nil
}

func (f *Facade) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	user, err := f.session.Login(ctx, email, password)
	if err != nil {
		return model.User{}, f.fail("login", err)
	}
	f.logger.Info("signed in", zap.String("user_id", user.ID))
	return user, nil
}

func (f *Facade) Register(ctx context.Context, email, password, name string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	user, err := f.session.Register(ctx, email, password, name)
	if err != nil {
		return model.User{}, f.fail("register", err)
	}
	f.logger.Info("registered", zap.String("user_id", user.ID))
	return user, nil
}

func (f *Facade) Logout(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.session.Logout(ctx); err != nil {
		return f.fail("logout", err)
	}
	return nil
}

func (f *Facade) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	user, err := f.session.UpdateSettings(ctx, patch)
	if err != nil {
		return model.User{}, f.fail("update settings", err)
	}
	return user, nil
}
