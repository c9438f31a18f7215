package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/repository"
	"github.com/sandeepkv93/obsion/internal/session"
	"github.com/sandeepkv93/obsion/internal/storage"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func setupFacade(t *testing.T) (*Facade, *testClock) {
	t.Helper()
	codec := storage.NewCodec(storage.NewMemoryStore(0), nil)
	if err := codec.Initialize(t.Context()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	clock := &testClock{now: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	f := NewFacade(
		repository.NewNoteRepository(codec, repository.WithClock(clock.Now)),
		repository.NewTodoRepository(codec, repository.WithClock(clock.Now)),
		repository.NewEventRepository(codec),
		session.NewStore(codec),
		WithClock(clock.Now),
	)
	return f, clock
}

func TestDashboardAggregation(t *testing.T) {
	f, clock := setupFacade(t)
	ctx := t.Context()

	for i := 0; i < 7; i++ {
		if _, err := f.CreateNote(ctx, model.NoteInput{Title: fmt.Sprintf("note-%d", i)}); err != nil {
			t.Fatalf("create note: %v", err)
		}
		clock.now = clock.now.Add(time.Minute)
	}
	notes, _ := f.ListNotes(ctx)
	clock.now = clock.now.Add(time.Minute)
	if _, err := f.UpdateNote(ctx, notes[0].ID, model.NotePatch{Content: model.Some("touched")}); err != nil {
		t.Fatalf("update note: %v", err)
	}

	for i := 0; i < 7; i++ {
		in := model.TodoInput{Title: fmt.Sprintf("todo-%d", i)}
		switch i {
		case 0:
			in.Completed = true
		case 1:
			in.Archived = true
		}
		if _, err := f.CreateTodo(ctx, in); err != nil {
			t.Fatalf("create todo: %v", err)
		}
	}

	now := clock.now
	starts := []time.Duration{-2 * time.Hour, 3 * time.Hour, time.Hour, 0, 48 * time.Hour, 5 * time.Hour, 30 * time.Minute}
	for i, d := range starts {
		if _, err := f.CreateEvent(ctx, model.EventInput{Title: fmt.Sprintf("event-%d", i), StartDate: now.Add(d)}); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	dash, err := f.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.RecentNotes) != 5 || dash.RecentNotes[0].Title != "note-0" || dash.RecentNotes[1].Title != "note-6" {
		t.Fatalf("unexpected recent notes: %+v", titlesOfNotes(dash.RecentNotes))
	}
	if len(dash.UpcomingTodos) != 5 || dash.UpcomingTodos[0].Title != "todo-2" || dash.UpcomingTodos[4].Title != "todo-6" {
		t.Fatalf("unexpected open todos: %+v", dash.UpcomingTodos)
	}
	var got []string
	for _, ev := range dash.UpcomingEvents {
		got = append(got, ev.Title)
	}
	want := []string{"event-3", "event-6", "event-2", "event-1", "event-5"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("unexpected upcoming events: got %v want %v", got, want)
	}
}

func titlesOfNotes(notes []model.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestCancelledContextRejectsBeforeStorage(t *testing.T) {
	f, _ := setupFacade(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := f.CreateNote(ctx, model.NoteInput{Title: "never"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	notes, err := f.ListNotes(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("cancelled create must not persist, got %+v", notes)
	}
}

func TestDirectCallsAreRejected(t *testing.T) {
	f, _ := setupFacade(t)
	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		if err := f.Direct(t.Context(), method, "/notes"); !errors.Is(err, ErrUnsupportedOperation) {
			t.Fatalf("%s: expected ErrUnsupportedOperation, got %v", method, err)
		}
	}
}

func TestCreateFillsUserFromSession(t *testing.T) {
	f, _ := setupFacade(t)
	ctx := t.Context()

	user, err := f.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	note, err := f.CreateNote(ctx, model.NoteInput{Title: "mine"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if note.UserID != user.ID {
		t.Fatalf("expected userId %q, got %q", user.ID, note.UserID)
	}
	other, err := f.CreateTodo(ctx, model.TodoInput{Title: "theirs", UserID: "someone"})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if other.UserID != "someone" {
		t.Fatalf("explicit userId must win, got %q", other.UserID)
	}
}

func TestErrorsPassThrough(t *testing.T) {
	f, _ := setupFacade(t)
	ctx := t.Context()

	if _, err := f.UpdateTodo(ctx, "missing", model.TodoPatch{}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.UpdateSettings(ctx, model.SettingsPatch{Language: model.Some("fr")}); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
