package api

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
)

const dashboardLimit = 5

type Dashboard struct {
	RecentNotes    []model.Note
	UpcomingTodos  []model.Todo
	UpcomingEvents []model.Event
}

type NoteSort string

const (
	SortByDate  NoteSort = "date"
	SortByTitle NoteSort = "title"
)

// NoteQuery narrows notes by case-insensitive text over title and content and
// by tags (any match). Empty fields do not filter.
type NoteQuery struct {
	Text   string
	Tags   []string
	SortBy NoteSort
}

type TodoFilter string

const (
	TodoFilterAll       TodoFilter = "all"
	TodoFilterActive    TodoFilter = "active"
	TodoFilterCompleted TodoFilter = "completed"
)

func ParseTodoFilter(s string) (TodoFilter, error) {
	switch f := TodoFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", TodoFilterAll:
		return TodoFilterAll, nil
	case TodoFilterActive, TodoFilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown todo filter %q", s)
	}
}

// Dashboard returns the five most recently updated notes, up to five open
// todos in stored order, and up to five events starting from now on.
func (f *Facade) Dashboard(ctx context.Context) (Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return Dashboard{}, err
	}
	notes, err := f.notes.List(ctx)
	if err != nil {
		return Dashboard{}, f.fail("dashboard", err)
	}
	todos, err := f.todos.List(ctx)
	if err != nil {
		return Dashboard{}, f.fail("dashboard", err)
	}
	events, err := f.events.List(ctx)
	if err != nil {
		return Dashboard{}, f.fail("dashboard", err)
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })

	open := make([]model.Todo, 0, dashboardLimit)
	for _, t := range todos {
		if len(open) == dashboardLimit {
			break
		}
		if t.Open() {
			open = append(open, t)
		}
	}

	now := f.now()
	upcoming := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if !ev.StartDate.Before(now) {
			upcoming = append(upcoming, ev)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].StartDate.Before(upcoming[j].StartDate) })

	return Dashboard{
		RecentNotes:    limit(notes, dashboardLimit),
		UpcomingTodos:  open,
		UpcomingEvents: limit(upcoming, dashboardLimit),
	}, nil
}

func (f *Facade) SearchNotes(ctx context.Context, q NoteQuery) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := f.notes.List(ctx)
	if err != nil {
		return nil, f.fail("search notes", err)
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if text != "" && !strings.Contains(strings.ToLower(n.Title), text) && !strings.Contains(strings.ToLower(n.Content), text) {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(n, q.Tags) {
			continue
		}
		out = append(out, n)
	}
	switch q.SortBy {
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title) })
	case SortByDate, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	}
	return out, nil
}

func (f *Facade) FilterTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	todos, err := f.todos.List(ctx)
	if err != nil {
		return nil, f.fail("filter todos", err)
	}
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		switch filter {
		case TodoFilterActive:
			if t.Completed {
				continue
			}
		case TodoFilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// EventsOn lists events with an occurrence on the calendar day of day,
// ordered by time of day.
func (f *Facade) EventsOn(ctx context.Context, day time.Time) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, err := f.events.List(ctx)
	if err != nil {
		return nil, f.fail("events on day", err)
	}
	out := make([]model.Event, 0)
	for _, ev := range events {
		if ev.OccursOn(day) {
			out = append(out, ev)
		}
	}
	loc := day.Location()
	sort.SliceStable(out, func(i, j int) bool {
		return clockOf(out[i].StartDate.In(loc)) < clockOf(out[j].StartDate.In(loc))
	})
	return out, nil
}

func hasAnyTag(n model.Note, tags []string) bool {
	for _, tag := range tags {
		if n.HasTag(tag) {
			return true
		}
	}
	return false
}

func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
