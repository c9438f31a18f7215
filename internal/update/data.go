package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/scheduler"
	"github.com/sandeepkv93/obsion/internal/storage"
)

// loadCmd fetches everything the views need for the current filters.
func (m Model) loadCmd() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	query, filter, day := m.NoteQuery, m.TodoFilter, m.CalendarDay
	return func() tea.Msg {
		msg, err := loadSnapshot(ctx, backend, query, filter, day)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return msg
	}
}

func loadSnapshot(ctx context.Context, backend api.Backend, query api.NoteQuery, filter api.TodoFilter, day time.Time) (DataLoadedMsg, error) {
	var out DataLoadedMsg
	var err error
	if out.Dashboard, err = backend.Dashboard(ctx); err != nil {
		return out, err
	}
	if out.Notes, err = backend.SearchNotes(ctx, query); err != nil {
		return out, err
	}
	if out.Todos, err = backend.FilterTodos(ctx, filter); err != nil {
		return out, err
	}
	if out.DayEvents, err = backend.EventsOn(ctx, day); err != nil {
		return out, err
	}
	if out.AllEvents, err = backend.ListEvents(ctx); err != nil {
		return out, err
	}
	if out.User, err = backend.CurrentUser(ctx); err != nil {
		return out, err
	}
	return out, nil
}

// runAction performs a mutation off the update loop.
func (m Model) runAction(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		msg, err := fn(ctx)
		return ActionDoneMsg{Message: msg, Err: err}
	}
}

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func waitForChangeCmd(ch <-chan storage.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return StoreChangedMsg{Change: change}
	}
}
