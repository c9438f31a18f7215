package update

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/scheduler"
	"github.com/sandeepkv93/obsion/internal/storage"
	"github.com/sandeepkv93/obsion/internal/views"
)

const maxReminderLog = 20

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd()}
	if m.scheduler != nil {
		cmds = append(cmds, waitForReminderCmd(m.scheduler.C()))
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChangeCmd(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m = m.applyError(typed.Err)
		return m, nil
	case DataLoadedMsg:
		m = m.applySnapshot(typed)
		return m, nil
	case ActionDoneMsg:
		if typed.Err != nil {
			m = m.applyError(typed.Err)
			return m, m.loadCmd()
		}
		m.Status = StatusBar{Text: typed.Message}
		return m, m.loadCmd()
	case StoreChangedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("%s changed elsewhere", typed.Change.Key)}
		if m.changes == nil {
			return m, m.loadCmd()
		}
		return m, tea.Batch(m.loadCmd(), waitForChangeCmd(m.changes))
	case ReminderDueMsg:
		m.ReminderLog = append(m.ReminderLog, typed.Event)
		if len(m.ReminderLog) > maxReminderLog {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-maxReminderLog:]
		}
		text := fmt.Sprintf("reminder: %s at %s", typed.Event.Title, typed.Event.TriggerAt.Local().Format(clockLayout))
		m.Status = StatusBar{Text: text}
		m.notify("Reminder", text, "info")
		if m.scheduler != nil {
			return m, waitForReminderCmd(m.scheduler.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Warning != nil {
		if keyStr == "enter" {
			m.Warning = nil
			m.Status = StatusBar{Text: "warning dismissed"}
		}
		return m, nil
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch keyStr {
	case "/":
		return m.openPalette(), nil
	case m.Keys.Dashboard:
		m.CurrentView = ViewDashboard
		return m, nil
	case m.Keys.Notes:
		m.CurrentView = ViewNotes
		return m, nil
	case m.Keys.Todos:
		m.CurrentView = ViewTodos
		return m, nil
	case m.Keys.Calendar:
		m.CurrentView = ViewCalendar
		return m, nil
	case m.Keys.Settings:
		m.CurrentView = ViewSettings
		return m, nil
	case m.Keys.Reload:
		m.Status = StatusBar{Text: "reloading"}
		return m, m.loadCmd()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "esc":
		m.HelpVisible = false
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewNotes:
		return m.handleNotesKey(keyStr)
	case ViewTodos:
		return m.handleTodosKey(keyStr)
	case ViewCalendar:
		return m.handleCalendarKey(keyStr)
	case ViewSettings:
		return m.handleSettingsKey(keyStr)
	}
	return m, nil
}

func (m Model) handleNotesKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "j", "down":
		m = m.moveCursor(ViewNotes, 1, len(m.Notes))
	case "k", "up":
		m = m.moveCursor(ViewNotes, -1, len(m.Notes))
	case "s":
		if m.NoteQuery.SortBy == api.SortByTitle {
			m.NoteQuery.SortBy = api.SortByDate
		} else {
			m.NoteQuery.SortBy = api.SortByTitle
		}
		m.Status = StatusBar{Text: fmt.Sprintf("notes sorted by %s", m.NoteQuery.SortBy)}
		return m, m.loadCmd()
	case "x":
		id := m.selectedNoteID()
		if id == "" {
			return m, nil
		}
		backend := m.backend
		return m, m.runAction(func(ctx context.Context) (string, error) {
			return "note deleted", backend.DeleteNote(ctx, id)
		})
	}
	return m, nil
}

func (m Model) handleTodosKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "j", "down":
		return m.moveCursor(ViewTodos, 1, len(m.Todos)), nil
	case "k", "up":
		return m.moveCursor(ViewTodos, -1, len(m.Todos)), nil
	case "f":
		m.TodoFilter = nextTodoFilter(m.TodoFilter)
		m.Cursors[ViewTodos] = 0
		m.Status = StatusBar{Text: fmt.Sprintf("todo filter: %s", m.TodoFilter)}
		return m, m.loadCmd()
	case "p":
		m.TodoByPriority = !m.TodoByPriority
		m.Cursors[ViewTodos] = 0
		if m.TodoByPriority {
			m.Status = StatusBar{Text: "todos ordered by priority"}
		} else {
			m.Status = StatusBar{Text: "todos ordered by creation"}
		}
		return m, m.loadCmd()
	}

	idx := m.cursor(ViewTodos)
	if idx < 0 || idx >= len(m.Todos) {
		return m, nil
	}
	todo := m.Todos[idx]
	backend := m.backend
	switch k {
	case " ", "space":
		return m, m.runAction(func(ctx context.Context) (string, error) {
			updated, err := backend.UpdateTodo(ctx, todo.ID, model.TodoPatch{Completed: model.Some(!todo.Completed)})
			if err != nil {
				return "", err
			}
			if updated.Completed {
				return fmt.Sprintf("completed: %s", updated.Title), nil
			}
			return fmt.Sprintf("reopened: %s", updated.Title), nil
		})
	case "a":
		return m, m.runAction(func(ctx context.Context) (string, error) {
			_, err := backend.UpdateTodo(ctx, todo.ID, model.TodoPatch{Archived: model.Some(!todo.Archived)})
			return fmt.Sprintf("archive toggled: %s", todo.Title), err
		})
	case "x":
		return m, m.runAction(func(ctx context.Context) (string, error) {
			return fmt.Sprintf("deleted: %s", todo.Title), backend.DeleteTodo(ctx, todo.ID)
		})
	}
	return m, nil
}

func (m Model) handleCalendarKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "h", "left":
		m.CalendarDay = m.CalendarDay.AddDate(0, 0, -1)
	case "l", "right":
		m.CalendarDay = m.CalendarDay.AddDate(0, 0, 1)
	case "t":
		m.CalendarDay = startOfDay(m.now())
	case "j", "down":
		m = m.moveCursor(ViewCalendar, 1, len(m.DayEvents))
		return m, nil
	case "k", "up":
		m = m.moveCursor(ViewCalendar, -1, len(m.DayEvents))
		return m, nil
	case "x":
		return m, m.deleteSelectedEvent()
	default:
		return m, nil
	}
	m.Cursors[ViewCalendar] = 0
	return m, m.loadCmd()
}

// deleteSelectedEvent removes the event under the cursor and drops its queued
// reminders without waiting for the next reload to replan them.
func (m Model) deleteSelectedEvent() tea.Cmd {
	idx := m.cursor(ViewCalendar)
	if idx < 0 || idx >= len(m.DayEvents) {
		return nil
	}
	ev := m.DayEvents[idx]
	backend := m.backend
	sched := m.scheduler
	return m.runAction(func(ctx context.Context) (string, error) {
		if err := backend.DeleteEvent(ctx, ev.ID); err != nil {
			return "", err
		}
		if sched == nil {
			return fmt.Sprintf("deleted: %s", ev.Title), nil
		}
		return fmt.Sprintf("deleted: %s (%d reminders cancelled)", ev.Title, sched.Cancel(ev.ID)), nil
	})
}

func (m Model) handleSettingsKey(k string) (tea.Model, tea.Cmd) {
	backend := m.backend
	switch k {
	case "L":
		return m, m.runAction(func(ctx context.Context) (string, error) {
			return "signed out", backend.Logout(ctx)
		})
	}
	if m.User == nil {
		return m, nil
	}
	settings := m.User.Settings
	switch k {
	case "t":
		theme := model.ThemeDark
		if settings.Theme == model.ThemeDark {
			theme = model.ThemeLight
		}
		return m, m.runAction(func(ctx context.Context) (string, error) {
			_, err := backend.UpdateSettings(ctx, model.SettingsPatch{Theme: model.Some(theme)})
			return fmt.Sprintf("theme set to %s", theme), err
		})
	case "n":
		on := !settings.Notifications
		return m, m.runAction(func(ctx context.Context) (string, error) {
			_, err := backend.UpdateSettings(ctx, model.SettingsPatch{Notifications: model.Some(on)})
			return fmt.Sprintf("notifications %s", onOff(on)), err
		})
	}
	return m, nil
}

// applyError turns a quota failure into a blocking warning and anything else
// into an error status.
func (m Model) applyError(err error) Model {
	if err == nil {
		return m
	}
	m.LastError = err
	if errors.Is(err, storage.ErrQuotaExceeded) {
		m.Warning = &Warning{
			Title: "Storage full",
			Body:  "The change was not saved because local storage is full. Delete notes, todos or events to free space.",
		}
		m.notify("Storage full", err.Error(), "error")
		return m
	}
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), "error")
	return m
}

func (m Model) applySnapshot(msg DataLoadedMsg) Model {
	m.Loaded = true
	m.Dashboard = msg.Dashboard
	m.Notes = msg.Notes
	m.Todos = msg.Todos
	if m.TodoByPriority {
		m.Todos = sortTodosByPriority(msg.Todos)
	}
	m.DayEvents = msg.DayEvents
	m.User = msg.User
	m.clampCursor(ViewNotes, len(m.Notes))
	m.clampCursor(ViewTodos, len(m.Todos))
	m.clampCursor(ViewCalendar, len(m.DayEvents))
	if m.scheduler != nil {
		if err := m.scheduler.Reset(scheduler.PlanEvents(msg.AllEvents, m.now())); err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("reminders: %v", err), IsError: true}
		}
	}
	m.syncBubbles()
	return m
}

func (m Model) cursor(v View) int {
	return m.Cursors[v]
}

func (m Model) moveCursor(v View, delta, n int) Model {
	if n == 0 {
		return m
	}
	next := m.Cursors[v] + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	m.Cursors[v] = next
	m.syncBubbles()
	return m
}

func (m Model) clampCursor(v View, n int) {
	switch {
	case n == 0:
		m.Cursors[v] = 0
	case m.Cursors[v] >= n:
		m.Cursors[v] = n - 1
	}
}

func (m *Model) syncBubbles() {
	m.calendarTable.SetRows(calendarRows(m.DayEvents))
	if len(m.DayEvents) > 0 {
		m.calendarTable.SetCursor(m.cursor(ViewCalendar))
	}
	content := ""
	if idx := m.cursor(ViewNotes); idx < len(m.Notes) {
		content = views.RenderMarkdown(m.Notes[idx].Content, m.markdownStyleFor())
	}
	m.noteViewport.SetContent(content)
	m.noteViewport.GotoTop()
}

func (m Model) selectedNoteID() string {
	if idx := m.cursor(ViewNotes); idx < len(m.Notes) {
		return m.Notes[idx].ID
	}
	return ""
}

func (m Model) selectedTodoID() string {
	if idx := m.cursor(ViewTodos); idx < len(m.Todos) {
		return m.Todos[idx].ID
	}
	return ""
}

// sortTodosByPriority returns a copy ordered HIGH to LOW, keeping creation
// order within a priority.
func sortTodosByPriority(todos []model.Todo) []model.Todo {
	out := append([]model.Todo(nil), todos...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

func nextTodoFilter(f api.TodoFilter) api.TodoFilter {
	switch f {
	case api.TodoFilterAll:
		return api.TodoFilterActive
	case api.TodoFilterActive:
		return api.TodoFilterCompleted
	default:
		return api.TodoFilterAll
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	header := fmt.Sprintf("obsion | view: %s | user: %s", m.CurrentView, m.userLabel())
	if m.Warning != nil {
		return views.RenderApp(views.AppData{
			Header:  header,
			Warning: views.RenderWarning(m.Warning.Title, m.Warning.Body),
		})
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var left, right string
	switch m.CurrentView {
	case ViewDashboard:
		left = m.renderDashboardView()
	case ViewNotes:
		left = m.renderNotesView()
		right = m.renderNoteDetailView()
	case ViewTodos:
		left = m.renderTodosView()
	case ViewCalendar:
		left = m.renderCalendarView()
	case ViewSettings:
		left = m.renderSettingsView()
	}
	right = joinNonEmpty(right,
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()),
		m.renderHelpIfVisible(),
	)
	if !m.Loaded {
		left = "loading..."
	}

	return views.RenderApp(views.AppData{
		Header:       header,
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s home | %s notes | %s todos | %s cal | %s settings | / cmd | %s reload | %s help | %s quit",
			m.Keys.Dashboard, m.Keys.Notes, m.Keys.Todos, m.Keys.Calendar, m.Keys.Settings, m.Keys.Reload, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) userLabel() string {
	if m.User == nil {
		return "signed out"
	}
	return m.User.Email
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewNotes, ViewTodos, ViewCalendar, ViewSettings:
		return true
	default:
		return false
	}
}
