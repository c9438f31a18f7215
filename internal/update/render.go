package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/views"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

func noteItem(n model.Note) views.NoteItemData {
	return views.NoteItemData{
		ID:      n.ID,
		Title:   n.Title,
		Tags:    n.Tags,
		Updated: n.UpdatedAt.Local().Format(dateLayout),
	}
}

func todoItem(t model.Todo, now time.Time) views.TodoItemData {
	item := views.TodoItemData{
		ID:           t.ID,
		Title:        t.Title,
		Priority:     string(t.Priority),
		Completed:    t.Completed,
		Archived:     t.Archived,
		ChecklistAll: len(t.Checklist),
	}
	for _, c := range t.Checklist {
		if c.Completed {
			item.ChecklistDone++
		}
	}
	if t.DueDate != nil {
		item.Due = t.DueDate.Local().Format(dateLayout)
		item.Overdue = t.Open() && t.DueDate.Before(now)
	}
	return item
}

func eventItem(e model.Event) views.EventItemData {
	start := e.StartDate.Local()
	item := views.EventItemData{
		ID:        e.ID,
		Title:     e.Title,
		Date:      start.Format(dateLayout),
		Time:      start.Format(clockLayout),
		Location:  e.Location,
		Recurring: e.Recurrence != nil,
	}
	if e.IsAllDay {
		item.Time = "all day"
	}
	for _, a := range e.Attendees {
		item.Attendees = append(item.Attendees, fmt.Sprintf("%s (%s)", a.Email, strings.ToLower(string(a.Status))))
	}
	return item
}

func dashboardData(d api.Dashboard, user *model.User, now time.Time) views.DashboardData {
	out := views.DashboardData{}
	if user != nil {
		out.UserName = user.Name
	}
	for _, n := range d.RecentNotes {
		out.Notes = append(out.Notes, noteItem(n))
	}
	for _, t := range d.UpcomingTodos {
		out.Todos = append(out.Todos, todoItem(t, now))
	}
	for _, e := range d.UpcomingEvents {
		out.Events = append(out.Events, eventItem(e))
	}
	return out
}

func notesPanelData(notes []model.Note, selectedID string, q api.NoteQuery) views.NotesPanelData {
	out := views.NotesPanelData{
		SelectedID: selectedID,
		Query:      q.Text,
		Tag:        strings.Join(q.Tags, ","),
		Sort:       string(q.SortBy),
	}
	for _, n := range notes {
		out.Items = append(out.Items, noteItem(n))
	}
	return out
}

func todosPanelData(todos []model.Todo, selectedID string, filter api.TodoFilter, byPriority bool, now time.Time, progressView string) views.TodosPanelData {
	order := "created"
	if byPriority {
		order = "priority"
	}
	out := views.TodosPanelData{
		SelectedID:   selectedID,
		Filter:       string(filter),
		Order:        order,
		ProgressView: progressView,
		ProgressPct:  int(completedRatio(todos)*100 + 0.5),
	}
	for _, t := range todos {
		out.Items = append(out.Items, todoItem(t, now))
	}
	return out
}

// completedRatio is the share of non-archived todos that are completed.
func completedRatio(todos []model.Todo) float64 {
	var total, done int
	for _, t := range todos {
		if t.Archived {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

func calendarPanelData(events []model.Event, day time.Time, selected, pending int, tableView string) views.CalendarPanelData {
	out := views.CalendarPanelData{
		Day:       day.Format("Mon " + dateLayout),
		TableView: tableView,
		Pending:   pending,
	}
	for _, e := range events {
		out.Items = append(out.Items, eventItem(e))
	}
	if selected >= 0 && selected < len(out.Items) {
		sel := out.Items[selected]
		out.Selected = &sel
	}
	return out
}

func calendarRows(events []model.Event) []table.Row {
	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		item := eventItem(e)
		rows = append(rows, table.Row{item.Time, item.Title, item.Location})
	}
	return rows
}

func settingsData(user *model.User) views.SettingsPanelData {
	if user == nil {
		return views.SettingsPanelData{}
	}
	return views.SettingsPanelData{
		SignedIn:      true,
		Name:          user.Name,
		Email:         user.Email,
		Theme:         string(user.Settings.Theme),
		Language:      user.Settings.Language,
		Notifications: user.Settings.Notifications,
	}
}

func (m Model) renderDashboardView() string {
	return views.RenderDashboard(dashboardData(m.Dashboard, m.User, m.now()))
}

func (m Model) renderNotesView() string {
	return views.RenderNotesPanel(notesPanelData(m.Notes, m.selectedNoteID(), m.NoteQuery))
}

func (m Model) renderNoteDetailView() string {
	idx := m.cursor(ViewNotes)
	if idx < 0 || idx >= len(m.Notes) {
		return views.RenderNoteDetail(views.NoteDetailData{})
	}
	n := m.Notes[idx]
	return views.RenderNoteDetail(views.NoteDetailData{
		Title:       n.Title,
		Tags:        n.Tags,
		Updated:     n.UpdatedAt.Local().Format(dateLayout + " " + clockLayout),
		PreviewView: m.noteViewport.View(),
	})
}

func (m Model) renderTodosView() string {
	return views.RenderTodosPanel(todosPanelData(m.Todos, m.selectedTodoID(), m.TodoFilter, m.TodoByPriority, m.now(), m.todoProgress.ViewAs(completedRatio(m.Todos))))
}

func (m Model) renderCalendarView() string {
	pending := -1
	if m.scheduler != nil {
		pending = m.scheduler.Pending()
	}
	return views.RenderCalendarPanel(calendarPanelData(m.DayEvents, m.CalendarDay, m.cursor(ViewCalendar), pending, m.calendarTable.View()))
}

func (m Model) renderSettingsView() string {
	return views.RenderSettingsPanel(settingsData(m.User))
}

func (m Model) renderNotificationsView() string {
	var lines []string
	if len(m.ReminderLog) > 0 {
		last := m.ReminderLog[len(m.ReminderLog)-1]
		lines = append(lines, fmt.Sprintf("last-reminder: %s @ %s", last.Title, last.TriggerAt.Local().Format(clockLayout)))
	}
	if len(m.Notifications) > 0 {
		n := m.Notifications[len(m.Notifications)-1]
		lines = append(lines, strings.TrimSpace(views.RenderNotification(n.Level, n.Title+": "+n.Body)))
	}
	return strings.Join(lines, "\n")
}

// markdownStyleFor picks the configured glamour style, falling back to the
// signed-in user's theme.
func (m Model) markdownStyleFor() string {
	if m.markdownStyle != "" {
		return m.markdownStyle
	}
	if m.User != nil && m.User.Settings.Theme == model.ThemeLight {
		return "light"
	}
	return "dark"
}
