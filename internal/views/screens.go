package views

import (
	"fmt"
	"strings"
)

type NoteItemData struct {
	ID      string
	Title   string
	Tags    []string
	Updated string
}

type NotesPanelData struct {
	Items      []NoteItemData
	SelectedID string
	Query      string
	Tag        string
	Sort       string
}

type NoteDetailData struct {
	Title       string
	Tags        []string
	Updated     string
	PreviewView string
}

type TodoItemData struct {
	ID            string
	Title         string
	Priority      string
	Due           string
	Overdue       bool
	Completed     bool
	Archived      bool
	ChecklistDone int
	ChecklistAll  int
}

type TodosPanelData struct {
	Items        []TodoItemData
	SelectedID   string
	Filter       string
	Order        string
	ProgressView string
	ProgressPct  int
}

type EventItemData struct {
	ID        string
	Title     string
	Date      string
	Time      string
	Location  string
	Recurring bool
	Attendees []string
}

type CalendarPanelData struct {
	Day       string
	TableView string
	Items     []EventItemData
	Selected  *EventItemData
	// Pending is the number of queued reminders; negative when reminders are off.
	Pending int
}

type DashboardData struct {
	UserName string
	Notes    []NoteItemData
	Todos    []TodoItemData
	Events   []EventItemData
}

type SettingsPanelData struct {
	SignedIn      bool
	Name          string
	Email         string
	Theme         string
	Language      string
	Notifications bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDashboard(data DashboardData) string {
	var b strings.Builder
	if data.UserName != "" {
		b.WriteString(fmt.Sprintf("welcome back, %s\n", data.UserName))
	} else {
		b.WriteString("not signed in: /login <email> <password>\n")
	}

	b.WriteString("\nrecent notes:\n")
	if len(data.Notes) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, n := range data.Notes {
		b.WriteString(fmt.Sprintf("  %s  %s\n", n.Updated, n.Title))
	}

	b.WriteString("\nopen todos:\n")
	if len(data.Todos) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, t := range data.Todos {
		b.WriteString("  " + todoLine(t) + "\n")
	}

	b.WriteString("\nupcoming events:\n")
	if len(data.Events) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, e := range data.Events {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", e.Date, e.Time, e.Title))
	}
	return strings.TrimSpace(b.String())
}

func RenderNotesPanel(data NotesPanelData) string {
	var b strings.Builder
	b.WriteString("notes:\n")
	filters := []string{"sort: " + orDash(data.Sort)}
	if data.Query != "" {
		filters = append(filters, "q: "+data.Query)
	}
	if data.Tag != "" {
		filters = append(filters, "tag: "+data.Tag)
	}
	b.WriteString(strings.Join(filters, " | ") + "\n")
	b.WriteString("actions: [j/k]move [x]delete [/]command\n")
	if len(data.Items) == 0 {
		b.WriteString("(no notes)")
		return b.String()
	}
	for _, n := range data.Items {
		b.WriteString(fmt.Sprintf("%s %s", cursor(n.ID == data.SelectedID), n.Title))
		if len(n.Tags) > 0 {
			b.WriteString(" #" + strings.Join(n.Tags, " #"))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderNoteDetail(data NoteDetailData) string {
	if data.Title == "" {
		return "note:\n(no selection)"
	}
	tags := strings.Join(data.Tags, ",")
	return fmt.Sprintf("note: %s\nupdated: %s\ntags: %s\n\n%s", data.Title, data.Updated, orDash(tags), data.PreviewView)
}

func RenderTodosPanel(data TodosPanelData) string {
	var b strings.Builder
	b.WriteString("todos:\n")
	b.WriteString(fmt.Sprintf("filter: %s | order: %s | done: %s %d%%\n", orDash(data.Filter), orDash(data.Order), data.ProgressView, data.ProgressPct))
	b.WriteString("actions: [j/k]move [space]toggle [a]archive [x]delete [f]filter [p]priority order\n")
	if len(data.Items) == 0 {
		b.WriteString("(no todos)")
		return b.String()
	}
	for _, t := range data.Items {
		b.WriteString(fmt.Sprintf("%s %s\n", cursor(t.ID == data.SelectedID), todoLine(t)))
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("day: %s\n", data.Day))
	if data.Pending >= 0 {
		b.WriteString(fmt.Sprintf("reminders queued: %d\n", data.Pending))
	}
	b.WriteString("actions: [h/l]day [t]today [j/k]event [x]delete\n")
	b.WriteString(data.TableView + "\n")
	if len(data.Items) == 0 {
		b.WriteString("(no events)")
		return b.String()
	}
	for _, item := range data.Items {
		marker := ""
		if item.Recurring {
			marker = " (repeats)"
		}
		b.WriteString(fmt.Sprintf("%s %s %s%s\n", cursor(data.Selected != nil && data.Selected.ID == item.ID), item.Time, item.Title, marker))
	}
	if data.Selected != nil {
		b.WriteString("\nevent-metadata:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("when: %s %s\n", data.Selected.Date, data.Selected.Time))
		if data.Selected.Location != "" {
			b.WriteString(fmt.Sprintf("where: %s\n", data.Selected.Location))
		}
		if len(data.Selected.Attendees) > 0 {
			b.WriteString("attendees:\n")
			for _, a := range data.Selected.Attendees {
				b.WriteString("- " + a + "\n")
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderSettingsPanel(data SettingsPanelData) string {
	if !data.SignedIn {
		return "settings:\nnot signed in\nuse /login <email> <password> or /register <email> <password> <name>"
	}
	notifications := "off"
	if data.Notifications {
		notifications = "on"
	}
	return fmt.Sprintf("settings:\nname: %s\nemail: %s\ntheme: %s\nlanguage: %s\nnotifications: %s\n\nactions: [t]toggle theme [n]toggle notifications [L]logout",
		data.Name, data.Email, data.Theme, data.Language, notifications)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderWarning(title, body string) string {
	return fmt.Sprintf("%s\n\n%s\n\npress [enter] to dismiss", strings.ToUpper(title), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func todoLine(t TodoItemData) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := fmt.Sprintf("%s %s %s", check, priorityBadge(t), t.Title)
	if t.Due != "" {
		line += " due:" + t.Due
	}
	if t.ChecklistAll > 0 {
		line += fmt.Sprintf(" (%d/%d)", t.ChecklistDone, t.ChecklistAll)
	}
	if t.Archived {
		line += " [archived]"
	}
	return line
}

func priorityBadge(t TodoItemData) string {
	if t.Overdue || t.Priority == "HIGH" {
		return "[RED]"
	}
	if t.Priority == "MEDIUM" {
		return "[YELLOW]"
	}
	return "[GREEN]"
}

func cursor(selected bool) string {
	if selected {
		return ">"
	}
	return " "
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
