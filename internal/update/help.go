package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/obsion/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	global := m.keyBindings(m.globalBindings())
	local := m.keyBindings(m.viewBindings())
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView:    m.helpModel.FullHelpView([][]key.Binding{global, local}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "dashboard"},
		{Key: m.Keys.Notes, Action: "notes"},
		{Key: m.Keys.Todos, Action: "todos"},
		{Key: m.Keys.Calendar, Action: "calendar"},
		{Key: m.Keys.Settings, Action: "settings"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Reload, Action: "reload"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewNotes:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "s", Action: "toggle sort date/title"},
			{Key: "x", Action: "delete note"},
		}
	case ViewTodos:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "toggle completed"},
			{Key: "a", Action: "toggle archived"},
			{Key: "x", Action: "delete todo"},
			{Key: "f", Action: "cycle filter"},
			{Key: "p", Action: "toggle priority order"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "t", Action: "today"},
			{Key: "j/k", Action: "move event cursor"},
			{Key: "x", Action: "delete event"},
		}
	case ViewSettings:
		return []KeyBinding{
			{Key: "t", Action: "toggle theme"},
			{Key: "n", Action: "toggle notifications"},
			{Key: "L", Action: "sign out"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) keyBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
