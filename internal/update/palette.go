package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/commands"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.commandInput.Value())
		m = m.closePalette()
		return m.executePaletteCommand(raw)
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.commandInput.CursorEnd()
	} else {
		m.commandInput, _ = m.commandInput.Update(msg)
	}
	m.Palette.Input = m.commandInput.Value()
	return m, nil
}

// executePaletteCommand applies show commands to the view state directly and
// runs every other command against the backend off the update loop.
func (m Model) executePaletteCommand(raw string) (Model, tea.Cmd) {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if cmd.Type == commands.TypeShow {
		return m.applyShow(*cmd.Show)
	}
	return m, m.runAction(func(ctx context.Context) (string, error) {
		res, err := commands.Execute(cmd, NewHandlers(ctx, m.backend))
		return res.Message, err
	})
}

func (m Model) applyShow(s commands.ShowArgs) (Model, tea.Cmd) {
	switch s.Subject {
	case "dashboard":
		m.CurrentView = ViewDashboard
	case "notes":
		m.CurrentView = ViewNotes
		m.NoteQuery = noteQueryFromShow(m.NoteQuery, s)
		m.Cursors[ViewNotes] = 0
	case "todos":
		m.CurrentView = ViewTodos
		if s.Filter != "" {
			filter, err := api.ParseTodoFilter(s.Filter)
			if err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
				return m, nil
			}
			m.TodoFilter = filter
			m.Cursors[ViewTodos] = 0
		}
	case "events":
		m.CurrentView = ViewCalendar
		if s.Day != nil {
			m.CalendarDay = startOfDay(*s.Day)
			m.Cursors[ViewCalendar] = 0
		}
	case "settings":
		m.CurrentView = ViewSettings
	}
	m.Status = StatusBar{Text: fmt.Sprintf("showing %s", s.Subject)}
	return m, m.loadCmd()
}
