package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/config"
	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/scheduler"
	"github.com/sandeepkv93/obsion/internal/storage"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewNotes     View = "Notes"
	ViewTodos     View = "Todos"
	ViewCalendar  View = "Calendar"
	ViewSettings  View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Notes     string
	Todos     string
	Calendar  string
	Settings  string
	Reload    string
	Help      string
	Quit      string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Warning blocks every key except enter until dismissed.
type Warning struct {
	Title string
	Body  string
}

type Model struct {
	CurrentView View
	Keys        GlobalKeyMap
	Status      StatusBar
	HelpVisible bool
	Quitting    bool
	LastError   error
	Warning     *Warning

	Dashboard api.Dashboard
	Notes     []model.Note
	Todos     []model.Todo
	DayEvents []model.Event
	User      *model.User
	Loaded    bool

	NoteQuery      api.NoteQuery
	TodoFilter     api.TodoFilter
	TodoByPriority bool
	CalendarDay    time.Time
	Cursors        map[View]int

	Palette        CommandPaletteState
	ReminderLog    []scheduler.ReminderEvent
	Notifications  []Notification
	DesktopEnabled bool

	ctx           context.Context
	backend       api.Backend
	scheduler     *scheduler.Engine
	changes       <-chan storage.Change
	notifier      DesktopNotifier
	markdownStyle string
	now           func() time.Time

	commandInput  textinput.Model
	helpModel     help.Model
	noteViewport  viewport.Model
	calendarTable table.Model
	todoProgress  progress.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// DataLoadedMsg carries a full snapshot of what the views display.
type DataLoadedMsg struct {
	Dashboard api.Dashboard
	Notes     []model.Note
	Todos     []model.Todo
	DayEvents []model.Event
	AllEvents []model.Event
	User      *model.User
}

// ActionDoneMsg reports the outcome of a mutation started from a key or the
// command palette.
type ActionDoneMsg struct {
	Message string
	Err     error
}

type StoreChangedMsg struct {
	Change storage.Change
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

type Options struct {
	Scheduler *scheduler.Engine
	Changes   <-chan storage.Change
	Notifier  DesktopNotifier
	Config    config.RuntimeConfig
	Now       func() time.Time
}

func NewModel(ctx context.Context, backend api.Backend) Model {
	return NewModelWithOptions(ctx, backend, Options{Config: config.DefaultRuntimeConfig()})
}

func NewModelWithOptions(ctx context.Context, backend api.Backend, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := Model{
		CurrentView: ViewDashboard,
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Notes:     "2",
			Todos:     "3",
			Calendar:  "4",
			Settings:  "5",
			Reload:    "r",
			Help:      "?",
			Quit:      "q",
		},
		NoteQuery:      api.NoteQuery{SortBy: api.SortByDate},
		TodoFilter:     api.TodoFilterAll,
		CalendarDay:    startOfDay(now()),
		Cursors:        make(map[View]int),
		DesktopEnabled: opts.Config.DesktopNotifications,
		ctx:            ctx,
		backend:        backend,
		scheduler:      opts.Scheduler,
		changes:        opts.Changes,
		notifier:       NoopDesktopNotifier{},
		markdownStyle:  opts.Config.MarkdownStyle,
		now:            now,
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.noteViewport = viewport.New(54, 14)

	cols := []table.Column{
		{Title: "Time", Width: 7},
		{Title: "Title", Width: 28},
		{Title: "Where", Width: 14},
	}
	m.calendarTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(8))

	m.todoProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage())
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
