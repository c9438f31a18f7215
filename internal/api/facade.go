// Package api is the call surface the UI consumes. The Facade answers every
// request from local storage; there is no remote backend.
package api

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/repository"
	"github.com/sandeepkv93/obsion/internal/session"
	"github.com/sandeepkv93/obsion/internal/storage"
)

var ErrUnsupportedOperation = errors.New("api: direct calls are not supported in local storage mode")

type Backend interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error)
	UpdateNote(ctx context.Context, id string, patch model.NotePatch) (model.Note, error)
	DeleteNote(ctx context.Context, id string) error
	SearchNotes(ctx context.Context, q NoteQuery) ([]model.Note, error)

	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, in model.TodoInput) (model.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch model.TodoPatch) (model.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	FilterTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)

	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error)
	UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	SetAttendeeStatus(ctx context.Context, eventID, email string, status model.AttendeeStatus) (model.Event, error)
	EventsOn(ctx context.Context, day time.Time) ([]model.Event, error)

	CurrentUser(ctx context.Context) (*model.User, error)
	Login(ctx context.Context, email, password string) (model.User, error)
	Register(ctx context.Context, email, password, name string) (model.User, error)
	Logout(ctx context.Context) error
	UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.User, error)

	Dashboard(ctx context.Context) (Dashboard, error)
	Direct(ctx context.Context, method, path string) error
}

var _ Backend = (*Facade)(nil)

type Facade struct {
	notes   *repository.NoteRepository
	todos   *repository.TodoRepository
	events  *repository.EventRepository
	session *session.Store
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Facade)

// WithClock sets the time used to decide which events are upcoming.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) { f.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFacade(notes *repository.NoteRepository, todos *repository.TodoRepository, events *repository.EventRepository, sess *session.Store, opts ...Option) *Facade {
	f := &Facade{
		notes:   notes,
		todos:   todos,
		events:  events,
		session: sess,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewLocal wires repositories and the session store over one codec.
func NewLocal(codec *storage.Codec, logger *zap.Logger, opts ...Option) *Facade {
	return NewFacade(
		repository.NewNoteRepository(codec),
		repository.NewTodoRepository(codec),
		repository.NewEventRepository(codec),
		session.NewStore(codec),
		append([]Option{WithLogger(logger)}, opts...)...,
	)
}

// Direct rejects raw HTTP-style calls; only the typed methods are served.
func (f *Facade) Direct(ctx context.Context, method, path string) error {
	f.logger.Debug("direct call rejected", zap.String("method", method), zap.String("path", path))
	return ErrUnsupportedOperation
}

func (f *Facade) fail(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrQuotaExceeded):
		f.logger.Error("storage full", zap.String("op", op), zap.Error(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	default:
		f.logger.Warn("operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// userID falls back to the signed-in user when the caller leaves it blank.
func (f *Facade) userID(ctx context.Context, given string) string {
	if given != "" {
		return given
	}
	user, err := f.session.Current(ctx)
	if err != nil || user == nil {
		return ""
	}
	return user.ID
}
