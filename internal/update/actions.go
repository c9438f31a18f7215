package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/commands"
	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/repository"
	"github.com/sandeepkv93/obsion/internal/views"
)

const reminderTypeNotification = "notification"

// NewHandlers binds the command grammar to backend. Show renders a plain text
// listing; the TUI replaces it with view navigation.
func NewHandlers(ctx context.Context, backend api.Backend) commands.Handlers {
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			return addRecord(ctx, backend, a)
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			todo, err := backend.UpdateTodo(ctx, t.ID, model.TodoPatch{Completed: model.Some(true)})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("completed: %s", todo.Title)}, nil
		},
		Archive: func(t commands.TargetArgs) (commands.Result, error) {
			todo, err := backend.UpdateTodo(ctx, t.ID, model.TodoPatch{Archived: model.Some(true)})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("archived: %s", todo.Title)}, nil
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			var err error
			switch d.Kind {
			case commands.KindNote:
				err = backend.DeleteNote(ctx, d.ID)
			case commands.KindTodo:
				err = backend.DeleteTodo(ctx, d.ID)
			case commands.KindEvent:
				err = backend.DeleteEvent(ctx, d.ID)
			}
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %s %s", d.Kind, d.ID)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			out, err := renderListing(ctx, backend, s, time.Now())
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: out}, nil
		},
		RSVP: func(r commands.RSVPArgs) (commands.Result, error) {
			ev, err := backend.SetAttendeeStatus(ctx, r.EventID, r.Email, r.Status)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s is %s for %s", r.Email, strings.ToLower(string(r.Status)), ev.Title)}, nil
		},
		Invite: func(i commands.InviteArgs) (commands.Result, error) {
			return invite(ctx, backend, i)
		},
		Login: func(l commands.LoginArgs) (commands.Result, error) {
			user, err := backend.Login(ctx, l.Email, l.Password)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("signed in as %s", user.Name)}, nil
		},
		Register: func(r commands.RegisterArgs) (commands.Result, error) {
			user, err := backend.Register(ctx, r.Email, r.Password, r.Name)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("registered %s", user.Name)}, nil
		},
		Logout: func() (commands.Result, error) {
			if err := backend.Logout(ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "signed out"}, nil
		},
		Set: func(s commands.SetArgs) (commands.Result, error) {
			patch, err := settingsPatch(s)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := backend.UpdateSettings(ctx, patch); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s set to %s", s.Field, s.Value)}, nil
		},
	}
}

func addRecord(ctx context.Context, backend api.Backend, a commands.AddArgs) (commands.Result, error) {
	switch a.Kind {
	case commands.KindNote:
		note, err := backend.CreateNote(ctx, model.NoteInput{Title: a.Title, Content: a.Body, Tags: a.Tags})
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("note created: %s", note.ID)}, nil
	case commands.KindTodo:
		todo, err := backend.CreateTodo(ctx, model.TodoInput{
			Title:       a.Title,
			Description: a.Body,
			DueDate:     a.Due,
			Priority:    a.Priority,
		})
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("todo created: %s", todo.ID)}, nil
	case commands.KindEvent:
		ev, err := backend.CreateEvent(ctx, eventInput(a))
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("event created: %s", ev.ID)}, nil
	default:
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot add %q", a.Kind)}
	}
}

func eventInput(a commands.AddArgs) model.EventInput {
	start := *a.At
	in := model.EventInput{
		Title:       a.Title,
		Description: a.Body,
		StartDate:   start,
		EndDate:     a.Until,
		IsAllDay:    a.Until == nil && start.Hour() == 0 && start.Minute() == 0,
	}
	if a.Repeat != "" {
		in.Recurrence = &model.Recurrence{Frequency: a.Repeat, Interval: 1}
	}
	if a.Remind > 0 {
		in.Reminders = []model.Reminder{{Time: start.Add(-a.Remind), Type: reminderTypeNotification}}
	}
	return in
}

func invite(ctx context.Context, backend api.Backend, i commands.InviteArgs) (commands.Result, error) {
	events, err := backend.ListEvents(ctx)
	if err != nil {
		return commands.Result{}, err
	}
	for _, ev := range events {
		if ev.ID != i.EventID {
			continue
		}
		if ev.AttendeeIndex(i.Email) >= 0 {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%s is already invited", i.Email)}
		}
		attendees := append(append([]model.Attendee{}, ev.Attendees...), model.Attendee{Email: i.Email, Name: model.DisplayNameFromEmail(i.Email)})
		if _, err := backend.UpdateEvent(ctx, ev.ID, model.EventPatch{Attendees: model.Some(attendees)}); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("invited %s to %s", i.Email, ev.Title)}, nil
	}
	return commands.Result{}, fmt.Errorf("%w: event %s", repository.ErrNotFound, i.EventID)
}

func settingsPatch(s commands.SetArgs) (model.SettingsPatch, error) {
	switch s.Field {
	case "theme":
		return model.SettingsPatch{Theme: model.Some(model.Theme(strings.ToLower(s.Value)))}, nil
	case "language":
		return model.SettingsPatch{Language: model.Some(s.Value)}, nil
	case "notifications":
		switch strings.ToLower(s.Value) {
		case "on", "true", "yes", "1":
			return model.SettingsPatch{Notifications: model.Some(true)}, nil
		case "off", "false", "no", "0":
			return model.SettingsPatch{Notifications: model.Some(false)}, nil
		}
		return model.SettingsPatch{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("notifications must be on or off, got %q", s.Value)}
	default:
		return model.SettingsPatch{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot set %q", s.Field)}
	}
}

// renderListing prints the subject of a show command for non-interactive use.
func renderListing(ctx context.Context, backend api.Backend, s commands.ShowArgs, now time.Time) (string, error) {
	switch s.Subject {
	case "dashboard":
		dash, err := backend.Dashboard(ctx)
		if err != nil {
			return "", err
		}
		user, err := backend.CurrentUser(ctx)
		if err != nil {
			return "", err
		}
		return views.RenderDashboard(dashboardData(dash, user, now)), nil
	case "notes":
		query := noteQueryFromShow(api.NoteQuery{SortBy: api.SortByDate}, s)
		notes, err := backend.SearchNotes(ctx, query)
		if err != nil {
			return "", err
		}
		return views.RenderNotesPanel(notesPanelData(notes, "", query)), nil
	case "todos":
		filter, err := api.ParseTodoFilter(s.Filter)
		if err != nil {
			return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
		}
		todos, err := backend.FilterTodos(ctx, filter)
		if err != nil {
			return "", err
		}
		return views.RenderTodosPanel(todosPanelData(todos, "", filter, false, now, "")), nil
	case "events":
		day := startOfDay(now)
		if s.Day != nil {
			day = *s.Day
		}
		events, err := backend.EventsOn(ctx, day)
		if err != nil {
			return "", err
		}
		return views.RenderCalendarPanel(calendarPanelData(events, day, -1, -1, "")), nil
	case "settings":
		user, err := backend.CurrentUser(ctx)
		if err != nil {
			return "", err
		}
		return views.RenderSettingsPanel(settingsData(user)), nil
	default:
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot show %q", s.Subject)}
	}
}

func noteQueryFromShow(base api.NoteQuery, s commands.ShowArgs) api.NoteQuery {
	q := base
	q.Text = s.Query
	q.Tags = nil
	if s.Tag != "" {
		q.Tags = []string{s.Tag}
	}
	if s.Sort != "" {
		q.SortBy = api.NoteSort(s.Sort)
	}
	return q
}
