package repository

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/obsion/internal/model"
	"github.com/sandeepkv93/obsion/internal/storage"
)

// EventRepository stores calendar events. Events carry no timestamps of
// their own.
type EventRepository struct {
	items collection[model.Event]
	opts  options
}

func NewEventRepository(codec *storage.Codec, opts ...Option) *EventRepository {
	return &EventRepository{
		items: collection[model.Event]{codec: codec, key: storage.KeyEvents, idOf: func(e model.Event) string { return e.ID }},
		opts:  buildOptions(opts),
	}
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	return r.items.load(ctx)
}

func (r *EventRepository) Get(ctx context.Context, id string) (model.Event, error) {
	events, err := r.items.load(ctx)
	if err != nil {
		return model.Event{}, err
	}
	idx := r.items.indexOf(events, id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	return events[idx], nil
}

// Create stores a new event. Reminders, attendees and the recurrence rule get
// ids when they arrive without one; attendee status defaults to PENDING.
func (r *EventRepository) Create(ctx context.Context, in model.EventInput) (model.Event, error) {
	if err := in.Validate(); err != nil {
		return model.Event{}, err
	}
	events, err := r.items.load(ctx)
	if err != nil {
		return model.Event{}, err
	}
	ev := model.Event{
		ID:          r.opts.newID(),
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsAllDay:    in.IsAllDay,
		Location:    in.Location,
		Color:       in.Color,
		UserID:      in.UserID,
		Reminders:   r.assignReminderIDs(in.Reminders),
		Recurrence:  r.assignRecurrenceID(in.Recurrence),
		Attendees:   r.assignAttendeeIDs(in.Attendees),
	}
	if err := r.items.save(ctx, append(events, ev)); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Update merges patch onto the event. Nested collections present in the
// patch replace the stored ones; absent ones are kept.
func (r *EventRepository) Update(ctx context.Context, id string, patch model.EventPatch) (model.Event, error) {
	if err := patch.Validate(); err != nil {
		return model.Event{}, err
	}
	events, err := r.items.load(ctx)
	if err != nil {
		return model.Event{}, err
	}
	idx := r.items.indexOf(events, id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	ev := events[idx]
	patch.Apply(&ev)
	if ev.EndDate != nil && ev.EndDate.Before(ev.StartDate) {
		return model.Event{}, model.ErrInvalidTimeRange
	}
	if patch.Reminders.IsSet() {
		ev.Reminders = r.assignReminderIDs(ev.Reminders)
	}
	if patch.Recurrence.IsSet() {
		ev.Recurrence = r.assignRecurrenceID(ev.Recurrence)
	}
	if patch.Attendees.IsSet() {
		ev.Attendees = r.assignAttendeeIDs(ev.Attendees)
	}
	events[idx] = ev
	if err := r.items.save(ctx, events); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// SetAttendeeStatus records an RSVP for the attendee with email.
func (r *EventRepository) SetAttendeeStatus(ctx context.Context, eventID, email string, status model.AttendeeStatus) (model.Event, error) {
	if !status.IsValid() {
		return model.Event{}, fmt.Errorf("%w: %q", model.ErrInvalidAttendeeStatus, status)
	}
	events, err := r.items.load(ctx)
	if err != nil {
		return model.Event{}, err
	}
	idx := r.items.indexOf(events, eventID)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	ev := events[idx]
	pos := ev.AttendeeIndex(email)
	if pos < 0 {
		return model.Event{}, fmt.Errorf("%w: attendee %s on event %s", ErrNotFound, email, eventID)
	}
	attendees := append([]model.Attendee{}, ev.Attendees...)
	attendees[pos].Status = status
	ev.Attendees = attendees
	events[idx] = ev
	if err := r.items.save(ctx, events); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.items.remove(ctx, id)
}

func (r *EventRepository) assignReminderIDs(in []model.Reminder) []model.Reminder {
	out := make([]model.Reminder, len(in))
	for i, rem := range in {
		rem.ID = r.opts.idOr(rem.ID)
		out[i] = rem
	}
	return out
}

func (r *EventRepository) assignAttendeeIDs(in []model.Attendee) []model.Attendee {
	out := make([]model.Attendee, len(in))
	for i, a := range in {
		a.ID = r.opts.idOr(a.ID)
		if a.Status == "" {
			a.Status = model.AttendeePending
		}
		out[i] = a
	}
	return out
}

func (r *EventRepository) assignRecurrenceID(in *model.Recurrence) *model.Recurrence {
	if in == nil {
		return nil
	}
	cp := *in
	cp.DaysOfWeek = append([]int(nil), in.DaysOfWeek...)
	cp.ID = r.opts.idOr(cp.ID)
	return &cp
}
