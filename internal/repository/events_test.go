package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
)

func TestEventCreateAssignsNestedIDs(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	repo := NewEventRepository(codec, WithIDGenerator(sequentialIDs("id")))
	ctx := t.Context()

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ev, err := repo.Create(ctx, model.EventInput{
		Title:      "Standup",
		StartDate:  start,
		Reminders:  []model.Reminder{{Time: start.Add(-10 * time.Minute), Type: "notification"}},
		Recurrence: &model.Recurrence{Frequency: model.FrequencyDaily, Interval: 1},
		Attendees: []model.Attendee{
			{Email: "a@x.com"},
			{ID: "given", Email: "b@x.com", Status: model.AttendeeAccepted},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.ID == "" || ev.Reminders[0].ID == "" || ev.Recurrence.ID == "" {
		t.Fatalf("expected generated ids: %+v", ev)
	}
	if ev.Attendees[0].ID == "" || ev.Attendees[0].Status != model.AttendeePending {
		t.Fatalf("unexpected first attendee: %+v", ev.Attendees[0])
	}
	if ev.Attendees[1].ID != "given" || ev.Attendees[1].Status != model.AttendeeAccepted {
		t.Fatalf("supplied attendee must be preserved: %+v", ev.Attendees[1])
	}
	seen := map[string]bool{}
	for _, id := range []string{ev.ID, ev.Reminders[0].ID, ev.Recurrence.ID, ev.Attendees[0].ID} {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestEventUpdateKeepsUnsetNestedCollections(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	repo := NewEventRepository(codec)
	ctx := t.Context()

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ev, err := repo.Create(ctx, model.EventInput{
		Title:      "Review",
		StartDate:  start,
		Recurrence: &model.Recurrence{Frequency: model.FrequencyWeekly, Interval: 1},
		Attendees:  []model.Attendee{{Email: "a@x.com"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Update(ctx, ev.ID, model.EventPatch{Title: model.Some("Review v2")})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if got.Recurrence == nil || len(got.Attendees) != 1 {
		t.Fatalf("nested data must survive unrelated update: %+v", got)
	}

	got, err = repo.Update(ctx, ev.ID, model.EventPatch{
		Recurrence: model.Some[*model.Recurrence](nil),
		Reminders:  model.Some([]model.Reminder{{Time: start.Add(-time.Hour), Type: "email"}}),
	})
	if err != nil {
		t.Fatalf("update nested: %v", err)
	}
	if got.Recurrence != nil {
		t.Fatal("explicit nil recurrence must clear the rule")
	}
	if len(got.Reminders) != 1 || got.Reminders[0].ID == "" {
		t.Fatalf("replacement reminders need ids: %+v", got.Reminders)
	}

	bad := start.Add(-time.Hour)
	if _, err := repo.Update(ctx, ev.ID, model.EventPatch{EndDate: model.Some(&bad)}); !errors.Is(err, model.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestEventSetAttendeeStatus(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	repo := NewEventRepository(codec)
	ctx := t.Context()

	ev, err := repo.Create(ctx, model.EventInput{
		Title:     "Lunch",
		StartDate: time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
		Attendees: []model.Attendee{{Email: "a@x.com"}, {Email: "b@x.com"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.SetAttendeeStatus(ctx, ev.ID, "b@x.com", model.AttendeeDeclined)
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if got.Attendees[0].Status != model.AttendeePending || got.Attendees[1].Status != model.AttendeeDeclined {
		t.Fatalf("unexpected attendees: %+v", got.Attendees)
	}

	if _, err := repo.SetAttendeeStatus(ctx, ev.ID, "nobody@x.com", model.AttendeeAccepted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown attendee, got %v", err)
	}
	if _, err := repo.SetAttendeeStatus(ctx, "missing", "a@x.com", model.AttendeeAccepted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown event, got %v", err)
	}
	if _, err := repo.SetAttendeeStatus(ctx, ev.ID, "a@x.com", "MAYBE"); !errors.Is(err, model.ErrInvalidAttendeeStatus) {
		t.Fatalf("expected ErrInvalidAttendeeStatus, got %v", err)
	}
}

func TestEventUpdateMixedAttendeesKeepsSuppliedIDs(t *testing.T) {
	codec, _ := setupCodec(t, 0)
	repo := NewEventRepository(codec, WithIDGenerator(sequentialIDs("gen")))
	ctx := t.Context()

	ev, err := repo.Create(ctx, model.EventInput{
		Title:     "Planning",
		StartDate: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		Attendees: []model.Attendee{{Email: "a@x.com"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	existing := ev.Attendees[0]
	existing.Status = model.AttendeeAccepted

	got, err := repo.Update(ctx, ev.ID, model.EventPatch{
		Attendees: model.Some([]model.Attendee{existing, {Email: "b@x.com"}}),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got.Attendees) != 2 {
		t.Fatalf("expected two attendees, got %+v", got.Attendees)
	}
	if got.Attendees[0].ID != existing.ID || got.Attendees[0].Status != model.AttendeeAccepted {
		t.Fatalf("existing attendee must keep its id and status: %+v", got.Attendees[0])
	}
	added := got.Attendees[1]
	if added.ID == "" || added.ID == existing.ID || added.ID == ev.ID {
		t.Fatalf("new attendee needs a fresh id: %+v", added)
	}
	if added.Status != model.AttendeePending {
		t.Fatalf("new attendee should default to pending, got %q", added.Status)
	}

	stored, err := repo.Get(ctx, ev.ID)
	if err != nil || stored.Attendees[1].ID != added.ID {
		t.Fatalf("stored attendees differ from returned: %+v err=%v", stored.Attendees, err)
	}
}
