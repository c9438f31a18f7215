package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
)

func TestPlanEventsSkipsPastReminders(t *testing.T) {
	now := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	start := now.Add(2 * time.Hour)
	events := []model.Event{{
		ID:        "e1",
		Title:     "Review",
		StartDate: start,
		Reminders: []model.Reminder{
			{ID: "late", Time: start.Add(-10 * time.Minute), Type: "notification"},
			{ID: "past", Time: now.Add(-time.Minute), Type: "email"},
			{ID: "early", Time: start.Add(-time.Hour), Type: "email"},
		},
	}}

	got := PlanEvents(events, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 planned reminders, got %+v", got)
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("expected trigger order early, late; got %+v", got)
	}
	if got[0].EventID != "e1" || got[0].Title != "Review" || got[0].Type != "email" {
		t.Fatalf("unexpected reminder fields: %+v", got[0])
	}
}

func TestPlanEventsRollsRecurringReminderForward(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 4, 8, 55, 0, 0, time.UTC)
	events := []model.Event{{
		ID:         "standup",
		Title:      "Standup",
		StartDate:  start,
		Recurrence: &model.Recurrence{Frequency: model.FrequencyDaily, Interval: 1},
		Reminders:  []model.Reminder{{ID: "r", Time: start.Add(-15 * time.Minute)}},
	}}

	got := PlanEvents(events, now)
	if len(got) != 1 {
		t.Fatalf("expected 1 planned reminder, got %+v", got)
	}
	want := time.Date(2026, 5, 5, 8, 45, 0, 0, time.UTC)
	if !got[0].TriggerAt.Equal(want) {
		t.Fatalf("expected trigger %v, got %v", want, got[0].TriggerAt)
	}
}

func TestPlanEventsEndedSeries(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	events := []model.Event{{
		ID:         "short",
		StartDate:  start,
		Recurrence: &model.Recurrence{Frequency: model.FrequencyDaily, Interval: 1, EndDate: &end},
		Reminders:  []model.Reminder{{ID: "r", Time: start.Add(-time.Minute)}},
	}}
	if got := PlanEvents(events, start.AddDate(0, 0, 3)); len(got) != 0 {
		t.Fatalf("ended series should plan nothing, got %+v", got)
	}
}
