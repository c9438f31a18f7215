package model

import (
	"errors"
	"testing"
	"time"
)

func TestRecurrenceDailyInterval(t *testing.T) {
	rule := Recurrence{Frequency: FrequencyDaily, Interval: 2}
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	from := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)

	next, ok := rule.NextAfter(start, from)
	if !ok {
		t.Fatal("expected next occurrence")
	}
	if next.Format("2006-01-02 15:04") != "2026-02-07 08:00" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestRecurrenceWeeklyDaysOfWeek(t *testing.T) {
	rule := Recurrence{Frequency: FrequencyWeekly, Interval: 1, DaysOfWeek: []int{1, 3}}
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC) // Monday
	from := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC) // Friday

	next, ok := rule.NextAfter(start, from)
	if !ok {
		t.Fatal("expected next occurrence")
	}
	if next.Weekday() != time.Monday || next.Format("2006-01-02 15:04") != "2026-02-16 09:00" {
		t.Fatalf("unexpected next weekly occurrence: %s", next.Format(time.RFC3339))
	}
	if !rule.OccursOn(start, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected wednesday occurrence")
	}
	if rule.OccursOn(start, time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("did not expect thursday occurrence")
	}
}

func TestRecurrenceEveryOtherWeek(t *testing.T) {
	rule := Recurrence{Frequency: FrequencyWeekly, Interval: 2}
	start := time.Date(2026, 2, 2, 10, 30, 0, 0, time.UTC)
	from := time.Date(2026, 2, 10, 11, 0, 0, 0, time.UTC)

	next, ok := rule.NextAfter(start, from)
	if !ok {
		t.Fatal("expected next occurrence")
	}
	if next.Format("2006-01-02 15:04") != "2026-02-16 10:30" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestRecurrenceMonthlyClampsToLastDay(t *testing.T) {
	rule := Recurrence{Frequency: FrequencyMonthly, Interval: 1}
	start := time.Date(2026, 1, 31, 17, 0, 0, 0, time.UTC)
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	next, ok := rule.NextAfter(start, from)
	if !ok {
		t.Fatal("expected next occurrence")
	}
	if next.Format("2006-01-02 15:04") != "2026-02-28 17:00" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestRecurrenceYearly(t *testing.T) {
	rule := Recurrence{Frequency: FrequencyYearly, Interval: 1}
	start := time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC)
	if !rule.OccursOn(start, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected anniversary occurrence")
	}
	if rule.OccursOn(start, time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("did not expect occurrence a day later")
	}
}

func TestRecurrenceStopsAtEndDate(t *testing.T) {
	end := time.Date(2026, 2, 3, 23, 59, 0, 0, time.UTC)
	rule := Recurrence{Frequency: FrequencyDaily, Interval: 1, EndDate: &end}
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	list := rule.Preview(start, start.Add(-time.Hour), 10)
	want := []string{"2026-02-01", "2026-02-02", "2026-02-03"}
	if len(list) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(list))
	}
	for i := range list {
		if got := list[i].Format("2006-01-02"); got != want[i] {
			t.Fatalf("preview[%d] got %s want %s", i, got, want[i])
		}
	}
}

func TestRecurrenceValidate(t *testing.T) {
	cases := []struct {
		name string
		rule Recurrence
		want error
	}{
		{"bad frequency", Recurrence{Frequency: "HOURLY", Interval: 1}, ErrInvalidFrequency},
		{"zero interval", Recurrence{Frequency: FrequencyDaily}, ErrInvalidInterval},
		{"weekday out of range", Recurrence{Frequency: FrequencyWeekly, Interval: 1, DaysOfWeek: []int{7}}, ErrInvalidWeekday},
		{"duplicate weekday", Recurrence{Frequency: FrequencyWeekly, Interval: 1, DaysOfWeek: []int{2, 2}}, ErrInvalidWeekday},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.rule.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	ok := Recurrence{Frequency: FrequencyWeekly, Interval: 1, DaysOfWeek: []int{0, 6}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}
}
