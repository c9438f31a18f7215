package scheduler

import (
	"sort"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
)

// PlanEvents turns stored event reminders into engine entries that trigger
// after now. A reminder on a recurring event keeps its lead time and is
// attached to the next occurrence whose reminder is still ahead.
func PlanEvents(events []model.Event, now time.Time) []ReminderEvent {
	out := make([]ReminderEvent, 0)
	for _, ev := range events {
		for _, rem := range ev.Reminders {
			if rem.Time.IsZero() {
				continue
			}
			trigger := rem.Time
			if ev.Recurrence != nil {
				lead := ev.StartDate.Sub(rem.Time)
				occ, ok := ev.Recurrence.NextAfter(ev.StartDate, now.Add(lead))
				if !ok {
					continue
				}
				trigger = occ.Add(-lead)
			}
			if !trigger.After(now) {
				continue
			}
			out = append(out, ReminderEvent{
				ID:        rem.ID,
				EventID:   ev.ID,
				Title:     ev.Title,
				Type:      rem.Type,
				TriggerAt: trigger.UTC(),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TriggerAt.Before(out[j].TriggerAt) })
	return out
}
