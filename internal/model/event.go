package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidAttendeeStatus = errors.New("model: invalid attendee status")
	ErrInvalidTimeRange      = errors.New("model: event ends before it starts")
)

type AttendeeStatus string

const (
	AttendeePending  AttendeeStatus = "PENDING"
	AttendeeAccepted AttendeeStatus = "ACCEPTED"
	AttendeeDeclined AttendeeStatus = "DECLINED"
)

func (s AttendeeStatus) IsValid() bool {
	switch s {
	case AttendeePending, AttendeeAccepted, AttendeeDeclined:
		return true
	default:
		return false
	}
}

type Reminder struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Type string    `json:"type"`
}

type Attendee struct {
	ID     string         `json:"id"`
	Email  string         `json:"email"`
	Name   string         `json:"name,omitempty"`
	Status AttendeeStatus `json:"status"`
}

type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     *time.Time  `json:"endDate,omitempty"`
	IsAllDay    bool        `json:"isAllDay"`
	Location    string      `json:"location,omitempty"`
	Color       string      `json:"color,omitempty"`
	UserID      string      `json:"userId"`
	Reminders   []Reminder  `json:"reminders"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
	Attendees   []Attendee  `json:"attendees"`
}

// AttendeeIndex returns the position of the attendee with email, or -1.
func (e Event) AttendeeIndex(email string) int {
	for i, a := range e.Attendees {
		if a.Email == email {
			return i
		}
	}
	return -1
}

// OccursOn reports whether the event touches the calendar day containing day,
// evaluated in day's location.
func (e Event) OccursOn(day time.Time) bool {
	if e.Recurrence != nil {
		return e.Recurrence.OccursOn(e.StartDate, day)
	}
	loc := day.Location()
	first := truncateDay(e.StartDate.In(loc))
	last := first
	if e.EndDate != nil {
		last = truncateDay(e.EndDate.In(loc))
	}
	d := truncateDay(day)
	return !d.Before(first) && !d.After(last)
}

type EventInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	IsAllDay    bool
	Location    string
	Color       string
	UserID      string
	Reminders   []Reminder
	Recurrence  *Recurrence
	Attendees   []Attendee
}

func (in EventInput) Validate() error {
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return ErrInvalidTimeRange
	}
	return validateNested(in.Recurrence, in.Attendees)
}

type EventPatch struct {
	Title       Optional[string]
	Description Optional[string]
	StartDate   Optional[time.Time]
	EndDate     Optional[*time.Time]
	IsAllDay    Optional[bool]
	Location    Optional[string]
	Color       Optional[string]
	UserID      Optional[string]
	Reminders   Optional[[]Reminder]
	Recurrence  Optional[*Recurrence]
	Attendees   Optional[[]Attendee]
}

func (p EventPatch) Validate() error {
	rec, _ := p.Recurrence.Get()
	attendees, _ := p.Attendees.Get()
	return validateNested(rec, attendees)
}

// Apply merges the patch onto e. Nested collections are replaced wholesale;
// identifier assignment for new nested items is left to the caller.
func (p EventPatch) Apply(e *Event) {
	e.Title = p.Title.Or(e.Title)
	e.Description = p.Description.Or(e.Description)
	e.StartDate = p.StartDate.Or(e.StartDate)
	e.EndDate = p.EndDate.Or(e.EndDate)
	e.IsAllDay = p.IsAllDay.Or(e.IsAllDay)
	e.Location = p.Location.Or(e.Location)
	e.Color = p.Color.Or(e.Color)
	e.UserID = p.UserID.Or(e.UserID)
	if reminders, ok := p.Reminders.Get(); ok {
		e.Reminders = append([]Reminder{}, reminders...)
	}
	if rec, ok := p.Recurrence.Get(); ok {
		if rec == nil {
			e.Recurrence = nil
		} else {
			cp := *rec
			cp.DaysOfWeek = append([]int(nil), rec.DaysOfWeek...)
			e.Recurrence = &cp
		}
	}
	if attendees, ok := p.Attendees.Get(); ok {
		e.Attendees = append([]Attendee{}, attendees...)
	}
}

func validateNested(rec *Recurrence, attendees []Attendee) error {
	if rec != nil {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	for _, a := range attendees {
		if a.Status != "" && !a.Status.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidAttendeeStatus, a.Status)
		}
	}
	return nil
}
