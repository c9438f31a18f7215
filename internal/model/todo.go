package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPriority = errors.New("model: invalid todo priority")

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities from HIGH (0) to LOW (2); unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type ChecklistItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Todo struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Completed   bool            `json:"completed"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Priority    Priority        `json:"priority"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	UserID      string          `json:"userId"`
	Archived    bool            `json:"isArchived"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
}

// Open reports whether the todo still needs doing.
func (t Todo) Open() bool {
	return !t.Completed && !t.Archived
}

type TodoInput struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	Priority    Priority
	UserID      string
	Archived    bool
	Checklist   []ChecklistItem
}

func (in TodoInput) Validate() error {
	if in.Priority != "" && !in.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority)
	}
	return nil
}

type TodoPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Completed   Optional[bool]
	DueDate     Optional[*time.Time]
	Priority    Optional[Priority]
	UserID      Optional[string]
	Archived    Optional[bool]
	Checklist   Optional[[]ChecklistItem]
}

func (p TodoPatch) Validate() error {
	if prio, ok := p.Priority.Get(); ok && !prio.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, prio)
	}
	return nil
}

func (p TodoPatch) Apply(t *Todo) {
	t.Title = p.Title.Or(t.Title)
	t.Description = p.Description.Or(t.Description)
	t.Completed = p.Completed.Or(t.Completed)
	t.DueDate = p.DueDate.Or(t.DueDate)
	t.Priority = p.Priority.Or(t.Priority)
	t.UserID = p.UserID.Or(t.UserID)
	t.Archived = p.Archived.Or(t.Archived)
	if items, ok := p.Checklist.Get(); ok {
		t.Checklist = append([]ChecklistItem(nil), items...)
	}
}
