package domain

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusComplete   TaskStatus = "complete"
)

// Task is a schedulable unit of work or tracked habit. A nil Recurrence
// (or type "none" without a start date) is an undated backlog item;
// type "none" with a start date is a single fixed occurrence.
type Task struct {
	ID              string
	UserID          string
	Title           string
	SectionID       *string
	TimeOfDay       *string
	DurationMinutes int
	Status          TaskStatus
	Recurrence      *Recurrence
	SourceTaskID    *string
	ParentID        *string
	IsOffSchedule   bool
	IsRollover      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasAssignedDate reports whether the task claims at least one concrete
// calendar day.
func (t *Task) HasAssignedDate() bool {
	return t.Recurrence != nil && t.Recurrence.StartDate != nil
}

// IsRecurring reports whether the task's pattern predicts more than a
// single day.
func (t *Task) IsRecurring() bool {
	return t.Recurrence.IsRecurring()
}

type CreateTaskInput struct {
	ID              string // optional, client-minted for offline sync
	Title           string
	SectionID       *string
	TimeOfDay       *string
	DurationMinutes int
	Status          TaskStatus
	Recurrence      *Recurrence
	ParentID        *string
	IsRollover      bool
}

// TaskChanges is a sparse edit: nil fields are untouched. Date moves
// the edited occurrence; TimeOfDay and Recurrence reshape scheduling
// and therefore require a scope decision on recurring tasks.
type TaskChanges struct {
	Title           *string
	SectionID       *string
	TimeOfDay       *string
	DurationMinutes *int
	Date            *Date
	Recurrence      *Recurrence
}

// TouchesScheduling reports whether the edit alters when the task
// occurs, as opposed to cosmetic fields that apply uniformly across a
// series.
func (c TaskChanges) TouchesScheduling() bool {
	return c.Date != nil || c.TimeOfDay != nil || c.Recurrence != nil
}

// SplitScope selects how an edit to a recurring task propagates.
type SplitScope string

const (
	SplitThisOnly      SplitScope = "thisOnly"
	SplitThisAndFuture SplitScope = "thisAndFuture"
)

// SplitResult carries both halves of a series split. The caller must
// persist the pair atomically; applying only one side silently
// resurrects or duplicates the edited occurrence.
type SplitResult struct {
	Original *Task
	Derived  *Task
}
