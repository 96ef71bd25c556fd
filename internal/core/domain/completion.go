package domain

import "time"

// Outcome is what happened to a task on a given day.
type Outcome string

const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeNotCompleted Outcome = "not_completed"
	OutcomeRolledOver   Outcome = "rolled_over"
)

// ParseOutcome validates a wire outcome. The empty string maps to
// completed for legacy rows where existence alone meant "done".
func ParseOutcome(value string) (Outcome, error) {
	switch Outcome(value) {
	case OutcomeCompleted, OutcomeNotCompleted, OutcomeRolledOver:
		return Outcome(value), nil
	case "":
		return OutcomeCompleted, nil
	default:
		return "", ErrInvalidOutcome
	}
}

// Completion is the fact "on date D, task T had outcome O". At most one
// exists per (task, date); writes go through an upsert, never a bare
// insert.
type Completion struct {
	ID        string
	TaskID    string
	UserID    string
	Date      Date
	Outcome   Outcome
	Note      *string
	CreatedAt time.Time
}

// CompletionKey addresses one ledger row.
type CompletionKey struct {
	TaskID string
	Date   Date
}

// CompletionIndex answers date-keyed ledger lookups for a batch of
// completions without re-querying the store per (task, date) pair.
type CompletionIndex struct {
	byTask map[string]map[string]Completion
}

func NewCompletionIndex(completions []Completion) *CompletionIndex {
	index := &CompletionIndex{byTask: make(map[string]map[string]Completion)}
	for _, completion := range completions {
		dates, ok := index.byTask[completion.TaskID]
		if !ok {
			dates = make(map[string]Completion)
			index.byTask[completion.TaskID] = dates
		}
		dates[completion.Date.Key()] = completion
	}
	return index
}

// Get returns the completion for (taskID, date), if any.
func (i *CompletionIndex) Get(taskID string, date Date) (Completion, bool) {
	completion, ok := i.byTask[taskID][date.Key()]
	return completion, ok
}

// Has reports whether any completion exists for (taskID, date).
func (i *CompletionIndex) Has(taskID string, date Date) bool {
	_, ok := i.byTask[taskID][date.Key()]
	return ok
}

// HasOnOtherDate reports whether the task has a completion on any date
// other than the given one.
func (i *CompletionIndex) HasOnOtherDate(taskID string, date Date) bool {
	key := date.Key()
	for existing := range i.byTask[taskID] {
		if existing != key {
			return true
		}
	}
	return false
}
