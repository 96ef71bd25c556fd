package domain

import "go.uber.org/zap"

// Occurrence is one task's appearance on one projected date, with the
// ledger outcome for that date when one exists.
type Occurrence struct {
	Task    Task
	Date    Date
	Outcome *Outcome
	Note    *string
}

// ProjectRange decides, for every day in [start, end], which tasks
// appear and with what state. Several fields can claim a date at once,
// so rules are checked in a fixed precedence and the first match is
// authoritative:
//
//  1. Undated non-recurring work still in progress floats onto every
//     day in range.
//  2. An off-schedule instance appears only on its own day, and only if
//     its completion exists; without one it is orphaned and hidden.
//  3. A dated one-time task appears where its completion lives; with a
//     completion elsewhere (or status complete) it is suppressed from
//     other days; otherwise it appears on its own start date.
//  4. A date added outside the pattern appears only once a completion
//     backs it.
//  5. Everything else defers to the recurrence evaluator.
func ProjectRange(tasks []Task, completions *CompletionIndex, start, end Date) map[string][]Occurrence {
	if completions == nil {
		completions = NewCompletionIndex(nil)
	}
	projection := make(map[string][]Occurrence)
	for date := start; !date.After(end); date = date.AddDays(1) {
		for _, task := range tasks {
			if !appearsOn(task, completions, date) {
				continue
			}
			projection[date.Key()] = append(projection[date.Key()], occurrenceOn(task, completions, date))
		}
	}
	return projection
}

func appearsOn(task Task, completions *CompletionIndex, date Date) bool {
	// Rule 1: floating in-progress backlog item.
	if !task.IsRecurring() && !task.HasAssignedDate() && !task.IsOffSchedule {
		return task.Status == TaskStatusInProgress
	}

	// Rule 2: off-schedule instances render only with a backing
	// completion on their own day.
	if task.IsOffSchedule {
		if task.Recurrence == nil || task.Recurrence.StartDate == nil {
			return false
		}
		return date.Equal(*task.Recurrence.StartDate) && completions.Has(task.ID, date)
	}

	// Rule 3: dated one-time task.
	if !task.IsRecurring() && task.HasAssignedDate() {
		if completions.Has(task.ID, date) {
			return true
		}
		if completions.HasOnOtherDate(task.ID, date) || task.Status == TaskStatusComplete {
			return false
		}
		return task.Recurrence.OccursOn(date)
	}

	// Rule 4: additional dates count only once a completion backs them.
	if task.Recurrence.HasAdditionalDate(date) {
		if completions.Has(task.ID, date) {
			return true
		}
		// An added date with no completion stays invisible. Documented
		// behavior, though arguably a UX gap; log so it is observable.
		zap.L().Debug("skipping unfulfilled additional date",
			zap.String("task_id", task.ID),
			zap.String("date", date.Key()),
		)
		return false
	}

	// Rule 5: the declared pattern decides.
	return task.Recurrence.OccursOn(date)
}

func occurrenceOn(task Task, completions *CompletionIndex, date Date) Occurrence {
	occurrence := Occurrence{Task: task, Date: date}
	if completion, ok := completions.Get(task.ID, date); ok {
		outcome := completion.Outcome
		occurrence.Outcome = &outcome
		occurrence.Note = completion.Note
	}
	return occurrence
}
