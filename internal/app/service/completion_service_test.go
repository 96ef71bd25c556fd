package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cadence/internal/core/domain"
)

func backlogTask(id, userID string) domain.Task {
	return domain.Task{
		ID:     id,
		UserID: userID,
		Title:  "Call the bank",
		Status: domain.TaskStatusTodo,
	}
}

func newCompletionService(tasks *fakeTaskRepo, completions *fakeCompletionRepo) *CompletionService {
	tx := &fakeTransactor{tasks: tasks, completions: completions}
	return NewCompletionService(tasks, completions, tx, &fakeCache{}, fixedClock())
}

func TestToggleOccurrence_WritesCompletedByDefault(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo(weeklyTask("task-1", "user-1"))
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	completion, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, completion)
	require.Equal(t, domain.OutcomeCompleted, completion.Outcome)
	require.Len(t, completions.completions, 1)

	// Recurring tasks never change status from a single day's record.
	require.Equal(t, domain.TaskStatusTodo, tasks.tasks["task-1"].Status)
}

func TestToggleOccurrence_RemovesExistingRecord(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo(weeklyTask("task-1", "user-1"))
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	_, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.NoError(t, err)

	completion, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.NoError(t, err)
	require.Nil(t, completion)
	require.Empty(t, completions.completions)
}

func TestToggleOccurrence_ExplicitOutcomeRevisesInPlace(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo(weeklyTask("task-1", "user-1"))
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	first, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.NoError(t, err)

	outcome := domain.OutcomeNotCompleted
	note := "skipped, traveling"
	second, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, &outcome, &note)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "explicit outcome must revise, not toggle off")
	require.Len(t, completions.completions, 1)
	stored := completions.completions[completionKey("task-1", date)]
	require.Equal(t, domain.OutcomeNotCompleted, stored.Outcome)
	require.Equal(t, "skipped, traveling", *stored.Note)
}

func TestToggleOccurrence_SchedulesUndatedBacklogItem(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo(backlogTask("task-1", "user-1"))
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	_, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.NoError(t, err)

	stored := tasks.tasks["task-1"]
	require.NotNil(t, stored.Recurrence, "checking off an undated item pins it to that day")
	require.Equal(t, domain.RecurrenceNone, stored.Recurrence.Type)
	require.True(t, stored.Recurrence.StartDate.Equal(date))
	require.Equal(t, domain.TaskStatusComplete, stored.Status)
}

func TestToggleOccurrence_BacklogCouplingIsAtomic(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo(backlogTask("task-1", "user-1"))
	tasks.failUpdate = errStoreDown
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	_, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.ErrorIs(t, err, domain.ErrTransactionFailed)

	require.Empty(t, completions.completions, "ledger row must not survive the failed status flip")
	require.Nil(t, tasks.tasks["task-1"].Recurrence)
}

func TestToggleOccurrence_DefaultsToToday(t *testing.T) {
	tasks := newFakeTaskRepo(weeklyTask("task-1", "user-1"))
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	completion, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", domain.Date{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "2024-03-15", completion.Date.Key())
}

func TestToggleOccurrence_UncompletingOneTimeReopensIt(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	task := backlogTask("task-1", "user-1")
	task.Recurrence = domain.NoneOn(date)
	task.Status = domain.TaskStatusComplete
	tasks := newFakeTaskRepo(task)
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)
	require.NoError(t, completions.Upsert(context.Background(), &domain.Completion{
		ID: "c-1", TaskID: "task-1", UserID: "user-1", Date: date, Outcome: domain.OutcomeCompleted,
	}))

	completion, err := svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, nil, nil)
	require.NoError(t, err)
	require.Nil(t, completion)
	require.Equal(t, domain.TaskStatusTodo, tasks.tasks["task-1"].Status)
}

func TestBatchComplete_AllOrNothing(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo()
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	keys := []domain.CompletionKey{
		{TaskID: "parent", Date: date},
		{TaskID: "sub-1", Date: date},
		{TaskID: "sub-2", Date: date},
	}
	require.NoError(t, svc.BatchComplete(context.Background(), "user-1", keys, domain.OutcomeCompleted))
	require.Len(t, completions.completions, 3)

	completions.failUpsert = errStoreDown
	more := []domain.CompletionKey{{TaskID: "sub-3", Date: date}}
	err := svc.BatchComplete(context.Background(), "user-1", more, domain.OutcomeCompleted)
	require.ErrorIs(t, err, domain.ErrTransactionFailed)
	require.Len(t, completions.completions, 3, "failed batch leaves the ledger untouched")
}

func TestBatchClear_RemovesEveryKey(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo()
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	keys := []domain.CompletionKey{
		{TaskID: "parent", Date: date},
		{TaskID: "sub-1", Date: date},
	}
	require.NoError(t, svc.BatchComplete(context.Background(), "user-1", keys, domain.OutcomeCompleted))
	require.NoError(t, svc.BatchClear(context.Background(), "user-1", keys))
	require.Empty(t, completions.completions)
}

func TestIsCompletedOnDate_ChecksLedgerOnly(t *testing.T) {
	date := domain.NewDate(2024, 3, 15)
	tasks := newFakeTaskRepo(weeklyTask("task-1", "user-1"))
	completions := newFakeCompletionRepo()
	svc := newCompletionService(tasks, completions)

	done, err := svc.IsCompletedOnDate(context.Background(), "user-1", "task-1", date)
	require.NoError(t, err)
	require.False(t, done)

	outcome := domain.OutcomeNotCompleted
	_, err = svc.ToggleOccurrence(context.Background(), "user-1", "task-1", date, &outcome, nil)
	require.NoError(t, err)

	// A not_completed record exists but the day is not "completed".
	done, err = svc.IsCompletedOnDate(context.Background(), "user-1", "task-1", date)
	require.NoError(t, err)
	require.False(t, done)

	got, err := svc.GetOutcomeOnDate(context.Background(), "user-1", "task-1", date)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeNotCompleted, *got)
}
