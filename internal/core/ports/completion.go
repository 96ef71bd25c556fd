package ports

import (
	"context"

	"cadence/internal/core/domain"
)

type CompletionRepository interface {
	// Upsert writes the row for (task, date), updating in place when one
	// already exists. This is the only write path; a bare insert would
	// race the uniqueness constraint.
	Upsert(ctx context.Context, completion *domain.Completion) error
	// Delete is idempotent: deleting a missing row is not an error.
	Delete(ctx context.Context, userID, taskID string, date domain.Date) error
	Find(ctx context.Context, userID, taskID string, date domain.Date) (*domain.Completion, error)
	ListByTask(ctx context.Context, userID, taskID string) ([]domain.Completion, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Completion, error)
}

type CompletionService interface {
	// ToggleOccurrence flips the ledger state for (task, date). On an
	// undated backlog item this also schedules the task for that day and
	// flips its status; the two writes are one operation on purpose.
	ToggleOccurrence(ctx context.Context, userID, taskID string, date domain.Date, outcome *domain.Outcome, note *string) (*domain.Completion, error)
	BatchComplete(ctx context.Context, userID string, keys []domain.CompletionKey, outcome domain.Outcome) error
	BatchClear(ctx context.Context, userID string, keys []domain.CompletionKey) error
	IsCompletedOnDate(ctx context.Context, userID, taskID string, date domain.Date) (bool, error)
	GetOutcomeOnDate(ctx context.Context, userID, taskID string, date domain.Date) (*domain.Outcome, error)
}

type OffScheduleService interface {
	SetOffSchedule(ctx context.Context, userID, sourceTaskID string, date domain.Date, outcome domain.Outcome, note *string) (*domain.Task, error)
	ClearOffSchedule(ctx context.Context, userID, sourceTaskID string, date domain.Date) error
}
