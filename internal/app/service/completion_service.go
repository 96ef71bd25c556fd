package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type CompletionService struct {
	tasks       ports.TaskRepository
	completions ports.CompletionRepository
	tx          ports.Transactor
	cache       ports.ProjectionCache
	clock       domain.Clock
}

func NewCompletionService(
	tasks ports.TaskRepository,
	completions ports.CompletionRepository,
	tx ports.Transactor,
	cache ports.ProjectionCache,
	clock domain.Clock,
) *CompletionService {
	return &CompletionService{tasks: tasks, completions: completions, tx: tx, cache: cache, clock: clock}
}

var _ ports.CompletionService = (*CompletionService)(nil)

// ToggleOccurrence flips the ledger state for (task, date). A nil
// outcome toggles: an existing record is removed, a missing one is
// written as completed.
//
// Checking off an undated backlog item is defined as "schedule it for
// that day and complete it", so the task's recurrence and status move
// in the same transaction as the ledger row. Do not split this into
// separate status and ledger calls.
func (s *CompletionService) ToggleOccurrence(ctx context.Context, userID, taskID string, date domain.Date, outcome *domain.Outcome, note *string) (*domain.Completion, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = s.clock.Today()
	}

	existing, err := s.completions.Find(ctx, userID, taskID, date)
	if err != nil {
		return nil, err
	}

	// Toggle off.
	if outcome == nil && existing != nil {
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.completions.Delete(ctx, userID, taskID, date); err != nil {
				return err
			}
			if !task.IsRecurring() && task.Status == domain.TaskStatusComplete {
				task.Status = domain.TaskStatusTodo
				task.UpdatedAt = s.clock.Now()
				return s.tasks.Update(ctx, task)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
		}
		s.invalidate(ctx, userID)
		return nil, nil
	}

	written := domain.OutcomeCompleted
	if outcome != nil {
		written = *outcome
	}

	completion := &domain.Completion{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		Date:      date,
		Outcome:   written,
		Note:      note,
		CreatedAt: s.clock.Now(),
	}
	if existing != nil {
		completion.ID = existing.ID
		completion.CreatedAt = existing.CreatedAt
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.completions.Upsert(ctx, completion); err != nil {
			return err
		}
		if task.IsRecurring() {
			return nil
		}
		if !task.HasAssignedDate() {
			task.Recurrence = domain.NoneOn(date)
		}
		if written == domain.OutcomeCompleted {
			task.Status = domain.TaskStatusComplete
		} else {
			task.Status = domain.TaskStatusTodo
		}
		task.UpdatedAt = s.clock.Now()
		return s.tasks.Update(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	s.invalidate(ctx, userID)
	return completion, nil
}

// BatchComplete writes one record per key as a single atomic unit, used
// when toggling a parent task along with its subtasks. If any write
// fails none apply, and the caller must roll back any optimistic UI
// state it set in anticipation.
func (s *CompletionService) BatchComplete(ctx context.Context, userID string, keys []domain.CompletionKey, outcome domain.Outcome) error {
	now := s.clock.Now()
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, key := range keys {
			completion := &domain.Completion{
				ID:        uuid.NewString(),
				TaskID:    key.TaskID,
				UserID:    userID,
				Date:      key.Date,
				Outcome:   outcome,
				CreatedAt: now,
			}
			if err := s.completions.Upsert(ctx, completion); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *CompletionService) BatchClear(ctx context.Context, userID string, keys []domain.CompletionKey) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, key := range keys {
			if err := s.completions.Delete(ctx, userID, key.TaskID, key.Date); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// IsCompletedOnDate is a pure ledger lookup; it never evaluates
// recurrence.
func (s *CompletionService) IsCompletedOnDate(ctx context.Context, userID, taskID string, date domain.Date) (bool, error) {
	completion, err := s.completions.Find(ctx, userID, taskID, date)
	if err != nil {
		return false, err
	}
	return completion != nil && completion.Outcome == domain.OutcomeCompleted, nil
}

func (s *CompletionService) GetOutcomeOnDate(ctx context.Context, userID, taskID string, date domain.Date) (*domain.Outcome, error) {
	completion, err := s.completions.Find(ctx, userID, taskID, date)
	if err != nil {
		return nil, err
	}
	if completion == nil {
		return nil, nil
	}
	outcome := completion.Outcome
	return &outcome, nil
}

func (s *CompletionService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
