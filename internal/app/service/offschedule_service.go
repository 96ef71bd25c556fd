package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type OffScheduleService struct {
	tasks       ports.TaskRepository
	completions ports.CompletionRepository
	tx          ports.Transactor
	cache       ports.ProjectionCache
	clock       domain.Clock
}

func NewOffScheduleService(
	tasks ports.TaskRepository,
	completions ports.CompletionRepository,
	tx ports.Transactor,
	cache ports.ProjectionCache,
	clock domain.Clock,
) *OffScheduleService {
	return &OffScheduleService{tasks: tasks, completions: completions, tx: tx, cache: cache, clock: clock}
}

var _ ports.OffScheduleService = (*OffScheduleService)(nil)

// SetOffSchedule logs an occurrence the declared pattern didn't
// predict. The instance task is unique per (source, date): re-invoking
// with the same pair reuses it. The outcome is written on both the
// source task and the instance in one transaction: the source side
// groups the occurrence under the task's history, the instance side
// renders it as a discrete card in date-indexed views. A reader must
// never observe one write without the other.
func (s *OffScheduleService) SetOffSchedule(ctx context.Context, userID, sourceTaskID string, date domain.Date, outcome domain.Outcome, note *string) (*domain.Task, error) {
	source, err := s.tasks.FindByID(ctx, userID, sourceTaskID)
	if err != nil {
		return nil, err
	}

	instance, err := s.tasks.FindOffScheduleInstance(ctx, userID, sourceTaskID, date)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if instance == nil {
			instance = &domain.Task{
				ID:              uuid.NewString(),
				UserID:          userID,
				Title:           source.Title,
				SectionID:       source.SectionID,
				TimeOfDay:       source.TimeOfDay,
				DurationMinutes: source.DurationMinutes,
				Status:          domain.TaskStatusTodo,
				Recurrence:      domain.NoneOn(date),
				SourceTaskID:    &source.ID,
				IsOffSchedule:   true,
				IsRollover:      source.IsRollover,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.tasks.Insert(ctx, instance); err != nil {
				return err
			}
		}

		for _, taskID := range []string{source.ID, instance.ID} {
			completion := &domain.Completion{
				ID:        uuid.NewString(),
				TaskID:    taskID,
				UserID:    userID,
				Date:      date,
				Outcome:   outcome,
				Note:      note,
				CreatedAt: now,
			}
			if err := s.completions.Upsert(ctx, completion); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	s.invalidate(ctx, userID)
	return instance, nil
}

// ClearOffSchedule removes the logged occurrence: the source-side
// completion and the instance task both go, and both deletions are
// attempted even if one target is already missing. Re-clearing is a
// no-op, not an error.
func (s *OffScheduleService) ClearOffSchedule(ctx context.Context, userID, sourceTaskID string, date domain.Date) error {
	source, err := s.tasks.FindByID(ctx, userID, sourceTaskID)
	if err != nil {
		return err
	}

	instance, err := s.tasks.FindOffScheduleInstance(ctx, userID, sourceTaskID, date)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.completions.Delete(ctx, userID, source.ID, date); err != nil {
			return err
		}
		if instance == nil {
			return nil
		}
		if err := s.completions.Delete(ctx, userID, instance.ID, date); err != nil {
			return err
		}
		return s.tasks.Delete(ctx, userID, instance.ID)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *OffScheduleService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
