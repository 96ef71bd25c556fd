package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type SplitService struct {
	tasks ports.TaskRepository
	tx    ports.Transactor
	cache ports.ProjectionCache
	clock domain.Clock
}

func NewSplitService(tasks ports.TaskRepository, tx ports.Transactor, cache ports.ProjectionCache, clock domain.Clock) *SplitService {
	return &SplitService{tasks: tasks, tx: tx, cache: cache, clock: clock}
}

var _ ports.SplitService = (*SplitService)(nil)

// RequiresScopeDecision is true only when the edit reshapes scheduling
// on a recurring task. Title, section, and other cosmetic fields apply
// uniformly across the series and never prompt the user.
func (s *SplitService) RequiresScopeDecision(original *domain.Task, changes domain.TaskChanges) bool {
	return original.IsRecurring() && changes.TouchesScheduling()
}

// SplitSeries applies an edit to a recurring task at editDate under the
// chosen scope. Both scopes produce a pair of writes, a patch to the
// original and a new derived task, persisted in one transaction:
// applying only one side would silently resurrect or duplicate the
// edited occurrence.
func (s *SplitService) SplitSeries(ctx context.Context, userID, taskID string, changes domain.TaskChanges, editDate domain.Date, scope domain.SplitScope) (*domain.SplitResult, error) {
	task, err := s.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsRecurring() {
		return nil, fmt.Errorf("%w: task %s is not recurring", domain.ErrInvalidRecurrence, taskID)
	}
	if editDate.IsZero() {
		return nil, fmt.Errorf("%w: missing edit date", domain.ErrInvalidDate)
	}

	var result *domain.SplitResult
	switch scope {
	case domain.SplitThisOnly:
		result = s.thisOccurrenceOnly(task, changes, editDate)
	case domain.SplitThisAndFuture:
		result = s.thisAndFutureOccurrences(task, changes, editDate)
	default:
		return nil, fmt.Errorf("%w: unknown split scope %q", domain.ErrInvalidRecurrence, scope)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tasks.Update(ctx, result.Original); err != nil {
			return err
		}
		return s.tasks.Insert(ctx, result.Derived)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	s.invalidate(ctx, userID)
	return result, nil
}

// thisOccurrenceOnly layers a single-date exception on the series and
// materializes the edited day as a standalone one-time task.
func (s *SplitService) thisOccurrenceOnly(task *domain.Task, changes domain.TaskChanges, editDate domain.Date) *domain.SplitResult {
	original := *task
	original.Recurrence = task.Recurrence.Clone()
	original.Recurrence.AddException(editDate)
	original.UpdatedAt = s.clock.Now()

	occurrenceDate := editDate
	if changes.Date != nil {
		occurrenceDate = *changes.Date
	}

	derived := s.deriveTask(task, changes)
	derived.Recurrence = domain.NoneOn(occurrenceDate)

	return &domain.SplitResult{Original: &original, Derived: derived}
}

// thisAndFutureOccurrences terminates the old series the calendar day
// before editDate and starts a new series at editDate. Because the old
// end is strictly before the new start, no date can match both halves,
// whatever the pattern type.
func (s *SplitService) thisAndFutureOccurrences(task *domain.Task, changes domain.TaskChanges, editDate domain.Date) *domain.SplitResult {
	inheritedEnd := task.Recurrence.EndDate

	original := *task
	original.Recurrence = task.Recurrence.Clone()
	lastDay := editDate.AddDays(-1)
	original.Recurrence.EndDate = &lastDay
	original.UpdatedAt = s.clock.Now()

	var recurrence *domain.Recurrence
	if changes.Recurrence != nil {
		recurrence = changes.Recurrence.Clone()
	} else {
		recurrence = task.Recurrence.Clone()
	}
	start := editDate
	recurrence.StartDate = &start
	if recurrence.EndDate == nil && inheritedEnd != nil {
		end := *inheritedEnd
		recurrence.EndDate = &end
	}

	derived := s.deriveTask(task, changes)
	derived.Recurrence = recurrence

	return &domain.SplitResult{Original: &original, Derived: derived}
}

// deriveTask builds the new-series (or one-time) task seeded from the
// original, with the edit's non-recurrence fields applied and lineage
// recorded through SourceTaskID.
func (s *SplitService) deriveTask(task *domain.Task, changes domain.TaskChanges) *domain.Task {
	now := s.clock.Now()
	sourceID := task.ID
	derived := &domain.Task{
		ID:              uuid.NewString(),
		UserID:          task.UserID,
		Title:           task.Title,
		SectionID:       task.SectionID,
		TimeOfDay:       task.TimeOfDay,
		DurationMinutes: task.DurationMinutes,
		Status:          domain.TaskStatusTodo,
		SourceTaskID:    &sourceID,
		IsRollover:      task.IsRollover,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if changes.Title != nil {
		derived.Title = *changes.Title
	}
	if changes.SectionID != nil {
		derived.SectionID = changes.SectionID
	}
	if changes.TimeOfDay != nil {
		derived.TimeOfDay = changes.TimeOfDay
	}
	if changes.DurationMinutes != nil {
		derived.DurationMinutes = *changes.DurationMinutes
	}
	return derived
}

func (s *SplitService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
