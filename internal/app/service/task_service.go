package service

import (
	"context"

	"github.com/google/uuid"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type TaskService struct {
	tasks ports.TaskRepository
	cache ports.ProjectionCache
	clock domain.Clock
}

func NewTaskService(tasks ports.TaskRepository, cache ports.ProjectionCache, clock domain.Clock) *TaskService {
	return &TaskService{tasks: tasks, cache: cache, clock: clock}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) CreateTask(ctx context.Context, userID string, input domain.CreateTaskInput) (*domain.Task, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}

	now := s.clock.Now()
	task := &domain.Task{
		ID:              id,
		UserID:          userID,
		Title:           input.Title,
		SectionID:       input.SectionID,
		TimeOfDay:       input.TimeOfDay,
		DurationMinutes: input.DurationMinutes,
		Status:          status,
		Recurrence:      input.Recurrence,
		ParentID:        input.ParentID,
		IsRollover:      input.IsRollover,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// ListTasksBySection is a filter, not a lookup: an unknown section
// yields an empty list.
func (s *TaskService) ListTasksBySection(ctx context.Context, userID, sectionID string) ([]domain.Task, error) {
	return s.tasks.ListBySection(ctx, userID, sectionID)
}

// ListSubtasks returns the direct children of a task. The parent is
// looked up first so an unknown id answers not-found rather than an
// empty list.
func (s *TaskService) ListSubtasks(ctx context.Context, userID, parentID string) ([]domain.Task, error) {
	if _, err := s.tasks.FindByID(ctx, userID, parentID); err != nil {
		return nil, err
	}
	return s.tasks.ListSubtasks(ctx, userID, parentID)
}

// UpdateTask applies a direct edit. Scheduling edits to a recurring
// task are refused here: they need a scope decision and go through the
// split engine instead.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, changes domain.TaskChanges) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if task.IsRecurring() && changes.TouchesScheduling() {
		return nil, domain.ErrScopeDecisionRequired
	}

	applyChanges(task, changes)
	task.UpdatedAt = s.clock.Now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	if err := s.tasks.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *TaskService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

func applyChanges(task *domain.Task, changes domain.TaskChanges) {
	if changes.Title != nil {
		task.Title = *changes.Title
	}
	if changes.SectionID != nil {
		task.SectionID = changes.SectionID
	}
	if changes.TimeOfDay != nil {
		task.TimeOfDay = changes.TimeOfDay
	}
	if changes.DurationMinutes != nil {
		task.DurationMinutes = *changes.DurationMinutes
	}
	if changes.Recurrence != nil {
		task.Recurrence = changes.Recurrence.Clone()
	}
	if changes.Date != nil {
		// Moving a one-time task means re-pinning its single occurrence.
		task.Recurrence = domain.NoneOn(*changes.Date)
	}
}
