package ports

import (
	"context"

	"cadence/internal/core/domain"
)

type TaskRepository interface {
	Insert(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, id string) error
	FindByID(ctx context.Context, userID, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
	ListBySection(ctx context.Context, userID, sectionID string) ([]domain.Task, error)
	ListSubtasks(ctx context.Context, userID, parentID string) ([]domain.Task, error)
	// FindOffScheduleInstance looks up the standalone instance derived
	// from sourceTaskID whose start date falls on the given day.
	FindOffScheduleInstance(ctx context.Context, userID, sourceTaskID string, date domain.Date) (*domain.Task, error)
	// ListRolloverTasks spans all users; it feeds the nightly job.
	ListRolloverTasks(ctx context.Context) ([]domain.Task, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, userID string, input domain.CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	ListTasksBySection(ctx context.Context, userID, sectionID string) ([]domain.Task, error)
	ListSubtasks(ctx context.Context, userID, parentID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, id string, changes domain.TaskChanges) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
}

type SplitService interface {
	RequiresScopeDecision(original *domain.Task, changes domain.TaskChanges) bool
	SplitSeries(ctx context.Context, userID, taskID string, changes domain.TaskChanges, editDate domain.Date, scope domain.SplitScope) (*domain.SplitResult, error)
}
