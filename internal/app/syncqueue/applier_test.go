package syncqueue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cadence/internal/core/domain"
)

// recordingTaskService captures the calls the applier makes; the queue
// tests already cover drain mechanics, so these fakes only need to
// observe arguments.
type recordingTaskService struct {
	created []domain.CreateTaskInput
	updated map[string]domain.TaskChanges
	deleted []string
	users   []string
}

func (s *recordingTaskService) CreateTask(_ context.Context, userID string, input domain.CreateTaskInput) (*domain.Task, error) {
	s.users = append(s.users, userID)
	s.created = append(s.created, input)
	return &domain.Task{ID: input.ID, UserID: userID, Title: input.Title}, nil
}

func (s *recordingTaskService) ListTasks(context.Context, string) ([]domain.Task, error) {
	return nil, nil
}

func (s *recordingTaskService) ListTasksBySection(context.Context, string, string) ([]domain.Task, error) {
	return nil, nil
}

func (s *recordingTaskService) ListSubtasks(context.Context, string, string) ([]domain.Task, error) {
	return nil, nil
}

func (s *recordingTaskService) UpdateTask(_ context.Context, userID, id string, changes domain.TaskChanges) (*domain.Task, error) {
	s.users = append(s.users, userID)
	if s.updated == nil {
		s.updated = make(map[string]domain.TaskChanges)
	}
	s.updated[id] = changes
	return &domain.Task{ID: id, UserID: userID}, nil
}

func (s *recordingTaskService) DeleteTask(_ context.Context, userID, id string) error {
	s.users = append(s.users, userID)
	s.deleted = append(s.deleted, id)
	return nil
}

type toggleCall struct {
	taskID  string
	date    domain.Date
	outcome *domain.Outcome
	note    *string
}

type recordingCompletionService struct {
	toggles []toggleCall
	cleared []domain.CompletionKey
}

func (s *recordingCompletionService) ToggleOccurrence(_ context.Context, _ string, taskID string, date domain.Date, outcome *domain.Outcome, note *string) (*domain.Completion, error) {
	s.toggles = append(s.toggles, toggleCall{taskID: taskID, date: date, outcome: outcome, note: note})
	return &domain.Completion{TaskID: taskID, Date: date}, nil
}

func (s *recordingCompletionService) BatchComplete(context.Context, string, []domain.CompletionKey, domain.Outcome) error {
	return nil
}

func (s *recordingCompletionService) BatchClear(_ context.Context, _ string, keys []domain.CompletionKey) error {
	s.cleared = append(s.cleared, keys...)
	return nil
}

func (s *recordingCompletionService) IsCompletedOnDate(context.Context, string, string, domain.Date) (bool, error) {
	return false, nil
}

func (s *recordingCompletionService) GetOutcomeOnDate(context.Context, string, string, domain.Date) (*domain.Outcome, error) {
	return nil, nil
}

func testApplier() (*ServiceApplier, *recordingTaskService, *recordingCompletionService) {
	tasks := &recordingTaskService{}
	completions := &recordingCompletionService{}
	return NewServiceApplier("user-1", tasks, completions), tasks, completions
}

func TestServiceApplier_TaskCreateCarriesClientID(t *testing.T) {
	applier, tasks, _ := testApplier()

	entry := Entry{
		Operation:  OpCreate,
		EntityType: EntityTask,
		EntityID:   "t1",
		Payload:    payload(`{"title":"water plants","duration_minutes":15,"recurrence":{"type":"daily"}}`),
	}
	require.NoError(t, applier.Apply(context.Background(), entry))

	require.Len(t, tasks.created, 1)
	input := tasks.created[0]
	require.Equal(t, "t1", input.ID)
	require.Equal(t, "water plants", input.Title)
	require.Equal(t, 15, input.DurationMinutes)
	require.Equal(t, domain.TaskStatusTodo, input.Status)
	require.NotNil(t, input.Recurrence)
	require.Equal(t, domain.RecurrenceDaily, input.Recurrence.Type)
	require.Equal(t, []string{"user-1"}, tasks.users)
}

func TestServiceApplier_TaskCreateWithoutTitleIsTerminal(t *testing.T) {
	applier, tasks, _ := testApplier()

	entry := Entry{Operation: OpCreate, EntityType: EntityTask, EntityID: "t1", Payload: payload(`{}`)}
	err := applier.Apply(context.Background(), entry)
	require.ErrorIs(t, err, ErrMalformedEntry)
	require.Empty(t, tasks.created)
}

func TestServiceApplier_TaskUpdateIsSparse(t *testing.T) {
	applier, tasks, _ := testApplier()

	entry := Entry{
		Operation:  OpUpdate,
		EntityType: EntityTask,
		EntityID:   "t1",
		Payload:    payload(`{"title":"renamed","date":"2024-03-15"}`),
	}
	require.NoError(t, applier.Apply(context.Background(), entry))

	changes, ok := tasks.updated["t1"]
	require.True(t, ok)
	require.NotNil(t, changes.Title)
	require.Equal(t, "renamed", *changes.Title)
	require.NotNil(t, changes.Date)
	require.Equal(t, "2024-03-15", changes.Date.Key())
	require.Nil(t, changes.SectionID)
	require.Nil(t, changes.Recurrence)
}

func TestServiceApplier_TaskDelete(t *testing.T) {
	applier, tasks, _ := testApplier()

	entry := Entry{Operation: OpDelete, EntityType: EntityTask, EntityID: "t1"}
	require.NoError(t, applier.Apply(context.Background(), entry))
	require.Equal(t, []string{"t1"}, tasks.deleted)
}

func TestServiceApplier_CompletionWriteForwardsOutcomeAndNote(t *testing.T) {
	applier, _, completions := testApplier()

	entry := Entry{
		Operation:  OpCreate,
		EntityType: EntityCompletion,
		EntityID:   "c1",
		Payload:    payload(`{"task_id":"t1","date":"2024-03-15","outcome":"not_completed","note":"skipped"}`),
	}
	require.NoError(t, applier.Apply(context.Background(), entry))

	require.Len(t, completions.toggles, 1)
	call := completions.toggles[0]
	require.Equal(t, "t1", call.taskID)
	require.Equal(t, "2024-03-15", call.date.Key())
	require.NotNil(t, call.outcome)
	require.Equal(t, domain.OutcomeNotCompleted, *call.outcome)
	require.NotNil(t, call.note)
	require.Equal(t, "skipped", *call.note)
}

func TestServiceApplier_CompletionDeleteClearsSingleKey(t *testing.T) {
	applier, _, completions := testApplier()

	entry := Entry{
		Operation:  OpDelete,
		EntityType: EntityCompletion,
		EntityID:   "c1",
		Payload:    payload(`{"task_id":"t1","date":"2024-03-15"}`),
	}
	require.NoError(t, applier.Apply(context.Background(), entry))

	require.Len(t, completions.cleared, 1)
	require.Equal(t, "t1", completions.cleared[0].TaskID)
	require.Equal(t, "2024-03-15", completions.cleared[0].Date.Key())
}

func TestServiceApplier_CompletionInvalidDateIsTerminal(t *testing.T) {
	applier, _, completions := testApplier()

	entry := Entry{
		Operation:  OpCreate,
		EntityType: EntityCompletion,
		EntityID:   "c1",
		Payload:    payload(`{"task_id":"t1","date":"not-a-date"}`),
	}
	err := applier.Apply(context.Background(), entry)
	require.ErrorIs(t, err, domain.ErrInvalidDate)
	require.True(t, isTerminal(err))
	require.Empty(t, completions.toggles)
}

func TestServiceApplier_UnknownEntityTypeIsTerminal(t *testing.T) {
	applier, _, _ := testApplier()

	entry := Entry{Operation: OpCreate, EntityType: "note", EntityID: "n1", Payload: payload(`{}`)}
	err := applier.Apply(context.Background(), entry)
	require.ErrorIs(t, err, ErrMalformedEntry)
	require.True(t, isTerminal(err))
}

func TestServiceApplier_DrainReplaysThroughServices(t *testing.T) {
	applier, tasks, completions := testApplier()
	q := testQueue()
	q.Enqueue(OpCreate, EntityTask, "t1", payload(`{"title":"journal"}`))
	q.Enqueue(OpUpdate, EntityTask, "t1", payload(`{"title":"evening journal"}`))
	q.Enqueue(OpCreate, EntityCompletion, "c1", payload(`{"task_id":"t1","date":"2024-03-15"}`))

	q.Optimize()
	require.NoError(t, q.Drain(context.Background(), applier))

	require.Len(t, tasks.created, 1)
	require.Contains(t, tasks.updated, "t1")
	require.Len(t, completions.toggles, 1)
	require.Empty(t, q.Pending())
	require.Empty(t, q.Failed())
}
