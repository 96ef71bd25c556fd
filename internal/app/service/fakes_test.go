package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"cadence/internal/core/domain"
)

// In-memory doubles for the store ports. The fake transactor snapshots
// both repositories before the callback and restores them on error, so
// tests can assert the all-or-nothing contract of multi-write
// operations.

type fakeTaskRepo struct {
	tasks      map[string]domain.Task
	failInsert error
	failUpdate error
}

func newFakeTaskRepo(tasks ...domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[string]domain.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (r *fakeTaskRepo) Insert(_ context.Context, task *domain.Task) error {
	if r.failInsert != nil {
		return r.failInsert
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID, id string) error {
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, userID, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (r *fakeTaskRepo) ListByUser(_ context.Context, userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) ListBySection(_ context.Context, userID, sectionID string) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.tasks {
		if task.UserID == userID && task.SectionID != nil && *task.SectionID == sectionID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) ListSubtasks(_ context.Context, userID, parentID string) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.tasks {
		if task.UserID == userID && task.ParentID != nil && *task.ParentID == parentID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) FindOffScheduleInstance(_ context.Context, userID, sourceTaskID string, date domain.Date) (*domain.Task, error) {
	for _, task := range r.tasks {
		if task.UserID != userID || !task.IsOffSchedule {
			continue
		}
		if task.SourceTaskID == nil || *task.SourceTaskID != sourceTaskID {
			continue
		}
		if task.Recurrence != nil && task.Recurrence.StartDate != nil && task.Recurrence.StartDate.Equal(date) {
			copied := task
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTaskRepo) ListRolloverTasks(_ context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.tasks {
		if task.IsRollover && !task.IsOffSchedule {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

type fakeCompletionRepo struct {
	completions map[string]domain.Completion // keyed by taskID|dateKey
	failUpsert  error
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{completions: make(map[string]domain.Completion)}
}

func completionKey(taskID string, date domain.Date) string {
	return taskID + "|" + date.Key()
}

func (r *fakeCompletionRepo) Upsert(_ context.Context, completion *domain.Completion) error {
	if r.failUpsert != nil {
		return r.failUpsert
	}
	key := completionKey(completion.TaskID, completion.Date)
	if existing, ok := r.completions[key]; ok {
		existing.Outcome = completion.Outcome
		existing.Note = completion.Note
		r.completions[key] = existing
		return nil
	}
	r.completions[key] = *completion
	return nil
}

func (r *fakeCompletionRepo) Delete(_ context.Context, userID, taskID string, date domain.Date) error {
	delete(r.completions, completionKey(taskID, date))
	return nil
}

func (r *fakeCompletionRepo) Find(_ context.Context, userID, taskID string, date domain.Date) (*domain.Completion, error) {
	completion, ok := r.completions[completionKey(taskID, date)]
	if !ok {
		return nil, nil
	}
	copied := completion
	return &copied, nil
}

func (r *fakeCompletionRepo) ListByTask(_ context.Context, userID, taskID string) ([]domain.Completion, error) {
	var completions []domain.Completion
	for _, completion := range r.completions {
		if completion.TaskID == taskID {
			completions = append(completions, completion)
		}
	}
	return completions, nil
}

func (r *fakeCompletionRepo) ListByUser(_ context.Context, userID string) ([]domain.Completion, error) {
	var completions []domain.Completion
	for _, completion := range r.completions {
		if completion.UserID == userID {
			completions = append(completions, completion)
		}
	}
	return completions, nil
}

type fakeTransactor struct {
	tasks       *fakeTaskRepo
	completions *fakeCompletionRepo
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	var taskSnapshot map[string]domain.Task
	if t.tasks != nil {
		taskSnapshot = make(map[string]domain.Task, len(t.tasks.tasks))
		for key, value := range t.tasks.tasks {
			taskSnapshot[key] = value
		}
	}
	var completionSnapshot map[string]domain.Completion
	if t.completions != nil {
		completionSnapshot = make(map[string]domain.Completion, len(t.completions.completions))
		for key, value := range t.completions.completions {
			completionSnapshot[key] = value
		}
	}

	if err := fn(ctx); err != nil {
		if t.tasks != nil {
			t.tasks.tasks = taskSnapshot
		}
		if t.completions != nil {
			t.completions.completions = completionSnapshot
		}
		return err
	}
	return nil
}

type fakeSectionRepo struct {
	sections map[string]domain.Section
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: make(map[string]domain.Section)}
}

func (r *fakeSectionRepo) Insert(_ context.Context, section *domain.Section) error {
	r.sections[section.ID] = *section
	return nil
}

func (r *fakeSectionRepo) Update(_ context.Context, section *domain.Section) error {
	if _, ok := r.sections[section.ID]; !ok {
		return domain.ErrSectionNotFound
	}
	r.sections[section.ID] = *section
	return nil
}

func (r *fakeSectionRepo) Delete(_ context.Context, userID, id string) error {
	section, ok := r.sections[id]
	if !ok || section.UserID != userID {
		return domain.ErrSectionNotFound
	}
	delete(r.sections, id)
	return nil
}

func (r *fakeSectionRepo) FindByID(_ context.Context, userID, id string) (*domain.Section, error) {
	section, ok := r.sections[id]
	if !ok || section.UserID != userID {
		return nil, domain.ErrSectionNotFound
	}
	return &section, nil
}

func (r *fakeSectionRepo) ListByUser(_ context.Context, userID string) ([]domain.Section, error) {
	var result []domain.Section
	for _, section := range r.sections {
		if section.UserID == userID {
			result = append(result, section)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

type fakeCache struct {
	invalidations int
}

func (c *fakeCache) Get(context.Context, string, domain.Date, domain.Date) ([]byte, bool) {
	return nil, false
}

func (c *fakeCache) Set(context.Context, string, domain.Date, domain.Date, []byte) {}

func (c *fakeCache) Invalidate(context.Context, string) {
	c.invalidations++
}

var errStoreDown = errors.New("store down")

func fixedClock() domain.Clock {
	return domain.FixedClock{Instant: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
}
