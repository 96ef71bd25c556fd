// Package rollover stamps rolled_over outcomes for goal tasks that were
// due yesterday and never completed, so streak views can tell "missed"
// from "moved".
package rollover

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type Job struct {
	tasks       ports.TaskRepository
	completions ports.CompletionRepository
	cache       ports.ProjectionCache
	clock       domain.Clock
}

func NewJob(tasks ports.TaskRepository, completions ports.CompletionRepository, cache ports.ProjectionCache, clock domain.Clock) *Job {
	return &Job{tasks: tasks, completions: completions, cache: cache, clock: clock}
}

// Run scans rollover tasks across all users and writes a rolled_over
// record for each one that was due yesterday with no ledger entry.
// Per-task failures are logged and skipped; one bad row must not stall
// everyone else's rollover.
func (j *Job) Run(ctx context.Context) {
	yesterday := j.clock.Today().AddDays(-1)

	tasks, err := j.tasks.ListRolloverTasks(ctx)
	if err != nil {
		zap.L().Error("rollover scan failed", zap.Error(err))
		return
	}

	rolled := 0
	touched := make(map[string]struct{})
	for _, task := range tasks {
		if !task.Recurrence.OccursOn(yesterday) {
			continue
		}

		existing, err := j.completions.Find(ctx, task.UserID, task.ID, yesterday)
		if err != nil {
			zap.L().Warn("rollover lookup failed", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		if existing != nil {
			continue
		}

		completion := &domain.Completion{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			UserID:    task.UserID,
			Date:      yesterday,
			Outcome:   domain.OutcomeRolledOver,
			CreatedAt: j.clock.Now(),
		}
		if err := j.completions.Upsert(ctx, completion); err != nil {
			zap.L().Warn("rollover write failed", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		rolled++
		touched[task.UserID] = struct{}{}
	}

	if j.cache != nil {
		for userID := range touched {
			j.cache.Invalidate(ctx, userID)
		}
	}

	zap.L().Info("rollover pass finished",
		zap.String("date", yesterday.Key()),
		zap.Int("rolled", rolled),
	)
}
