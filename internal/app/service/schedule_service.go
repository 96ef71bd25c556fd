package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type ScheduleService struct {
	tasks       ports.TaskRepository
	completions ports.CompletionRepository
	cache       ports.ProjectionCache
}

func NewScheduleService(tasks ports.TaskRepository, completions ports.CompletionRepository, cache ports.ProjectionCache) *ScheduleService {
	return &ScheduleService{tasks: tasks, completions: completions, cache: cache}
}

var _ ports.ScheduleService = (*ScheduleService)(nil)

// ProjectRange answers "what occurs between start and end, in what
// state", the read side behind every calendar and list view. Results
// are cached per (user, range); mutating services invalidate.
func (s *ScheduleService) ProjectRange(ctx context.Context, userID string, start, end domain.Date) (map[string][]domain.Occurrence, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, fmt.Errorf("%w: bad range %s..%s", domain.ErrInvalidDate, start.Key(), end.Key())
	}

	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, userID, start, end); ok {
			var cached map[string][]domain.Occurrence
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			zap.L().Warn("discarding unreadable cached projection", zap.String("user_id", userID))
		}
	}

	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	projection := domain.ProjectRange(tasks, domain.NewCompletionIndex(completions), start, end)

	if s.cache != nil {
		if payload, err := json.Marshal(projection); err == nil {
			s.cache.Set(ctx, userID, start, end, payload)
		}
	}

	return projection, nil
}
