package ports

import (
	"context"

	"cadence/internal/core/domain"
)

type ScheduleService interface {
	ProjectRange(ctx context.Context, userID string, start, end domain.Date) (map[string][]domain.Occurrence, error)
}

// ProjectionCache stores serialized projections per (user, range).
// Implementations must degrade gracefully: a cache failure is a miss,
// never a request failure.
type ProjectionCache interface {
	Get(ctx context.Context, userID string, start, end domain.Date) ([]byte, bool)
	Set(ctx context.Context, userID string, start, end domain.Date, payload []byte)
	Invalidate(ctx context.Context, userID string)
}
