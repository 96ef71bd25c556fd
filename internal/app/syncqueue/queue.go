// Package syncqueue holds the offline mutation log for one client
// session. Mutations are applied optimistically to the local mirror and
// appended here; when connectivity returns the queue is optimized and
// replayed against the server in order.
package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"cadence/internal/core/domain"
)

type Operation string

const (
	OpCreate Operation = "CREATE"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// maxRetries caps transient replay attempts per entry before the entry
// is surfaced as failed.
const maxRetries = 5

// Entry is one pending mutation.
type Entry struct {
	ID         int64           `json:"id"`
	Operation  Operation       `json:"operation"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	Status     Status          `json:"status"`
	RetryCount int             `json:"retry_count"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Applier replays one entry against the server.
type Applier interface {
	Apply(ctx context.Context, entry Entry) error
}

// Queue is an append-only log owned by a single client session. All
// access is serialized behind the mutex; Enqueue, Optimize and Drain
// are safe to call concurrently but never overlap.
type Queue struct {
	mu      sync.Mutex
	seq     int64
	entries []*Entry
	clock   domain.Clock
}

func New(clock domain.Clock) *Queue {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &Queue{clock: clock}
}

func (q *Queue) Enqueue(op Operation, entityType, entityID string, payload json.RawMessage) Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	entry := &Entry{
		ID:         q.seq,
		Operation:  op,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		Status:     StatusPending,
		EnqueuedAt: q.clock.Now(),
	}
	q.entries = append(q.entries, entry)
	return *entry
}

// Optimize collapses pending entries per (entityType, entityID):
//
//   - a DELETE discards every earlier pending operation for the entity
//     and remains as its sole entry;
//   - an UPDATE replaces an immediately preceding UPDATE for the same
//     entity, keeping only the latest payload;
//   - a CREATE is never merged with later UPDATEs: the server must
//     still see "create X" then "update X", since the create may return
//     a server-assigned id the update consumes.
//
// Optimization is bandwidth only: replaying the optimized queue must
// end in the same state as replaying the original order.
func (q *Queue) Optimize() {
	q.mu.Lock()
	defer q.mu.Unlock()

	optimized := make([]*Entry, 0, len(q.entries))
	lastPendingFor := make(map[string]*Entry)

	for _, entry := range q.entries {
		if entry.Status != StatusPending {
			optimized = append(optimized, entry)
			continue
		}

		key := entry.EntityType + "/" + entry.EntityID
		switch entry.Operation {
		case OpDelete:
			kept := optimized[:0]
			for _, existing := range optimized {
				if existing.Status == StatusPending && existing.EntityType == entry.EntityType && existing.EntityID == entry.EntityID {
					continue
				}
				kept = append(kept, existing)
			}
			optimized = append(kept, entry)
			lastPendingFor[key] = entry
		case OpUpdate:
			if previous, ok := lastPendingFor[key]; ok && previous.Operation == OpUpdate {
				previous.Payload = entry.Payload
				previous.EnqueuedAt = entry.EnqueuedAt
				continue
			}
			optimized = append(optimized, entry)
			lastPendingFor[key] = entry
		default:
			optimized = append(optimized, entry)
			lastPendingFor[key] = entry
		}
	}

	q.entries = optimized
}

// Drain replays pending entries in order. A successful apply marks the
// entry completed. Validation, conflict and not-found errors are
// terminal: the entry is marked failed and kept visible rather than
// silently dropped. Any other error is treated as transient; the entry
// stays pending with its retry count bumped and the drain stops so
// ordering is preserved, until the retry cap marks it failed.
func (q *Queue) Drain(ctx context.Context, applier Applier) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, entry := range q.entries {
		if entry.Status != StatusPending {
			continue
		}

		err := applier.Apply(ctx, *entry)
		if err == nil {
			entry.Status = StatusCompleted
			continue
		}

		if isTerminal(err) {
			entry.Status = StatusFailed
			zap.L().Warn("sync entry failed permanently",
				zap.Int64("entry_id", entry.ID),
				zap.String("entity_type", entry.EntityType),
				zap.String("entity_id", entry.EntityID),
				zap.Error(err),
			)
			continue
		}

		entry.RetryCount++
		if entry.RetryCount >= maxRetries {
			entry.Status = StatusFailed
			zap.L().Warn("sync entry exhausted retries",
				zap.Int64("entry_id", entry.ID),
				zap.Error(err),
			)
			continue
		}
		return err
	}

	q.compact()
	return nil
}

// Pending returns a snapshot of entries still awaiting replay.
func (q *Queue) Pending() []Entry {
	return q.snapshot(StatusPending)
}

// Failed returns entries that could not be replayed; the UI surfaces
// these to the user.
func (q *Queue) Failed() []Entry {
	return q.snapshot(StatusFailed)
}

func (q *Queue) snapshot(status Status) []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	var result []Entry
	for _, entry := range q.entries {
		if entry.Status == status {
			result = append(result, *entry)
		}
	}
	return result
}

// compact drops completed entries; failed ones stay until inspected.
func (q *Queue) compact() {
	kept := q.entries[:0]
	for _, entry := range q.entries {
		if entry.Status == StatusCompleted {
			continue
		}
		kept = append(kept, entry)
	}
	q.entries = kept
}

func isTerminal(err error) bool {
	return errors.Is(err, ErrMalformedEntry) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrInvalidOutcome) ||
		errors.Is(err, domain.ErrInvalidRecurrence) ||
		errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrDuplicateCompletion)
}
