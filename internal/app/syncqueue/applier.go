package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

// Entity types carried by queue entries. They mirror the stores the
// offline client mirrors locally.
const (
	EntityTask       = "task"
	EntityCompletion = "completion"
)

// ErrMalformedEntry marks an entry whose payload cannot be decoded.
// Replaying it again would never succeed, so the drain treats it as
// terminal.
var ErrMalformedEntry = errors.New("malformed sync entry")

// taskPayload is the wire form of a task mutation. CREATE entries fill
// the value fields; UPDATE entries use the same shape sparsely.
type taskPayload struct {
	Title           *string            `json:"title,omitempty"`
	SectionID       *string            `json:"section_id,omitempty"`
	TimeOfDay       *string            `json:"time_of_day,omitempty"`
	DurationMinutes *int               `json:"duration_minutes,omitempty"`
	Status          *string            `json:"status,omitempty"`
	Recurrence      *domain.Recurrence `json:"recurrence,omitempty"`
	ParentID        *string            `json:"parent_id,omitempty"`
	IsRollover      *bool              `json:"is_rollover,omitempty"`
	Date            *domain.Date       `json:"date,omitempty"`
}

type completionPayload struct {
	TaskID  string      `json:"task_id"`
	Date    domain.Date `json:"date"`
	Outcome *string     `json:"outcome,omitempty"`
	Note    *string     `json:"note,omitempty"`
}

// ServiceApplier replays entries for one user against the application
// services, so a replayed mutation takes exactly the path an online
// request would have taken.
type ServiceApplier struct {
	userID      string
	tasks       ports.TaskService
	completions ports.CompletionService
}

func NewServiceApplier(userID string, tasks ports.TaskService, completions ports.CompletionService) *ServiceApplier {
	return &ServiceApplier{userID: userID, tasks: tasks, completions: completions}
}

var _ Applier = (*ServiceApplier)(nil)

func (a *ServiceApplier) Apply(ctx context.Context, entry Entry) error {
	switch entry.EntityType {
	case EntityTask:
		return a.applyTask(ctx, entry)
	case EntityCompletion:
		return a.applyCompletion(ctx, entry)
	default:
		return fmt.Errorf("%w: unknown entity type %q", ErrMalformedEntry, entry.EntityType)
	}
}

func (a *ServiceApplier) applyTask(ctx context.Context, entry Entry) error {
	switch entry.Operation {
	case OpCreate:
		payload, err := decodeTaskPayload(entry.Payload)
		if err != nil {
			return err
		}
		if payload.Title == nil {
			return fmt.Errorf("%w: task create without title", ErrMalformedEntry)
		}

		input := domain.CreateTaskInput{
			ID:         entry.EntityID,
			Title:      *payload.Title,
			SectionID:  payload.SectionID,
			TimeOfDay:  payload.TimeOfDay,
			Status:     domain.TaskStatusTodo,
			Recurrence: payload.Recurrence,
			ParentID:   payload.ParentID,
		}
		if payload.DurationMinutes != nil {
			input.DurationMinutes = *payload.DurationMinutes
		}
		if payload.Status != nil {
			input.Status = domain.TaskStatus(*payload.Status)
		}
		if payload.IsRollover != nil {
			input.IsRollover = *payload.IsRollover
		}

		_, err = a.tasks.CreateTask(ctx, a.userID, input)
		return err

	case OpUpdate:
		payload, err := decodeTaskPayload(entry.Payload)
		if err != nil {
			return err
		}

		changes := domain.TaskChanges{
			Title:           payload.Title,
			SectionID:       payload.SectionID,
			TimeOfDay:       payload.TimeOfDay,
			DurationMinutes: payload.DurationMinutes,
			Date:            payload.Date,
			Recurrence:      payload.Recurrence,
		}
		_, err = a.tasks.UpdateTask(ctx, a.userID, entry.EntityID, changes)
		return err

	case OpDelete:
		return a.tasks.DeleteTask(ctx, a.userID, entry.EntityID)

	default:
		return fmt.Errorf("%w: unknown operation %q", ErrMalformedEntry, entry.Operation)
	}
}

func (a *ServiceApplier) applyCompletion(ctx context.Context, entry Entry) error {
	var payload completionPayload
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	if payload.TaskID == "" || payload.Date.IsZero() {
		return fmt.Errorf("%w: completion entry without task or date", ErrMalformedEntry)
	}

	switch entry.Operation {
	case OpCreate, OpUpdate:
		var outcome *domain.Outcome
		if payload.Outcome != nil {
			parsed, err := domain.ParseOutcome(*payload.Outcome)
			if err != nil {
				return err
			}
			outcome = &parsed
		}
		_, err := a.completions.ToggleOccurrence(ctx, a.userID, payload.TaskID, payload.Date, outcome, payload.Note)
		return err

	case OpDelete:
		key := domain.CompletionKey{TaskID: payload.TaskID, Date: payload.Date}
		return a.completions.BatchClear(ctx, a.userID, []domain.CompletionKey{key})

	default:
		return fmt.Errorf("%w: unknown operation %q", ErrMalformedEntry, entry.Operation)
	}
}

func decodeTaskPayload(raw json.RawMessage) (taskPayload, error) {
	var payload taskPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return payload, err
		}
		return payload, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	return payload, nil
}
