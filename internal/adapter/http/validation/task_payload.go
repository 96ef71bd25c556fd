package validation

import (
	"fmt"

	"cadence/internal/adapter/http/dto"
	"cadence/internal/core/domain"
)

// BuildCreateTaskInput converts and validates a create payload,
// parsing any recurrence dates through the canonical normalizer.
func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	recurrence, err := BuildRecurrence(req.Recurrence)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}

	input := domain.CreateTaskInput{
		Title:      req.Title,
		SectionID:  req.SectionID,
		TimeOfDay:  req.TimeOfDay,
		Recurrence: recurrence,
		ParentID:   req.ParentID,
	}
	if req.ID != nil {
		input.ID = *req.ID
	}
	if req.DurationMinutes != nil {
		input.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		input.Status = domain.TaskStatus(*req.Status)
	}
	if req.IsRollover != nil {
		input.IsRollover = *req.IsRollover
	}
	return input, nil
}

// BuildTaskChanges converts a sparse update payload into the engine's
// change set.
func BuildTaskChanges(req dto.UpdateTaskRequest) (domain.TaskChanges, error) {
	changes := domain.TaskChanges{
		Title:           req.Title,
		SectionID:       req.SectionID,
		TimeOfDay:       req.TimeOfDay,
		DurationMinutes: req.DurationMinutes,
	}

	if req.Date != nil {
		date, err := domain.ParseDate(*req.Date)
		if err != nil {
			return domain.TaskChanges{}, err
		}
		changes.Date = &date
	}

	recurrence, err := BuildRecurrence(req.Recurrence)
	if err != nil {
		return domain.TaskChanges{}, err
	}
	changes.Recurrence = recurrence

	return changes, nil
}

// BuildRecurrence validates the wire descriptor and normalizes its
// dates. Exception and additional-date entries must already be date
// keys; anything else is a malformed payload, not a coercion target.
func BuildRecurrence(req *dto.Recurrence) (*domain.Recurrence, error) {
	if req == nil {
		return nil, nil
	}

	recurrence := &domain.Recurrence{
		Type:       domain.RecurrenceType(req.Type),
		Interval:   req.Interval,
		Days:       req.Days,
		DayOfMonth: req.DayOfMonth,
		Ordinal:    req.Ordinal,
		DayOfWeek:  req.DayOfWeek,
		Month:      req.Month,
	}

	if req.StartDate != nil {
		date, err := domain.ParseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		recurrence.StartDate = &date
	}
	if req.EndDate != nil {
		date, err := domain.ParseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		recurrence.EndDate = &date
	}

	for _, entry := range req.Exceptions {
		date, err := domain.ParseDate(entry)
		if err != nil {
			return nil, err
		}
		recurrence.Exceptions = append(recurrence.Exceptions, date.Key())
	}
	for _, entry := range req.AdditionalDates {
		date, err := domain.ParseDate(entry)
		if err != nil {
			return nil, err
		}
		recurrence.AdditionalDates = append(recurrence.AdditionalDates, date.Key())
	}

	if err := validateRecurrenceShape(recurrence); err != nil {
		return nil, err
	}
	return recurrence, nil
}

func validateRecurrenceShape(recurrence *domain.Recurrence) error {
	switch recurrence.Type {
	case domain.RecurrenceNone, domain.RecurrenceDaily, domain.RecurrenceInterval:
		return nil
	case domain.RecurrenceWeekly:
		if len(recurrence.Days) == 0 {
			return fmt.Errorf("%w: weekly pattern needs a weekday set", domain.ErrInvalidRecurrence)
		}
	case domain.RecurrenceMonthly:
		return validateMonthlyPattern(recurrence)
	case domain.RecurrenceYearly:
		if recurrence.Month == 0 {
			return fmt.Errorf("%w: yearly pattern needs a month", domain.ErrInvalidRecurrence)
		}
		return validateMonthlyPattern(recurrence)
	default:
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidRecurrence, recurrence.Type)
	}
	return nil
}

func validateMonthlyPattern(recurrence *domain.Recurrence) error {
	hasOrdinal := recurrence.Ordinal != nil && recurrence.DayOfWeek != nil
	hasDaySet := len(recurrence.DayOfMonth) > 0
	if hasOrdinal == hasDaySet {
		return fmt.Errorf("%w: need either a dayOfMonth set or an ordinal weekday", domain.ErrInvalidRecurrence)
	}
	return nil
}
