package mapper

import (
	"time"

	"cadence/internal/adapter/http/dto"
	"cadence/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	return dto.TaskItem{
		ID:              task.ID,
		Title:           task.Title,
		SectionID:       task.SectionID,
		TimeOfDay:       task.TimeOfDay,
		DurationMinutes: task.DurationMinutes,
		Status:          string(task.Status),
		Recurrence:      ToRecurrenceDTO(task.Recurrence),
		SourceTaskID:    task.SourceTaskID,
		ParentID:        task.ParentID,
		IsOffSchedule:   task.IsOffSchedule,
		IsRollover:      task.IsRollover,
		CreatedAt:       task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       task.UpdatedAt.Format(time.RFC3339),
	}
}

func ToRecurrenceDTO(recurrence *domain.Recurrence) *dto.Recurrence {
	if recurrence == nil {
		return nil
	}

	item := &dto.Recurrence{
		Type:            string(recurrence.Type),
		Interval:        recurrence.Interval,
		Days:            recurrence.Days,
		DayOfMonth:      recurrence.DayOfMonth,
		Ordinal:         recurrence.Ordinal,
		DayOfWeek:       recurrence.DayOfWeek,
		Month:           recurrence.Month,
		Exceptions:      recurrence.Exceptions,
		AdditionalDates: recurrence.AdditionalDates,
	}
	if recurrence.StartDate != nil {
		value := recurrence.StartDate.Stamp()
		item.StartDate = &value
	}
	if recurrence.EndDate != nil {
		value := recurrence.EndDate.Stamp()
		item.EndDate = &value
	}
	return item
}

func ToCompletionItem(completion domain.Completion) dto.CompletionItem {
	return dto.CompletionItem{
		ID:      completion.ID,
		TaskID:  completion.TaskID,
		Date:    completion.Date.Stamp(),
		Outcome: string(completion.Outcome),
		Note:    completion.Note,
	}
}

func ToScheduleResponse(projection map[string][]domain.Occurrence) dto.ScheduleResponse {
	response := make(dto.ScheduleResponse, len(projection))
	for _, occurrences := range projection {
		for _, occurrence := range occurrences {
			item := dto.ScheduleItem{Task: ToTaskItem(occurrence.Task), Note: occurrence.Note}
			if occurrence.Outcome != nil {
				value := string(*occurrence.Outcome)
				item.Outcome = &value
			}
			stamp := occurrence.Date.Stamp()
			response[stamp] = append(response[stamp], item)
		}
	}
	return response
}
