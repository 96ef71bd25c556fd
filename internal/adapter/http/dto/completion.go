package dto

type ToggleOccurrenceRequest struct {
	Date    *string `json:"date"`
	Outcome *string `json:"outcome" binding:"omitempty,oneof=completed not_completed rolled_over"`
	Note    *string `json:"note"`
}

type CompletionItem struct {
	ID      string  `json:"id"`
	TaskID  string  `json:"task_id"`
	Date    string  `json:"date"`
	Outcome string  `json:"outcome"`
	Note    *string `json:"note,omitempty"`
}

type OffScheduleRequest struct {
	Date    string  `json:"date" binding:"required"`
	Outcome string  `json:"outcome" binding:"required,oneof=completed not_completed rolled_over"`
	Note    *string `json:"note"`
}

type OffScheduleClearRequest struct {
	Date string `json:"date" binding:"required"`
}

type BatchEntry struct {
	TaskID string `json:"task_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

type BatchCompletionRequest struct {
	Entries []BatchEntry `json:"entries" binding:"required,min=1,dive"`
	Outcome *string      `json:"outcome" binding:"omitempty,oneof=completed not_completed rolled_over"`
}
