package domain

import "errors"

var (
	ErrInvalidDate         = errors.New("invalid date input")
	ErrInvalidOutcome      = errors.New("invalid completion outcome")
	ErrInvalidRecurrence   = errors.New("invalid recurrence descriptor")
	ErrTaskNotFound        = errors.New("task not found")
	ErrSectionNotFound     = errors.New("section not found")
	ErrCompletionNotFound  = errors.New("completion not found")
	ErrDuplicateCompletion = errors.New("duplicate completion for task and date")
	ErrTransactionFailed   = errors.New("transaction failed")
	// ErrScopeDecisionRequired flags a scheduling edit to a recurring
	// task sent down the direct-update path instead of the split engine.
	ErrScopeDecisionRequired = errors.New("edit requires a series scope decision")
)
