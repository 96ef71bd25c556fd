package apierrors

const (
	MsgFailListTask        = "errorListTask"
	MsgInvalidTaskID       = "invalidTaskID"
	MsgInvalidTaskPayload  = "invalidTaskPayload"
	MsgTaskNotFound        = "taskNotFound"
	MsgFailCreateTask      = "failCreateTask"
	MsgFailUpdateTask      = "failUpdateTask"
	MsgFailDeleteTask      = "failDeleteTask"
	MsgScopeRequired       = "scopeDecisionRequired"
	MsgInvalidDate         = "invalidDate"
	MsgInvalidOutcome      = "invalidOutcome"
	MsgInvalidRecurrence   = "invalidRecurrence"
	MsgCompletionConflict  = "completionConflict"
	MsgFailToggle          = "failToggleOccurrence"
	MsgFailBatchCompletion = "failBatchCompletion"
	MsgFailOffSchedule     = "failOffSchedule"
	MsgFailSplitSeries     = "failSplitSeries"
	MsgFailProjectRange    = "failProjectRange"

	MsgInvalidSectionPayload = "invalidSectionPayload"
	MsgSectionNotFound       = "sectionNotFound"
	MsgFailCreateSection     = "failCreateSection"
	MsgFailListSection       = "failListSection"
	MsgFailUpdateSection     = "failUpdateSection"
	MsgFailDeleteSection     = "failDeleteSection"
)
