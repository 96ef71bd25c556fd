package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cadence/internal/adapter/http/dto"
	"cadence/internal/adapter/http/mapper"
	"cadence/internal/adapter/http/middleware"
	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
	"cadence/pkg/apierrors"
)

type CompletionHandler struct {
	completionService  ports.CompletionService
	offScheduleService ports.OffScheduleService
}

func NewCompletionHandler(completionService ports.CompletionService, offScheduleService ports.OffScheduleService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService, offScheduleService: offScheduleService}
}

// ToggleOccurrence flips the ledger state for a task on a date. No date
// means today; no outcome means toggle.
func (h *CompletionHandler) ToggleOccurrence(c *gin.Context) {
	lang := middleware.GetLang(c)
	taskID := c.Param("id")

	var req dto.ToggleOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	var date domain.Date
	if req.Date != nil {
		parsed, err := domain.ParseDate(*req.Date)
		if err != nil {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
			)
			return
		}
		date = parsed
	}

	var outcome *domain.Outcome
	if req.Outcome != nil {
		value := domain.Outcome(*req.Outcome)
		outcome = &value
	}

	completion, err := h.completionService.ToggleOccurrence(c.Request.Context(), middleware.GetUID(c), taskID, date, outcome, req.Note)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to toggle occurrence", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailToggle, lang),
		)
		return
	}

	if completion == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, mapper.ToCompletionItem(*completion))
}

// BatchComplete applies one outcome to many (task, date) pairs
// atomically, used when a parent task is toggled along with subtasks.
func (h *CompletionHandler) BatchComplete(c *gin.Context) {
	lang := middleware.GetLang(c)

	req, keys, ok := h.bindBatch(c, lang)
	if !ok {
		return
	}

	outcome := domain.OutcomeCompleted
	if req.Outcome != nil {
		outcome = domain.Outcome(*req.Outcome)
	}

	if err := h.completionService.BatchComplete(c.Request.Context(), middleware.GetUID(c), keys, outcome); err != nil {
		zap.L().Error("failed to batch complete", zap.Int("entries", len(keys)), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailBatchCompletion, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CompletionHandler) BatchClear(c *gin.Context) {
	lang := middleware.GetLang(c)

	_, keys, ok := h.bindBatch(c, lang)
	if !ok {
		return
	}

	if err := h.completionService.BatchClear(c.Request.Context(), middleware.GetUID(c), keys); err != nil {
		zap.L().Error("failed to batch clear", zap.Int("entries", len(keys)), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailBatchCompletion, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CompletionHandler) SetOffSchedule(c *gin.Context) {
	lang := middleware.GetLang(c)
	taskID := c.Param("id")

	var req dto.OffScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
		)
		return
	}

	instance, err := h.offScheduleService.SetOffSchedule(
		c.Request.Context(),
		middleware.GetUID(c),
		taskID,
		date,
		domain.Outcome(req.Outcome),
		req.Note,
	)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to set off-schedule occurrence", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailOffSchedule, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(*instance))
}

func (h *CompletionHandler) ClearOffSchedule(c *gin.Context) {
	lang := middleware.GetLang(c)
	taskID := c.Param("id")

	var req dto.OffScheduleClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
		)
		return
	}

	if err := h.offScheduleService.ClearOffSchedule(c.Request.Context(), middleware.GetUID(c), taskID, date); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to clear off-schedule occurrence", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailOffSchedule, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CompletionHandler) bindBatch(c *gin.Context, lang string) (dto.BatchCompletionRequest, []domain.CompletionKey, bool) {
	var req dto.BatchCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return req, nil, false
	}

	keys := make([]domain.CompletionKey, 0, len(req.Entries))
	for _, entry := range req.Entries {
		date, err := domain.ParseDate(entry.Date)
		if err != nil {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
			)
			return req, nil, false
		}
		keys = append(keys, domain.CompletionKey{TaskID: entry.TaskID, Date: date})
	}
	return req, keys, true
}
