package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cadence/internal/adapter/http/dto"
	"cadence/internal/adapter/http/mapper"
	"cadence/internal/adapter/http/middleware"
	"cadence/internal/adapter/http/validation"
	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
	"cadence/pkg/apierrors"
)

type TaskHandler struct {
	taskService  ports.TaskService
	splitService ports.SplitService
}

func NewTaskHandler(taskService ports.TaskService, splitService ports.SplitService) *TaskHandler {
	return &TaskHandler{taskService: taskService, splitService: splitService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, payloadErrorKey(err), lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), middleware.GetUID(c), input)
	if err != nil {
		zap.L().Error("failed to create task", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang),
		)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(*task))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	var tasks []domain.Task
	var err error
	if sectionID := c.Query("section_id"); sectionID != "" {
		tasks, err = h.taskService.ListTasksBySection(c.Request.Context(), middleware.GetUID(c), sectionID)
	} else {
		tasks, err = h.taskService.ListTasks(c.Request.Context(), middleware.GetUID(c))
	}
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	lang := middleware.GetLang(c)
	parentID := c.Param("id")

	tasks, err := h.taskService.ListSubtasks(c.Request.Context(), middleware.GetUID(c), parentID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to list subtasks", zap.String("parent_id", parentID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	taskID := c.Param("id")

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	changes, err := validation.BuildTaskChanges(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, payloadErrorKey(err), lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetUID(c), taskID, changes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
		case errors.Is(err, domain.ErrScopeDecisionRequired):
			// Scheduling edits to a recurring series go through /split.
			c.JSON(
				http.StatusConflict,
				apierrors.CreateError(http.StatusConflict, apierrors.MsgScopeRequired, lang),
			)
		default:
			zap.L().Error("failed to update task", zap.String("task_id", taskID), zap.Error(err))
			c.JSON(
				http.StatusInternalServerError,
				apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailUpdateTask, lang),
			)
		}
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(*task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)
	taskID := c.Param("id")

	err := h.taskService.DeleteTask(c.Request.Context(), middleware.GetUID(c), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to delete task", zap.String("task_id", taskID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailDeleteTask, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) SplitSeries(c *gin.Context) {
	lang := middleware.GetLang(c)
	taskID := c.Param("id")

	var req dto.SplitSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	editDate, err := domain.ParseDate(req.EditDate)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
		)
		return
	}

	changes, err := validation.BuildTaskChanges(req.Changes)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, payloadErrorKey(err), lang),
		)
		return
	}

	result, err := h.splitService.SplitSeries(
		c.Request.Context(),
		middleware.GetUID(c),
		taskID,
		changes,
		editDate,
		domain.SplitScope(req.Scope),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
			)
		case errors.Is(err, domain.ErrInvalidRecurrence), errors.Is(err, domain.ErrInvalidDate):
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, payloadErrorKey(err), lang),
			)
		default:
			zap.L().Error("failed to split series", zap.String("task_id", taskID), zap.Error(err))
			c.JSON(
				http.StatusInternalServerError,
				apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailSplitSeries, lang),
			)
		}
		return
	}

	c.JSON(http.StatusOK, dto.SplitSeriesResponse{
		Original: mapper.ToTaskItem(*result.Original),
		Derived:  mapper.ToTaskItem(*result.Derived),
	})
}

func payloadErrorKey(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return apierrors.MsgInvalidDate
	case errors.Is(err, domain.ErrInvalidRecurrence):
		return apierrors.MsgInvalidRecurrence
	case errors.Is(err, domain.ErrInvalidOutcome):
		return apierrors.MsgInvalidOutcome
	default:
		return apierrors.MsgInvalidTaskPayload
	}
}
