package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cadence/internal/adapter/http/mapper"
	"cadence/internal/adapter/http/middleware"
	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
	"cadence/pkg/apierrors"
)

type ScheduleHandler struct {
	scheduleService ports.ScheduleService
}

func NewScheduleHandler(scheduleService ports.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// GetSchedule projects the caller's tasks over ?start=..&end=.. and
// returns a date-keyed map of occurrences.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	lang := middleware.GetLang(c)

	start, err := domain.ParseDate(c.Query("start"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
		)
		return
	}
	end, err := domain.ParseDate(c.Query("end"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
		)
		return
	}

	projection, err := h.scheduleService.ProjectRange(c.Request.Context(), middleware.GetUID(c), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidDate, lang),
			)
			return
		}
		zap.L().Error("failed to project schedule", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailProjectRange, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToScheduleResponse(projection))
}
