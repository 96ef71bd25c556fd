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

type SectionHandler struct {
	sectionService ports.SectionService
}

func NewSectionHandler(sectionService ports.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

func (h *SectionHandler) CreateSection(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidSectionPayload, lang),
		)
		return
	}

	input := domain.CreateSectionInput{Name: req.Name}
	if req.ID != nil {
		input.ID = *req.ID
	}
	if req.Position != nil {
		input.Position = *req.Position
	}

	section, err := h.sectionService.CreateSection(c.Request.Context(), middleware.GetUID(c), input)
	if err != nil {
		zap.L().Error("failed to create section", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailCreateSection, lang),
		)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToSectionItem(*section))
}

func (h *SectionHandler) ListSections(c *gin.Context) {
	lang := middleware.GetLang(c)

	sections, err := h.sectionService.ListSections(c.Request.Context(), middleware.GetUID(c))
	if err != nil {
		zap.L().Error("failed to list sections", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListSection, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToSectionItems(sections))
}

func (h *SectionHandler) UpdateSection(c *gin.Context) {
	lang := middleware.GetLang(c)
	sectionID := c.Param("id")

	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidSectionPayload, lang),
		)
		return
	}

	changes := domain.SectionChanges{Name: req.Name, Position: req.Position}
	section, err := h.sectionService.UpdateSection(c.Request.Context(), middleware.GetUID(c), sectionID, changes)
	if err != nil {
		if errors.Is(err, domain.ErrSectionNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgSectionNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to update section", zap.String("section_id", sectionID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailUpdateSection, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToSectionItem(*section))
}

func (h *SectionHandler) DeleteSection(c *gin.Context) {
	lang := middleware.GetLang(c)
	sectionID := c.Param("id")

	err := h.sectionService.DeleteSection(c.Request.Context(), middleware.GetUID(c), sectionID)
	if err != nil {
		if errors.Is(err, domain.ErrSectionNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgSectionNotFound, lang),
			)
			return
		}
		zap.L().Error("failed to delete section", zap.String("section_id", sectionID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailDeleteSection, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}
