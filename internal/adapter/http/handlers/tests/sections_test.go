package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cadence/internal/adapter/http/dto"
	"cadence/internal/adapter/http/handlers"
	"cadence/internal/adapter/http/middleware"
	"cadence/internal/core/domain"
	"cadence/pkg/apierrors"
	"cadence/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sectionServiceMock struct {
	mock.Mock
}

func (m *sectionServiceMock) CreateSection(ctx context.Context, userID string, input domain.CreateSectionInput) (*domain.Section, error) {
	args := m.Called(ctx, userID, input)

	var section *domain.Section
	if value := args.Get(0); value != nil {
		section = value.(*domain.Section)
	}
	return section, args.Error(1)
}

func (m *sectionServiceMock) ListSections(ctx context.Context, userID string) ([]domain.Section, error) {
	args := m.Called(ctx, userID)

	var sections []domain.Section
	if value := args.Get(0); value != nil {
		sections = value.([]domain.Section)
	}
	return sections, args.Error(1)
}

func (m *sectionServiceMock) UpdateSection(ctx context.Context, userID, id string, changes domain.SectionChanges) (*domain.Section, error) {
	args := m.Called(ctx, userID, id, changes)

	var section *domain.Section
	if value := args.Get(0); value != nil {
		section = value.(*domain.Section)
	}
	return section, args.Error(1)
}

func (m *sectionServiceMock) DeleteSection(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func sampleSection() *domain.Section {
	return &domain.Section{
		ID:        "5b6d5a2e-8c14-4f60-a0f7-1d2e3c4b5a69",
		UserID:    "user-1",
		Name:      "Morning",
		Position:  1,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSectionHandler_CreateSection_Success(t *testing.T) {
	sectionSvc := new(sectionServiceMock)
	sectionSvc.On("CreateSection", mock.Anything, "user-1", domain.CreateSectionInput{Name: "Morning", Position: 1}).
		Return(sampleSection(), nil).Once()
	handler := handlers.NewSectionHandler(sectionSvc)

	router := gin.New()
	router.POST("/api/sections", middleware.LanguageMiddleware(), withUID("user-1"), handler.CreateSection)

	body, err := json.Marshal(map[string]any{"name": "Morning", "position": 1})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/sections", bytes.NewReader(body))
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var item dto.SectionItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "Morning", item.Name)
	require.Equal(t, 1, item.Position)
	sectionSvc.AssertExpectations(t)
}

func TestSectionHandler_CreateSection_MissingName(t *testing.T) {
	handler := handlers.NewSectionHandler(new(sectionServiceMock))

	router := gin.New()
	router.POST("/api/sections", middleware.LanguageMiddleware(), withUID("user-1"), handler.CreateSection)

	req := httptest.NewRequest(http.MethodPost, "/api/sections", bytes.NewReader([]byte(`{"position":1}`)))
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "invalid section payload", response.ErrDetails.Message)
}

func TestSectionHandler_ListSections_Success(t *testing.T) {
	sectionSvc := new(sectionServiceMock)
	sectionSvc.On("ListSections", mock.Anything, "user-1").
		Return([]domain.Section{*sampleSection()}, nil).Once()
	handler := handlers.NewSectionHandler(sectionSvc)

	router := gin.New()
	router.GET("/api/sections", middleware.LanguageMiddleware(), withUID("user-1"), handler.ListSections)

	req := httptest.NewRequest(http.MethodGet, "/api/sections", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []dto.SectionItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "Morning", items[0].Name)
	sectionSvc.AssertExpectations(t)
}

func TestSectionHandler_UpdateSection_NotFound(t *testing.T) {
	sectionSvc := new(sectionServiceMock)
	sectionSvc.On("UpdateSection", mock.Anything, "user-1", "missing", mock.Anything).
		Return(nil, domain.ErrSectionNotFound).Once()
	handler := handlers.NewSectionHandler(sectionSvc)

	router := gin.New()
	router.PATCH("/api/sections/:id", middleware.LanguageMiddleware(), withUID("user-1"), handler.UpdateSection)

	req := httptest.NewRequest(http.MethodPatch, "/api/sections/missing", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var response apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "section not found", response.ErrDetails.Message)
}

func TestSectionHandler_DeleteSection_Success(t *testing.T) {
	sectionSvc := new(sectionServiceMock)
	sectionSvc.On("DeleteSection", mock.Anything, "user-1", "5b6d5a2e-8c14-4f60-a0f7-1d2e3c4b5a69").
		Return(nil).Once()
	handler := handlers.NewSectionHandler(sectionSvc)

	router := gin.New()
	router.DELETE("/api/sections/:id", middleware.LanguageMiddleware(), withUID("user-1"), handler.DeleteSection)

	req := httptest.NewRequest(http.MethodDelete, "/api/sections/5b6d5a2e-8c14-4f60-a0f7-1d2e3c4b5a69", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	sectionSvc.AssertExpectations(t)
}
