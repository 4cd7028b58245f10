package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	"github.com/noah-isme/academic-lifecycle-api/internal/service"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
	"github.com/noah-isme/academic-lifecycle-api/pkg/response"
)

type classService interface {
	Create(ctx context.Context, req service.CreateClassRequest) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type teachingUnitService interface {
	Assign(ctx context.Context, classID string, req service.AssignUnitRequest) (*models.TeachingUnit, error)
	ListByClass(ctx context.Context, classID string) ([]models.TeachingUnitDetail, error)
}

// ClassHandler manages class roster endpoints.
type ClassHandler struct {
	classes classService
	units   teachingUnitService
}

// NewClassHandler constructs handler.
func NewClassHandler(classes classService, units teachingUnitService) *ClassHandler {
	return &ClassHandler{classes: classes, units: units}
}

// Create godoc
// @Summary Create a class section
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// List godoc
// @Summary List class sections
// @Tags Classes
// @Produce json
// @Param academicYearId query string false "Filter by academic year"
// @Param programId query string false "Filter by program"
// @Param search query string false "Name search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	var filter models.ClassFilter
	filter.AcademicYearID = c.Query("academicYearId")
	filter.ProgramID = c.Query("programId")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	classes, pagination, err := h.classes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// Get godoc
// @Summary Get one class section
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// AssignUnit godoc
// @Summary Assign a subject and instructor to a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.AssignUnitRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/teaching-units [post]
func (h *ClassHandler) AssignUnit(c *gin.Context) {
	var req service.AssignUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	unit, err := h.units.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// ListUnits godoc
// @Summary List a class's teaching units
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/teaching-units [get]
func (h *ClassHandler) ListUnits(c *gin.Context) {
	units, err := h.units.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, nil)
}
