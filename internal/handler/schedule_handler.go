package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	"github.com/noah-isme/academic-lifecycle-api/internal/service"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
	"github.com/noah-isme/academic-lifecycle-api/pkg/response"
)

type scheduleService interface {
	ProposeSlot(ctx context.Context, req service.ProposeSlotRequest) (*models.ScheduleSlot, error)
	ReviseSlot(ctx context.Context, id string, req service.ProposeSlotRequest) (*models.ScheduleSlot, error)
	DeleteSlot(ctx context.Context, id string) error
	ListByClass(ctx context.Context, classID string) ([]models.SlotDetail, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.SlotDetail, error)
}

// ScheduleHandler manages timetable endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// ProposeSlot godoc
// @Summary Propose a weekly schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.ProposeSlotRequest true "Slot proposal"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule-slots [post]
func (h *ScheduleHandler) ProposeSlot(c *gin.Context) {
	var req service.ProposeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	slot, err := h.service.ProposeSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// ReviseSlot godoc
// @Summary Revise an existing schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.ProposeSlotRequest true "Slot revision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule-slots/{id} [put]
func (h *ScheduleHandler) ReviseSlot(c *gin.Context) {
	var req service.ProposeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	slot, err := h.service.ReviseSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// DeleteSlot godoc
// @Summary Delete a schedule slot
// @Tags Schedule
// @Param id path string true "Slot ID"
// @Success 204
// @Router /schedule-slots/{id} [delete]
func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListByClass godoc
// @Summary List a class's weekly timetable
// @Tags Schedule
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule [get]
func (h *ScheduleHandler) ListByClass(c *gin.Context) {
	slots, err := h.service.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ListByInstructor godoc
// @Summary List an instructor's weekly timetable
// @Tags Schedule
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/schedule [get]
func (h *ScheduleHandler) ListByInstructor(c *gin.Context) {
	slots, err := h.service.ListByInstructor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
