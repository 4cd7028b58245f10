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

type transitionService interface {
	Transition(ctx context.Context, req service.TransitionRequest) (*models.TransitionResult, error)
}

// TransitionHandler exposes the term transition workflow.
type TransitionHandler struct {
	service transitionService
}

// NewTransitionHandler constructs handler.
func NewTransitionHandler(svc transitionService) *TransitionHandler {
	return &TransitionHandler{service: svc}
}

// Transition godoc
// @Summary Move a class cohort to the second term of its academic year
// @Tags Transitions
// @Accept json
// @Produce json
// @Param payload body service.TransitionRequest true "Transition request"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /transitions [post]
func (h *TransitionHandler) Transition(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.service.Transition(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
