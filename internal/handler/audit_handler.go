package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
	"github.com/noah-isme/academic-lifecycle-api/pkg/response"
)

type auditService interface {
	Audit(ctx context.Context, classID, academicYearID string) (*models.TermReport, error)
}

// AuditHandler exposes the completeness audit as a pre-flight checklist.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(svc auditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// Audit godoc
// @Summary Run the completeness audit for a class and academic year
// @Tags Transitions
// @Produce json
// @Param id path string true "Class ID"
// @Param academicYearId query string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/audit [get]
func (h *AuditHandler) Audit(c *gin.Context) {
	academicYearID := c.Query("academicYearId")
	if academicYearID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academicYearId is required"))
		return
	}
	report, err := h.service.Audit(c.Request.Context(), c.Param("id"), academicYearID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
