package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
)

type teachingUnitRepository interface {
	ListDetailsByClass(ctx context.Context, classID string) ([]models.TeachingUnitDetail, error)
	ExistsForSubject(ctx context.Context, classID, subjectID string) (bool, error)
	Create(ctx context.Context, unit *models.TeachingUnit) error
}

// AssignUnitRequest binds a subject and instructor to a class.
type AssignUnitRequest struct {
	SubjectID    string `json:"subject_id" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
}

// TeachingUnitService manages class/subject/instructor assignments.
type TeachingUnitService struct {
	repo      teachingUnitRepository
	classes   auditClassReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeachingUnitService constructs TeachingUnitService.
func NewTeachingUnitService(repo teachingUnitRepository, classes auditClassReader, validate *validator.Validate, logger *zap.Logger) *TeachingUnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeachingUnitService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// Assign adds a teaching unit to a class. A class holds at most one unit
// per subject; the one-session-per-day rule lives in the schedule resolver.
func (s *TeachingUnitService) Assign(ctx context.Context, classID string, req AssignUnitRequest) (*models.TeachingUnit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teaching unit payload")
	}
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	exists, err := s.repo.ExistsForSubject(ctx, classID, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject assignment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject already assigned to this class")
	}

	unit := &models.TeachingUnit{ClassID: classID, SubjectID: req.SubjectID, InstructorID: req.InstructorID}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teaching unit")
	}
	return unit, nil
}

// ListByClass returns a class's assignments with display names.
func (s *TeachingUnitService) ListByClass(ctx context.Context, classID string) ([]models.TeachingUnitDetail, error) {
	units, err := s.repo.ListDetailsByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teaching units")
	}
	return units, nil
}
