package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindByIdentity(ctx context.Context, q sqlx.ExtContext, name, programID, academicYearID string) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	Create(ctx context.Context, q sqlx.ExtContext, class *models.Class) error
}

// CreateClassRequest describes payload for creating a class section.
type CreateClassRequest struct {
	Name              string  `json:"name" validate:"required"`
	ProgramID         string  `json:"program_id" validate:"required"`
	AcademicYearID    string  `json:"academic_year_id" validate:"required"`
	HomeroomTeacherID *string `json:"homeroom_teacher_id"`
}

// ClassService manages class sections.
type ClassService struct {
	repo      classRepository
	years     yearReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, years yearReader, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, years: years, validator: validate, logger: logger}
}

// Create registers a class, enforcing uniqueness per (name, program, year).
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if _, err := s.years.FindByID(ctx, req.AcademicYearID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}
	if _, err := s.repo.FindByIdentity(ctx, nil, req.Name, req.ProgramID, req.AcademicYearID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class already exists for this program and academic year")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class identity")
	}

	class := &models.Class{
		Name:              req.Name,
		ProgramID:         req.ProgramID,
		AcademicYearID:    req.AcademicYearID,
		HomeroomTeacherID: req.HomeroomTeacherID,
	}
	if err := s.repo.Create(ctx, nil, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// List returns classes with pagination metadata.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return classes, pagination, nil
}

// FindByID loads one class.
func (s *ClassService) FindByID(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}
