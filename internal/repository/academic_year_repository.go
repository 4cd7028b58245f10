package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// AcademicYearRepository provides read access to academic year records.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository creates a new academic year repository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// FindByID loads an academic year by id.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	const query = `SELECT id, start_year, end_year, term, is_active, created_at, updated_at FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// List returns all academic years ordered by start year and term.
func (r *AcademicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	const query = `SELECT id, start_year, end_year, term, is_active, created_at, updated_at FROM academic_years ORDER BY start_year ASC, term ASC`
	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, query); err != nil {
		return nil, err
	}
	return years, nil
}
