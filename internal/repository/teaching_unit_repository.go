package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// TeachingUnitRepository provides persistence for class/subject/instructor
// assignments.
type TeachingUnitRepository struct {
	db *sqlx.DB
}

// NewTeachingUnitRepository creates a new teaching unit repository.
func NewTeachingUnitRepository(db *sqlx.DB) *TeachingUnitRepository {
	return &TeachingUnitRepository{db: db}
}

func (r *TeachingUnitRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

// FindDetailByID loads a unit joined with class, subject and instructor names.
func (r *TeachingUnitRepository) FindDetailByID(ctx context.Context, id string) (*models.TeachingUnitDetail, error) {
	const query = `SELECT tu.id, tu.class_id, tu.subject_id, tu.instructor_id, tu.created_at, tu.updated_at,
		s.name AS subject_name, i.full_name AS instructor_name, c.name AS class_name
		FROM teaching_units tu
		JOIN subjects s ON s.id = tu.subject_id
		JOIN instructors i ON i.id = tu.instructor_id
		JOIN classes c ON c.id = tu.class_id
		WHERE tu.id = $1`
	var unit models.TeachingUnitDetail
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListByClass returns the raw units assigned to a class.
func (r *TeachingUnitRepository) ListByClass(ctx context.Context, q sqlx.ExtContext, classID string) ([]models.TeachingUnit, error) {
	const query = `SELECT id, class_id, subject_id, instructor_id, created_at, updated_at FROM teaching_units WHERE class_id = $1 ORDER BY created_at ASC`
	var units []models.TeachingUnit
	if err := sqlx.SelectContext(ctx, r.execer(q), &units, query, classID); err != nil {
		return nil, fmt.Errorf("list teaching units by class: %w", err)
	}
	return units, nil
}

// ListDetailsByClass returns units with display names for API responses.
func (r *TeachingUnitRepository) ListDetailsByClass(ctx context.Context, classID string) ([]models.TeachingUnitDetail, error) {
	const query = `SELECT tu.id, tu.class_id, tu.subject_id, tu.instructor_id, tu.created_at, tu.updated_at,
		s.name AS subject_name, i.full_name AS instructor_name, c.name AS class_name
		FROM teaching_units tu
		JOIN subjects s ON s.id = tu.subject_id
		JOIN instructors i ON i.id = tu.instructor_id
		JOIN classes c ON c.id = tu.class_id
		WHERE tu.class_id = $1
		ORDER BY s.name ASC`
	var units []models.TeachingUnitDetail
	if err := r.db.SelectContext(ctx, &units, query, classID); err != nil {
		return nil, fmt.Errorf("list teaching unit details by class: %w", err)
	}
	return units, nil
}

// RequiredSubjects returns the deduplicated subjects a class is taught,
// which defines the completeness audit's required set.
func (r *TeachingUnitRepository) RequiredSubjects(ctx context.Context, q sqlx.ExtContext, classID string) ([]models.SubjectRef, error) {
	const query = `SELECT DISTINCT s.id, s.name FROM teaching_units tu JOIN subjects s ON s.id = tu.subject_id WHERE tu.class_id = $1 ORDER BY s.name ASC`
	var subjects []models.SubjectRef
	if err := sqlx.SelectContext(ctx, r.execer(q), &subjects, query, classID); err != nil {
		return nil, fmt.Errorf("list required subjects: %w", err)
	}
	return subjects, nil
}

// ExistsForSubject reports whether the class already has a unit for the subject.
func (r *TeachingUnitRepository) ExistsForSubject(ctx context.Context, classID, subjectID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teaching_units WHERE class_id = $1 AND subject_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, classID, subjectID); err != nil {
		return false, fmt.Errorf("check teaching unit existence: %w", err)
	}
	return exists, nil
}

// Create stores a new teaching unit.
func (r *TeachingUnitRepository) Create(ctx context.Context, unit *models.TeachingUnit) error {
	return r.insert(ctx, r.db, unit)
}

// BulkCreate inserts units inside the caller's transaction. Used by term
// transitions to propagate assignments to a freshly created class.
func (r *TeachingUnitRepository) BulkCreate(ctx context.Context, q sqlx.ExtContext, units []models.TeachingUnit) error {
	exec := r.execer(q)
	for i := range units {
		if err := r.insert(ctx, exec, &units[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TeachingUnitRepository) insert(ctx context.Context, exec sqlx.ExtContext, unit *models.TeachingUnit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.UpdatedAt = now

	const query = `INSERT INTO teaching_units (id, class_id, subject_id, instructor_id, created_at, updated_at) VALUES (:id, :class_id, :subject_id, :instructor_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, unit); err != nil {
		return fmt.Errorf("insert teaching unit: %w", err)
	}
	return nil
}
