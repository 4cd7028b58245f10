package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// StudentRepository provides persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

const studentColumns = "id, full_name, status, class_id, created_at, updated_at"

// FindByID loads a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListActiveByClass returns the active students currently placed in a class.
// When lock is set the rows are locked for the duration of the caller's
// transaction so a migration serializes against concurrent record edits.
func (r *StudentRepository) ListActiveByClass(ctx context.Context, q sqlx.ExtContext, classID string, lock bool) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE class_id = $1 AND status = $2 ORDER BY full_name ASC`, studentColumns)
	if lock {
		query += " FOR UPDATE"
	}
	var students []models.Student
	if err := sqlx.SelectContext(ctx, r.execer(q), &students, query, classID, models.StudentActive); err != nil {
		return nil, fmt.Errorf("list active students by class: %w", err)
	}
	return students, nil
}

// UpdateClass moves a student's current placement to another class.
func (r *StudentRepository) UpdateClass(ctx context.Context, q sqlx.ExtContext, studentID, classID string) error {
	const query = `UPDATE students SET class_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.execer(q).ExecContext(ctx, query, classID, time.Now().UTC(), studentID); err != nil {
		return fmt.Errorf("update student class: %w", err)
	}
	return nil
}
