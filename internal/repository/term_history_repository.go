package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// TermHistoryRepository appends immutable term history rows. No update or
// delete methods exist: history is the durable audit trail of placements.
type TermHistoryRepository struct {
	db *sqlx.DB
}

// NewTermHistoryRepository creates a new term history repository.
func NewTermHistoryRepository(db *sqlx.DB) *TermHistoryRepository {
	return &TermHistoryRepository{db: db}
}

func (r *TermHistoryRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

// Insert writes one history row, typically inside a migration transaction.
func (r *TermHistoryRepository) Insert(ctx context.Context, q sqlx.ExtContext, history *models.StudentTermHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO student_term_histories (id, student_id, class_id, academic_year_id, promoted, final_average, created_at) VALUES (:id, :student_id, :class_id, :academic_year_id, :promoted, :final_average, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.execer(q), query, history); err != nil {
		return fmt.Errorf("insert term history: %w", err)
	}
	return nil
}

// ListByStudent returns a student's placement history, newest first.
func (r *TermHistoryRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentTermHistory, error) {
	const query = `SELECT id, student_id, class_id, academic_year_id, promoted, final_average, created_at FROM student_term_histories WHERE student_id = $1 ORDER BY created_at DESC`
	var histories []models.StudentTermHistory
	if err := r.db.SelectContext(ctx, &histories, query, studentID); err != nil {
		return nil, fmt.Errorf("list term histories by student: %w", err)
	}
	return histories, nil
}
