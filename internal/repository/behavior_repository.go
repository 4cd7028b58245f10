package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BehaviorRepository provides read access to behavior records for the
// completeness audit.
type BehaviorRepository struct {
	db *sqlx.DB
}

// NewBehaviorRepository creates a new behavior repository.
func NewBehaviorRepository(db *sqlx.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

func (r *BehaviorRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

// ListStudentIDsWithRecord returns the ids of students holding a behavior
// record for the class and academic year.
func (r *BehaviorRepository) ListStudentIDsWithRecord(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string) ([]string, error) {
	const query = `SELECT student_id FROM behavior_records WHERE class_id = $1 AND academic_year_id = $2`
	var ids []string
	if err := sqlx.SelectContext(ctx, r.execer(q), &ids, query, classID, academicYearID); err != nil {
		return nil, fmt.Errorf("list behavior record holders: %w", err)
	}
	return ids, nil
}
