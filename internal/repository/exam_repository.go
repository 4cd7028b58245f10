package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// ExamRepository provides read access to exam submissions for audits and
// term-average computation.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new exam repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

// ListGradedCompletions returns one row per graded exam per (student,
// subject, category) for the students currently placed in the class.
func (r *ExamRepository) ListGradedCompletions(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string) ([]models.ExamCompletion, error) {
	const query = `SELECT DISTINCT e.student_id, e.subject_id, e.category
		FROM exam_records e
		JOIN students st ON st.id = e.student_id
		WHERE st.class_id = $1 AND e.academic_year_id = $2 AND e.graded = true`
	var completions []models.ExamCompletion
	if err := sqlx.SelectContext(ctx, r.execer(q), &completions, query, classID, academicYearID); err != nil {
		return nil, fmt.Errorf("list graded exam completions: %w", err)
	}
	return completions, nil
}

// ListGradedScores returns graded scores for the class's students restricted
// to the given required subjects. Feeds the per-student term average.
func (r *ExamRepository) ListGradedScores(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string, subjectIDs []string) ([]models.StudentScore, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT e.student_id, e.score
		FROM exam_records e
		JOIN students st ON st.id = e.student_id
		WHERE st.class_id = ? AND e.academic_year_id = ? AND e.graded = true AND e.subject_id IN (?)`,
		classID, academicYearID, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("build graded scores query: %w", err)
	}
	exec := r.execer(q)
	query = exec.Rebind(query)
	var scores []models.StudentScore
	if err := sqlx.SelectContext(ctx, exec, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("list graded scores: %w", err)
	}
	return scores, nil
}
