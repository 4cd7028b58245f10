package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

func TestExamRepositoryListGradedCompletions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExamRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "subject_id", "category"}).
		AddRow("student-a", "sub-math", "MIDTERM").
		AddRow("student-a", "sub-math", "FINAL")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT e.student_id, e.subject_id, e.category`)).
		WithArgs("class-1", "year-1").
		WillReturnRows(rows)

	completions, err := repo.ListGradedCompletions(context.Background(), nil, "class-1", "year-1")
	require.NoError(t, err)
	require.Len(t, completions, 2)
	assert.Equal(t, models.ExamMidterm, completions[0].Category)
	assert.Equal(t, models.ExamFinal, completions[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListGradedScores(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExamRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "score"}).
		AddRow("student-a", 80.0).
		AddRow("student-a", 90.0)
	mock.ExpectQuery(regexp.QuoteMeta(`e.subject_id IN (?, ?)`)).
		WithArgs("class-1", "year-1", "sub-math", "sub-phys").
		WillReturnRows(rows)

	scores, err := repo.ListGradedScores(context.Background(), nil, "class-1", "year-1", []string{"sub-math", "sub-phys"})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 80.0, scores[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListGradedScoresEmptySubjects(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExamRepository(db)

	scores, err := repo.ListGradedScores(context.Background(), nil, "class-1", "year-1", nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
	assert.NoError(t, mock.ExpectationsWereMet())
}
