package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

func TestTermHistoryRepositoryInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTermHistoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO student_term_histories`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	avg := 85.5
	history := &models.StudentTermHistory{
		StudentID:      "student-a",
		ClassID:        "class-1",
		AcademicYearID: "year-1",
		Promoted:       true,
		FinalAverage:   &avg,
	}
	require.NoError(t, repo.Insert(context.Background(), nil, history))
	assert.NotEmpty(t, history.ID)
	assert.False(t, history.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermHistoryRepositoryInsertInsideTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTermHistoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO student_term_histories`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	history := &models.StudentTermHistory{StudentID: "student-a", ClassID: "class-1", AcademicYearID: "year-1", Promoted: true}
	require.NoError(t, repo.Insert(context.Background(), tx, history))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermHistoryRepositoryListByStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTermHistoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "class_id", "academic_year_id", "promoted", "final_average", "created_at"}).
		AddRow("hist-2", "student-a", "class-2", "year-2", true, 88.0, now).
		AddRow("hist-1", "student-a", "class-1", "year-1", true, 85.5, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM student_term_histories WHERE student_id = $1 ORDER BY created_at DESC`)).
		WithArgs("student-a").
		WillReturnRows(rows)

	histories, err := repo.ListByStudent(context.Background(), "student-a")
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, "class-2", histories[0].ClassID)
	require.NotNil(t, histories[0].FinalAverage)
	assert.InDelta(t, 88.0, *histories[0].FinalAverage, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
