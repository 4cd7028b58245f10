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

func slotDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "teaching_unit_id", "weekday", "start_minute", "end_minute", "created_at", "updated_at",
		"class_id", "class_name", "subject_id", "subject_name", "instructor_id", "instructor_name",
	})
}

func addSlotDetail(rows *sqlmock.Rows, id string, weekday, start, end int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "unit-1", weekday, start, end, now, now,
		"class-1", "Grade 11-A", "sub-math", "Math", "instr-1", "Ms. Rahma")
}

func TestScheduleSlotRepositoryListByInstructorDayLocks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleSlotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE tu.instructor_id = $1 AND ss.weekday = $2 FOR UPDATE OF ss`)).
		WithArgs("instr-1", 1).
		WillReturnRows(addSlotDetail(slotDetailRows(), "slot-1", 1, 480, 540))

	slots, err := repo.ListByInstructorDay(context.Background(), nil, "instr-1", 1, true)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 480, slots[0].StartMinute)
	assert.Equal(t, "Ms. Rahma", slots[0].InstructorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryListForUnitDayWithoutLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleSlotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE ss.teaching_unit_id = $1 AND ss.weekday = $2`)).
		WithArgs("unit-1", 3).
		WillReturnRows(slotDetailRows())

	slots, err := repo.ListForUnitDay(context.Background(), nil, "unit-1", 3, false)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryListByClass(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleSlotRepository(db)

	rows := addSlotDetail(slotDetailRows(), "slot-1", 1, 480, 540)
	rows = addSlotDetail(rows, "slot-2", 1, 540, 600)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE tu.class_id = $1 ORDER BY ss.weekday ASC, ss.start_minute ASC`)).
		WithArgs("class-1").
		WillReturnRows(rows)

	slots, err := repo.ListByClass(context.Background(), "class-1")
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryCreateInsideTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schedule_slots`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	slot := &models.ScheduleSlot{TeachingUnitID: "unit-1", Weekday: 1, StartMinute: 480, EndMinute: 540}
	require.NoError(t, repo.Create(context.Background(), tx, slot))
	assert.NotEmpty(t, slot.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE schedule_slots SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	slot := &models.ScheduleSlot{ID: "slot-1", TeachingUnitID: "unit-1", Weekday: 2, StartMinute: 600, EndMinute: 660}
	require.NoError(t, repo.Update(context.Background(), nil, slot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedule_slots WHERE id = $1`)).
		WithArgs("slot-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "slot-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
