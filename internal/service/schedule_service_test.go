package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
)

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (*txProviderMock, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func (p *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return p.db.BeginTxx(ctx, opts)
}

type slotRepoStub struct {
	existing        *models.ScheduleSlot
	findErr         error
	unitSlots       []models.SlotDetail
	instructorSlots []models.SlotDetail
	classSlots      []models.SlotDetail
	created         []models.ScheduleSlot
	updated         []models.ScheduleSlot
	deleted         []string
}

func (s *slotRepoStub) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.existing, nil
}

func (s *slotRepoStub) ListForUnitDay(ctx context.Context, q sqlx.ExtContext, teachingUnitID string, weekday int, lock bool) ([]models.SlotDetail, error) {
	return s.unitSlots, nil
}

func (s *slotRepoStub) ListByInstructorDay(ctx context.Context, q sqlx.ExtContext, instructorID string, weekday int, lock bool) ([]models.SlotDetail, error) {
	return s.instructorSlots, nil
}

func (s *slotRepoStub) ListByClassDay(ctx context.Context, q sqlx.ExtContext, classID string, weekday int, lock bool) ([]models.SlotDetail, error) {
	return s.classSlots, nil
}

func (s *slotRepoStub) ListByClass(ctx context.Context, classID string) ([]models.SlotDetail, error) {
	return nil, nil
}

func (s *slotRepoStub) ListByInstructor(ctx context.Context, instructorID string) ([]models.SlotDetail, error) {
	return nil, nil
}

func (s *slotRepoStub) Create(ctx context.Context, q sqlx.ExtContext, slot *models.ScheduleSlot) error {
	slot.ID = "slot-new"
	s.created = append(s.created, *slot)
	return nil
}

func (s *slotRepoStub) Update(ctx context.Context, q sqlx.ExtContext, slot *models.ScheduleSlot) error {
	s.updated = append(s.updated, *slot)
	return nil
}

func (s *slotRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type unitReaderStub struct {
	unit *models.TeachingUnitDetail
	err  error
}

func (s *unitReaderStub) FindDetailByID(ctx context.Context, id string) (*models.TeachingUnitDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.unit, nil
}

func mathUnit() *models.TeachingUnitDetail {
	return &models.TeachingUnitDetail{
		TeachingUnit:   models.TeachingUnit{ID: "unit-math", ClassID: "class-x", SubjectID: "sub-math", InstructorID: "instr-1"},
		SubjectName:    "Math",
		InstructorName: "Ms. Rahma",
		ClassName:      "Grade 11-A",
	}
}

func detailSlot(id string, weekday, startMinute, endMinute int, classID, className, subjectName string) models.SlotDetail {
	return models.SlotDetail{
		ScheduleSlot:   models.ScheduleSlot{ID: id, Weekday: weekday, StartMinute: startMinute, EndMinute: endMinute},
		ClassID:        classID,
		ClassName:      className,
		SubjectName:    subjectName,
		InstructorID:   "instr-1",
		InstructorName: "Ms. Rahma",
	}
}

func newScheduleFixture(t *testing.T, repo *slotRepoStub) (*ScheduleService, sqlmock.Sqlmock) {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	svc := NewScheduleService(repo, &unitReaderStub{unit: mathUnit()}, tx, nil, nil, nil)
	return svc, mock
}

func conflictDimension(t *testing.T, err error) string {
	t.Helper()
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	var domainErr *models.SlotConflictError
	require.True(t, errors.As(err, &domainErr))
	return domainErr.Conflict.Dimension
}

func TestScheduleServiceProposeSlotSuccess(t *testing.T) {
	repo := &slotRepoStub{}
	svc, mock := newScheduleFixture(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	slot, err := svc.ProposeSlot(context.Background(), ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "08:00",
		EndTime:        "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 480, slot.StartMinute)
	assert.Equal(t, 540, slot.EndMinute)
	require.Len(t, repo.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceProposeSlotRejectsInstructorOverlap(t *testing.T) {
	repo := &slotRepoStub{
		instructorSlots: []models.SlotDetail{
			detailSlot("slot-1", 1, 480, 540, "class-y", "Grade 11-B", "Physics"),
		},
	}
	svc, mock := newScheduleFixture(t, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ProposeSlot(context.Background(), ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "08:30",
		EndTime:        "09:30",
	})
	require.Error(t, err)
	assert.Equal(t, models.ConflictInstructor, conflictDimension(t, err))
	assert.Empty(t, repo.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceProposeSlotAllowsTouchingBoundary(t *testing.T) {
	repo := &slotRepoStub{
		instructorSlots: []models.SlotDetail{
			detailSlot("slot-1", 1, 480, 540, "class-y", "Grade 11-B", "Physics"),
		},
	}
	svc, mock := newScheduleFixture(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.ProposeSlot(context.Background(), ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "09:00",
		EndTime:        "10:00",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceProposeSlotRejectsDuplicateSubjectRegardlessOfTime(t *testing.T) {
	repo := &slotRepoStub{
		unitSlots: []models.SlotDetail{
			detailSlot("slot-1", 1, 480, 540, "class-x", "Grade 11-A", "Math"),
		},
	}
	svc, mock := newScheduleFixture(t, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	// Non-overlapping time on the same day is still a duplicate session.
	_, err := svc.ProposeSlot(context.Background(), ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "13:00",
		EndTime:        "14:00",
	})
	require.Error(t, err)
	assert.Equal(t, models.ConflictDuplicateSubject, conflictDimension(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceProposeSlotRejectsClassDoubleBooking(t *testing.T) {
	other := detailSlot("slot-2", 1, 500, 560, "class-x", "Grade 11-A", "Biology")
	other.InstructorID = "instr-2"
	other.InstructorName = "Mr. Yusuf"
	repo := &slotRepoStub{classSlots: []models.SlotDetail{other}}
	svc, mock := newScheduleFixture(t, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ProposeSlot(context.Background(), ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "08:00",
		EndTime:        "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, models.ConflictClass, conflictDimension(t, err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceProposeSlotValidation(t *testing.T) {
	repo := &slotRepoStub{}
	svc, _ := newScheduleFixture(t, repo)

	cases := []ProposeSlotRequest{
		{TeachingUnitID: "unit-math", Weekday: 8, StartTime: "08:00", EndTime: "09:00"},
		{TeachingUnitID: "unit-math", Weekday: 1, StartTime: "8am", EndTime: "09:00"},
		{TeachingUnitID: "unit-math", Weekday: 1, StartTime: "10:00", EndTime: "09:00"},
		{Weekday: 1, StartTime: "08:00", EndTime: "09:00"},
	}
	for _, req := range cases {
		_, err := svc.ProposeSlot(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, repo.created)
}

func TestScheduleServiceReviseSlotExcludesSelf(t *testing.T) {
	self := detailSlot("slot-self", 1, 480, 540, "class-x", "Grade 11-A", "Math")
	repo := &slotRepoStub{
		existing:        &models.ScheduleSlot{ID: "slot-self", TeachingUnitID: "unit-math", Weekday: 1, StartMinute: 480, EndMinute: 540},
		unitSlots:       []models.SlotDetail{self},
		instructorSlots: []models.SlotDetail{self},
		classSlots:      []models.SlotDetail{self},
	}
	svc, mock := newScheduleFixture(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	slot, err := svc.ReviseSlot(context.Background(), "slot-self", ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "08:30",
		EndTime:        "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "slot-self", slot.ID)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, 510, repo.updated[0].StartMinute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceReviseSlotNotFound(t *testing.T) {
	repo := &slotRepoStub{findErr: sql.ErrNoRows}
	svc, _ := newScheduleFixture(t, repo)

	_, err := svc.ReviseSlot(context.Background(), "missing", ProposeSlotRequest{
		TeachingUnitID: "unit-math",
		Weekday:        1,
		StartTime:      "08:00",
		EndTime:        "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
