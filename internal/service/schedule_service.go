package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
	"github.com/noah-isme/academic-lifecycle-api/pkg/timeofday"
)

type slotRepository interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	ListForUnitDay(ctx context.Context, q sqlx.ExtContext, teachingUnitID string, weekday int, lock bool) ([]models.SlotDetail, error)
	ListByInstructorDay(ctx context.Context, q sqlx.ExtContext, instructorID string, weekday int, lock bool) ([]models.SlotDetail, error)
	ListByClassDay(ctx context.Context, q sqlx.ExtContext, classID string, weekday int, lock bool) ([]models.SlotDetail, error)
	ListByClass(ctx context.Context, classID string) ([]models.SlotDetail, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.SlotDetail, error)
	Create(ctx context.Context, q sqlx.ExtContext, slot *models.ScheduleSlot) error
	Update(ctx context.Context, q sqlx.ExtContext, slot *models.ScheduleSlot) error
	Delete(ctx context.Context, id string) error
}

type teachingUnitReader interface {
	FindDetailByID(ctx context.Context, id string) (*models.TeachingUnitDetail, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// ProposeSlotRequest describes a proposed weekly slot for a teaching unit.
type ProposeSlotRequest struct {
	TeachingUnitID string `json:"teaching_unit_id" validate:"required"`
	Weekday        int    `json:"weekday" validate:"required,min=1,max=7"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
}

// ScheduleService validates and persists weekly schedule slots. The three
// conflict checks and the write run inside one transaction with the
// contended slot rows locked, so concurrent proposals serialize instead of
// both committing against a stale snapshot.
type ScheduleService struct {
	slots     slotRepository
	units     teachingUnitReader
	tx        txProvider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(slots slotRepository, units teachingUnitReader, tx txProvider, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{slots: slots, units: units, tx: tx, metrics: metrics, validator: validate, logger: logger}
}

// ProposeSlot validates a new slot against the committed timetable and
// persists it when no conflict exists.
func (s *ScheduleService) ProposeSlot(ctx context.Context, req ProposeSlotRequest) (*models.ScheduleSlot, error) {
	rng, unit, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	slot := &models.ScheduleSlot{
		TeachingUnitID: unit.ID,
		Weekday:        req.Weekday,
		StartMinute:    rng.Start.Minutes(),
		EndMinute:      rng.End.Minutes(),
	}

	err = s.withinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkConflicts(ctx, tx, unit, req.Weekday, rng, ""); err != nil {
			return err
		}
		if err := s.slots.Create(ctx, tx, slot); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule slot")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule_slot_created",
		zap.String("slot_id", slot.ID),
		zap.String("teaching_unit_id", unit.ID),
		zap.Int("weekday", req.Weekday),
		zap.String("time_range", rng.String()),
	)
	return slot, nil
}

// ReviseSlot re-validates and updates an existing slot. The slot's own
// identity is excluded from every conflict query.
func (s *ScheduleService) ReviseSlot(ctx context.Context, id string, req ProposeSlotRequest) (*models.ScheduleSlot, error) {
	existing, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}

	rng, unit, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	updated := &models.ScheduleSlot{
		ID:             existing.ID,
		TeachingUnitID: unit.ID,
		Weekday:        req.Weekday,
		StartMinute:    rng.Start.Minutes(),
		EndMinute:      rng.End.Minutes(),
		CreatedAt:      existing.CreatedAt,
	}

	err = s.withinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkConflicts(ctx, tx, unit, req.Weekday, rng, existing.ID); err != nil {
			return err
		}
		if err := s.slots.Update(ctx, tx, updated); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule slot")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSlot removes a slot from the timetable.
func (s *ScheduleService) DeleteSlot(ctx context.Context, id string) error {
	if _, err := s.slots.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}
	if err := s.slots.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule slot")
	}
	return nil
}

// ListByClass returns a class's weekly timetable.
func (s *ScheduleService) ListByClass(ctx context.Context, classID string) ([]models.SlotDetail, error) {
	slots, err := s.slots.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class timetable")
	}
	return slots, nil
}

// ListByInstructor returns an instructor's weekly timetable.
func (s *ScheduleService) ListByInstructor(ctx context.Context, instructorID string) ([]models.SlotDetail, error) {
	slots, err := s.slots.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructor timetable")
	}
	return slots, nil
}

func (s *ScheduleService) prepare(ctx context.Context, req ProposeSlotRequest) (timeofday.Range, *models.TeachingUnitDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return timeofday.Range{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	rng, err := timeofday.ParseRange(req.StartTime, req.EndTime)
	if err != nil {
		return timeofday.Range{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot time range")
	}
	unit, err := s.units.FindDetailByID(ctx, req.TeachingUnitID)
	if err != nil {
		if err == sql.ErrNoRows {
			return timeofday.Range{}, nil, appErrors.Clone(appErrors.ErrNotFound, "teaching unit not found")
		}
		return timeofday.Range{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching unit")
	}
	return rng, unit, nil
}

func (s *ScheduleService) withinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}

// checkConflicts applies the three conflict rules in order; the first
// failure wins and nothing is written.
func (s *ScheduleService) checkConflicts(ctx context.Context, q sqlx.ExtContext, unit *models.TeachingUnitDetail, weekday int, rng timeofday.Range, ignoreID string) error {
	unitSlots, err := s.slots.ListForUnitDay(ctx, q, unit.ID, weekday, true)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicate subject")
	}
	for _, item := range unitSlots {
		if item.ID == ignoreID {
			continue
		}
		return s.reject(models.ConflictDuplicateSubject,
			fmt.Sprintf("%s is already scheduled for %s on this day", unit.SubjectName, unit.ClassName), item)
	}

	instructorSlots, err := s.slots.ListByInstructorDay(ctx, q, unit.InstructorID, weekday, true)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor availability")
	}
	for _, item := range instructorSlots {
		if item.ID == ignoreID {
			continue
		}
		if rng.Overlaps(item.Range()) {
			return s.reject(models.ConflictInstructor,
				fmt.Sprintf("%s already teaches %s for %s at %s", unit.InstructorName, item.SubjectName, item.ClassName, item.Range()), item)
		}
	}

	classSlots, err := s.slots.ListByClassDay(ctx, q, unit.ClassID, weekday, true)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class availability")
	}
	for _, item := range classSlots {
		if item.ID == ignoreID {
			continue
		}
		if rng.Overlaps(item.Range()) {
			return s.reject(models.ConflictClass,
				fmt.Sprintf("%s already has %s at %s", unit.ClassName, item.SubjectName, item.Range()), item)
		}
	}

	return nil
}

func (s *ScheduleService) reject(dimension, message string, existing models.SlotDetail) error {
	s.metrics.IncScheduleConflict(dimension)
	domainErr := &models.SlotConflictError{
		Message: message,
		Conflict: models.SlotConflict{
			Dimension:      dimension,
			SlotID:         existing.ID,
			ClassName:      existing.ClassName,
			SubjectName:    existing.SubjectName,
			InstructorName: existing.InstructorName,
			Weekday:        existing.Weekday,
			TimeRange:      existing.Range().String(),
		},
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("schedule conflict: %s", message))
}
