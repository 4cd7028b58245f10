package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// ScheduleSlotRepository provides persistence for weekly schedule slots.
type ScheduleSlotRepository struct {
	db *sqlx.DB
}

// NewScheduleSlotRepository creates a new schedule slot repository.
func NewScheduleSlotRepository(db *sqlx.DB) *ScheduleSlotRepository {
	return &ScheduleSlotRepository{db: db}
}

func (r *ScheduleSlotRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

const slotDetailSelect = `SELECT ss.id, ss.teaching_unit_id, ss.weekday, ss.start_minute, ss.end_minute, ss.created_at, ss.updated_at,
	tu.class_id, c.name AS class_name, tu.subject_id, s.name AS subject_name, tu.instructor_id, i.full_name AS instructor_name
	FROM schedule_slots ss
	JOIN teaching_units tu ON tu.id = ss.teaching_unit_id
	JOIN classes c ON c.id = tu.class_id
	JOIN subjects s ON s.id = tu.subject_id
	JOIN instructors i ON i.id = tu.instructor_id`

// FindByID loads a slot by id.
func (r *ScheduleSlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	const query = `SELECT id, teaching_unit_id, weekday, start_minute, end_minute, created_at, updated_at FROM schedule_slots WHERE id = $1`
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListForUnitDay returns the slots a teaching unit already holds on a
// weekday. With lock set the slot rows stay locked until the caller's
// transaction ends, serializing concurrent proposals.
func (r *ScheduleSlotRepository) ListForUnitDay(ctx context.Context, q sqlx.ExtContext, teachingUnitID string, weekday int, lock bool) ([]models.SlotDetail, error) {
	query := slotDetailSelect + ` WHERE ss.teaching_unit_id = $1 AND ss.weekday = $2`
	if lock {
		query += " FOR UPDATE OF ss"
	}
	var slots []models.SlotDetail
	if err := sqlx.SelectContext(ctx, r.execer(q), &slots, query, teachingUnitID, weekday); err != nil {
		return nil, fmt.Errorf("list slots for unit day: %w", err)
	}
	return slots, nil
}

// ListByInstructorDay returns every slot an instructor teaches on a weekday,
// across all classes.
func (r *ScheduleSlotRepository) ListByInstructorDay(ctx context.Context, q sqlx.ExtContext, instructorID string, weekday int, lock bool) ([]models.SlotDetail, error) {
	query := slotDetailSelect + ` WHERE tu.instructor_id = $1 AND ss.weekday = $2`
	if lock {
		query += " FOR UPDATE OF ss"
	}
	var slots []models.SlotDetail
	if err := sqlx.SelectContext(ctx, r.execer(q), &slots, query, instructorID, weekday); err != nil {
		return nil, fmt.Errorf("list slots by instructor day: %w", err)
	}
	return slots, nil
}

// ListByClassDay returns every slot scheduled for a class on a weekday.
func (r *ScheduleSlotRepository) ListByClassDay(ctx context.Context, q sqlx.ExtContext, classID string, weekday int, lock bool) ([]models.SlotDetail, error) {
	query := slotDetailSelect + ` WHERE tu.class_id = $1 AND ss.weekday = $2`
	if lock {
		query += " FOR UPDATE OF ss"
	}
	var slots []models.SlotDetail
	if err := sqlx.SelectContext(ctx, r.execer(q), &slots, query, classID, weekday); err != nil {
		return nil, fmt.Errorf("list slots by class day: %w", err)
	}
	return slots, nil
}

// ListByClass returns a class's full weekly timetable.
func (r *ScheduleSlotRepository) ListByClass(ctx context.Context, classID string) ([]models.SlotDetail, error) {
	query := slotDetailSelect + ` WHERE tu.class_id = $1 ORDER BY ss.weekday ASC, ss.start_minute ASC`
	var slots []models.SlotDetail
	if err := r.db.SelectContext(ctx, &slots, query, classID); err != nil {
		return nil, fmt.Errorf("list slots by class: %w", err)
	}
	return slots, nil
}

// ListByInstructor returns an instructor's full weekly timetable.
func (r *ScheduleSlotRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.SlotDetail, error) {
	query := slotDetailSelect + ` WHERE tu.instructor_id = $1 ORDER BY ss.weekday ASC, ss.start_minute ASC`
	var slots []models.SlotDetail
	if err := r.db.SelectContext(ctx, &slots, query, instructorID); err != nil {
		return nil, fmt.Errorf("list slots by instructor: %w", err)
	}
	return slots, nil
}

// Create stores a new slot inside the caller's transaction.
func (r *ScheduleSlotRepository) Create(ctx context.Context, q sqlx.ExtContext, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO schedule_slots (id, teaching_unit_id, weekday, start_minute, end_minute, created_at, updated_at) VALUES (:id, :teaching_unit_id, :weekday, :start_minute, :end_minute, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.execer(q), query, slot); err != nil {
		return fmt.Errorf("create schedule slot: %w", err)
	}
	return nil
}

// Update modifies a slot inside the caller's transaction.
func (r *ScheduleSlotRepository) Update(ctx context.Context, q sqlx.ExtContext, slot *models.ScheduleSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_slots SET teaching_unit_id = :teaching_unit_id, weekday = :weekday, start_minute = :start_minute, end_minute = :end_minute, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.execer(q), query, slot); err != nil {
		return fmt.Errorf("update schedule slot: %w", err)
	}
	return nil
}

// Delete removes a slot by id.
func (r *ScheduleSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule slot: %w", err)
	}
	return nil
}
