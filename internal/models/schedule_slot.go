package models

import (
	"fmt"
	"time"

	"github.com/noah-isme/academic-lifecycle-api/pkg/timeofday"
)

// ScheduleSlot is one weekly session for a teaching unit. Weekday follows
// ISO numbering (1 = Monday .. 7 = Sunday). Boundaries are stored as minutes
// since midnight; the end minute is exclusive.
type ScheduleSlot struct {
	ID             string    `db:"id" json:"id"`
	TeachingUnitID string    `db:"teaching_unit_id" json:"teaching_unit_id"`
	Weekday        int       `db:"weekday" json:"weekday"`
	StartMinute    int       `db:"start_minute" json:"start_minute"`
	EndMinute      int       `db:"end_minute" json:"end_minute"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Range returns the slot's half-open time-of-day interval.
func (s ScheduleSlot) Range() timeofday.Range {
	return timeofday.Range{Start: timeofday.TimeOfDay(s.StartMinute), End: timeofday.TimeOfDay(s.EndMinute)}
}

// SlotDetail joins a slot with its unit's class, subject and instructor so
// conflict errors and timetable listings carry display names.
type SlotDetail struct {
	ScheduleSlot
	ClassID        string `db:"class_id" json:"class_id"`
	ClassName      string `db:"class_name" json:"class_name"`
	SubjectID      string `db:"subject_id" json:"subject_id"`
	SubjectName    string `db:"subject_name" json:"subject_name"`
	InstructorID   string `db:"instructor_id" json:"instructor_id"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
}

// Conflict dimensions reported by the resolver.
const (
	ConflictDuplicateSubject = "DUPLICATE_SUBJECT"
	ConflictInstructor       = "INSTRUCTOR"
	ConflictClass            = "CLASS"
)

// SlotConflict describes the existing slot that blocks a proposal.
type SlotConflict struct {
	Dimension      string `json:"dimension"`
	SlotID         string `json:"slot_id"`
	ClassName      string `json:"class_name"`
	SubjectName    string `json:"subject_name"`
	InstructorName string `json:"instructor_name"`
	Weekday        int    `json:"weekday"`
	TimeRange      string `json:"time_range"`
}

// SlotConflictError is returned when a proposed slot collides with committed
// state. It is a business-rule rejection, never auto-resolved.
type SlotConflictError struct {
	Message  string       `json:"message"`
	Conflict SlotConflict `json:"conflict"`
}

// Error implements the error interface.
func (e *SlotConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s %s, %s)", e.Message, e.Conflict.SubjectName, e.Conflict.ClassName, e.Conflict.TimeRange)
}
