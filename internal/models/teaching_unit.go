package models

import "time"

// TeachingUnit assigns one subject to one class, taught by one instructor,
// for the class's academic year. A class holds at most one unit per subject.
type TeachingUnit struct {
	ID           string    `db:"id" json:"id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeachingUnitDetail joins a unit with display names for API responses.
type TeachingUnitDetail struct {
	TeachingUnit
	SubjectName    string `db:"subject_name" json:"subject_name"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
	ClassName      string `db:"class_name" json:"class_name"`
}
