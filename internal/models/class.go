package models

import "time"

// Class represents a class section bound to one academic year. At most one
// class exists per (name, program_id, academic_year_id).
type Class struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	ProgramID         string    `db:"program_id" json:"program_id"`
	AcademicYearID    string    `db:"academic_year_id" json:"academic_year_id"`
	HomeroomTeacherID *string   `db:"homeroom_teacher_id" json:"homeroom_teacher_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSummary is the compact class shape returned by transition results.
type ClassSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProgramID      string `json:"program_id"`
	AcademicYearID string `json:"academic_year_id"`
}

// Summary converts a class into its compact representation.
func (c Class) Summary() ClassSummary {
	return ClassSummary{ID: c.ID, Name: c.Name, ProgramID: c.ProgramID, AcademicYearID: c.AcademicYearID}
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	AcademicYearID string
	ProgramID      string
	Search         string
	Page           int
	PageSize       int
}
