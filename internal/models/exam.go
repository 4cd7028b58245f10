package models

import "time"

// ExamCategory separates completeness tracking per exam round.
type ExamCategory string

const (
	ExamMidterm ExamCategory = "MIDTERM"
	ExamFinal   ExamCategory = "FINAL"
)

// ExamCategories lists all categories the completeness audit checks.
var ExamCategories = []ExamCategory{ExamMidterm, ExamFinal}

// ExamRecord stores one exam submission. The audit only cares about
// existence of a graded record; the score feeds term averages.
type ExamRecord struct {
	ID             string       `db:"id" json:"id"`
	StudentID      string       `db:"student_id" json:"student_id"`
	SubjectID      string       `db:"subject_id" json:"subject_id"`
	AcademicYearID string       `db:"academic_year_id" json:"academic_year_id"`
	Category       ExamCategory `db:"category" json:"category"`
	Score          float64      `db:"score" json:"score"`
	Graded         bool         `db:"graded" json:"graded"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// ExamCompletion is the projection the auditor consumes: one row per graded
// exam per (student, subject, category).
type ExamCompletion struct {
	StudentID string       `db:"student_id"`
	SubjectID string       `db:"subject_id"`
	Category  ExamCategory `db:"category"`
}

// StudentScore is the projection used to compute term averages.
type StudentScore struct {
	StudentID string  `db:"student_id"`
	Score     float64 `db:"score"`
}
