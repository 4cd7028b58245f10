package models

import "time"

// StudentTermHistory is the append-only audit trail written once per student
// per term transition. Rows are never updated or deleted; the repository
// deliberately exposes inserts only.
type StudentTermHistory struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	AcademicYearID string    `db:"academic_year_id" json:"academic_year_id"`
	Promoted       bool      `db:"promoted" json:"promoted"`
	FinalAverage   *float64  `db:"final_average" json:"final_average,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
