package models

import (
	"fmt"
	"time"
)

// TermNumber identifies which half of an academic year a record belongs to.
type TermNumber string

const (
	TermFirst  TermNumber = "FIRST"
	TermSecond TermNumber = "SECOND"
)

// AcademicYear models one term of a school year, e.g. 2025/2026 FIRST.
// Exactly one year is active at a time; activation is administrative and
// never inferred by the engine (operations take explicit year ids).
type AcademicYear struct {
	ID        string     `db:"id" json:"id"`
	StartYear int        `db:"start_year" json:"start_year"`
	EndYear   int        `db:"end_year" json:"end_year"`
	Term      TermNumber `db:"term" json:"term"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// SameYearPair reports whether two records cover the same start/end years.
func (y AcademicYear) SameYearPair(other AcademicYear) bool {
	return y.StartYear == other.StartYear && y.EndYear == other.EndYear
}

// Label renders the year in the conventional "2025/2026" form.
func (y AcademicYear) Label() string {
	return fmt.Sprintf("%d/%d", y.StartYear, y.EndYear)
}
