package models

import "time"

// StudentStatus tracks a student's lifecycle in the institution.
type StudentStatus string

const (
	StudentActive      StudentStatus = "ACTIVE"
	StudentGraduated   StudentStatus = "GRADUATED"
	StudentTransferred StudentStatus = "TRANSFERRED"
	StudentDroppedOut  StudentStatus = "DROPPED_OUT"
	StudentDeceased    StudentStatus = "DECEASED"
)

// Student represents a learner. ClassID is the current placement only;
// historical placements live in student_term_histories.
type Student struct {
	ID        string        `db:"id" json:"id"`
	FullName  string        `db:"full_name" json:"full_name"`
	Status    StudentStatus `db:"status" json:"status"`
	ClassID   *string       `db:"class_id" json:"class_id,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
