package models

import "time"

// Subject is a taught discipline (Math, Physics, ...).
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SubjectRef is the compact subject shape embedded in audit reports so
// callers can render missing-subject lists without a second lookup.
type SubjectRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
