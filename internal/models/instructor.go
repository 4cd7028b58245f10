package models

import "time"

// Instructor is a teaching staff member.
type Instructor struct {
	ID        string    `db:"id" json:"id"`
	NIP       string    `db:"nip" json:"nip"`
	FullName  string    `db:"full_name" json:"full_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
