package models

import "time"

// BehaviorRecord holds the per-term behavior assessment. Exactly one record
// exists per (student, class, academic year); its existence gates promotion.
type BehaviorRecord struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	ClassID         string    `db:"class_id" json:"class_id"`
	AcademicYearID  string    `db:"academic_year_id" json:"academic_year_id"`
	SpiritualScore  int       `db:"spiritual_score" json:"spiritual_score"`
	SocialScore     int       `db:"social_score" json:"social_score"`
	AttendanceScore int       `db:"attendance_score" json:"attendance_score"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
