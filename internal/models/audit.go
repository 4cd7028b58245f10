package models

// AuditIssueType classifies a missing artifact found by the completeness
// audit. MIDTERM and FINAL are independent dimensions: a student can be
// missing one without the other.
type AuditIssueType string

const (
	IssueMidterm  AuditIssueType = "MIDTERM"
	IssueFinal    AuditIssueType = "FINAL"
	IssueBehavior AuditIssueType = "BEHAVIOR"
)

// AuditIssue itemises the missing artifacts of one type for one student.
// Missing holds subject names for exam issues and is empty for BEHAVIOR.
type AuditIssue struct {
	Type    AuditIssueType `json:"type"`
	Missing []string       `json:"missing,omitempty"`
}

// StudentAudit is the per-student verdict.
type StudentAudit struct {
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name"`
	IsValid     bool         `json:"is_valid"`
	Issues      []AuditIssue `json:"issues,omitempty"`
}

// TermReport is the class-level completeness verdict. AllValid is the
// logical AND over all enrolled students.
type TermReport struct {
	ClassID          string         `json:"class_id"`
	AcademicYearID   string         `json:"academic_year_id"`
	AllValid         bool           `json:"all_valid"`
	RequiredSubjects []SubjectRef   `json:"required_subjects"`
	Students         []StudentAudit `json:"students"`
}
