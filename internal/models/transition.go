package models

// TransitionRejectionReason distinguishes why a term transition halted.
type TransitionRejectionReason string

const (
	RejectTermSequence      TransitionRejectionReason = "TERM_SEQUENCE"
	RejectIncompleteRecords TransitionRejectionReason = "INCOMPLETE_RECORDS"
)

// TransitionRejectedError carries the rejection reason and, for completeness
// failures, the full audit report so callers can surface every missing item.
type TransitionRejectedError struct {
	Reason  TransitionRejectionReason `json:"reason"`
	Message string                    `json:"message"`
	Report  *TermReport               `json:"report,omitempty"`
}

// Error implements the error interface.
func (e *TransitionRejectedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// TransitionResult summarises a completed term transition.
type TransitionResult struct {
	MovedStudentCount int          `json:"moved_student_count"`
	SourceClass       ClassSummary `json:"source_class"`
	DestinationClass  ClassSummary `json:"destination_class"`
}
