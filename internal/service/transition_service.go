package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
)

type yearReader interface {
	FindByID(ctx context.Context, id string) (*models.AcademicYear, error)
}

type transitionClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindByIdentity(ctx context.Context, q sqlx.ExtContext, name, programID, academicYearID string) (*models.Class, error)
	Create(ctx context.Context, q sqlx.ExtContext, class *models.Class) error
}

type transitionUnitRepository interface {
	ListByClass(ctx context.Context, q sqlx.ExtContext, classID string) ([]models.TeachingUnit, error)
	BulkCreate(ctx context.Context, q sqlx.ExtContext, units []models.TeachingUnit) error
}

type transitionStudentRepository interface {
	ListActiveByClass(ctx context.Context, q sqlx.ExtContext, classID string, lock bool) ([]models.Student, error)
	UpdateClass(ctx context.Context, q sqlx.ExtContext, studentID, classID string) error
}

type scoreReader interface {
	ListGradedScores(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string, subjectIDs []string) ([]models.StudentScore, error)
}

type historyWriter interface {
	Insert(ctx context.Context, q sqlx.ExtContext, history *models.StudentTermHistory) error
}

type completenessAuditor interface {
	AuditWithin(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string, lockStudents bool) (*models.TermReport, error)
}

// TransitionRequest asks to move a class cohort to the next term.
type TransitionRequest struct {
	SourceClassID        string `json:"source_class_id" validate:"required"`
	TargetAcademicYearID string `json:"target_academic_year_id" validate:"required"`
}

// TransitionService orchestrates the first-to-second term transition of a
// class cohort: completeness gate, idempotent destination resolution,
// teaching unit propagation, and an all-or-nothing enrollment migration
// with an immutable history snapshot per student.
type TransitionService struct {
	years     yearReader
	classes   transitionClassRepository
	units     transitionUnitRepository
	students  transitionStudentRepository
	scores    scoreReader
	histories historyWriter
	auditor   completenessAuditor
	tx        txProvider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTransitionService constructs TransitionService.
func NewTransitionService(years yearReader, classes transitionClassRepository, units transitionUnitRepository, students transitionStudentRepository, scores scoreReader, histories historyWriter, auditor completenessAuditor, tx txProvider, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TransitionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransitionService{
		years:     years,
		classes:   classes,
		units:     units,
		students:  students,
		scores:    scores,
		histories: histories,
		auditor:   auditor,
		tx:        tx,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Transition moves every active student of the source class into the
// matching class of the target academic year. Promotion is all-or-nothing:
// a single incomplete student record rejects the whole cohort.
func (s *TransitionService) Transition(ctx context.Context, req TransitionRequest) (*models.TransitionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transition payload")
	}

	s.logState(req.SourceClassID, "VALIDATING")

	source, err := s.classes.FindByID(ctx, req.SourceClassID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "source class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source class")
	}

	sourceYear, targetYear, err := s.loadYears(ctx, source.AcademicYearID, req.TargetAcademicYearID)
	if err != nil {
		return nil, err
	}

	if err := s.checkTermSequence(*sourceYear, *targetYear); err != nil {
		s.metrics.IncTransition("rejected_sequence")
		s.logState(source.ID, "REJECTED")
		return nil, err
	}

	// Completeness gate. Always a fresh audit, never the cached report.
	report, err := s.auditor.AuditWithin(ctx, nil, source.ID, sourceYear.ID, false)
	if err != nil {
		return nil, err
	}
	if !report.AllValid {
		s.metrics.IncTransition("rejected_incomplete")
		s.logState(source.ID, "REJECTED")
		return nil, s.rejectIncomplete(report)
	}

	s.logState(source.ID, "RESOLVING_DESTINATION")
	destination, created, err := s.resolveDestination(ctx, source, targetYear.ID)
	if err != nil {
		return nil, err
	}

	if created {
		s.logState(source.ID, "PROPAGATING_ASSIGNMENTS")
		if err := s.propagateUnits(ctx, source.ID, destination.ID); err != nil {
			return nil, err
		}
	}

	s.logState(source.ID, "MIGRATING_STUDENTS")
	moved, err := s.migrateStudents(ctx, source, sourceYear.ID, destination.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition("promoted")
	s.logState(source.ID, "DONE")
	s.logger.Info("term_transition_done",
		zap.String("source_class_id", source.ID),
		zap.String("destination_class_id", destination.ID),
		zap.Int("moved_students", moved),
	)

	return &models.TransitionResult{
		MovedStudentCount: moved,
		SourceClass:       source.Summary(),
		DestinationClass:  destination.Summary(),
	}, nil
}

func (s *TransitionService) loadYears(ctx context.Context, sourceYearID, targetYearID string) (*models.AcademicYear, *models.AcademicYear, error) {
	sourceYear, err := s.years.FindByID(ctx, sourceYearID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "source academic year not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source academic year")
	}
	targetYear, err := s.years.FindByID(ctx, targetYearID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "target academic year not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target academic year")
	}
	return sourceYear, targetYear, nil
}

// checkTermSequence enforces that promotion only runs first-term to
// second-term within the same school year. Cross-year promotion is a
// different workflow entirely.
func (s *TransitionService) checkTermSequence(source, target models.AcademicYear) error {
	switch {
	case source.Term != models.TermFirst:
		return s.rejectSequence(fmt.Sprintf("source class is in term %s; only first-term classes can transition", source.Term))
	case target.Term != models.TermSecond:
		return s.rejectSequence(fmt.Sprintf("target academic year is term %s; expected the second term", target.Term))
	case !source.SameYearPair(target):
		return s.rejectSequence(fmt.Sprintf("target year %s does not match source year %s", target.Label(), source.Label()))
	}
	return nil
}

func (s *TransitionService) rejectSequence(message string) error {
	domainErr := &models.TransitionRejectedError{Reason: models.RejectTermSequence, Message: message}
	return appErrors.Wrap(domainErr, appErrors.ErrInvalidTermSequence.Code, appErrors.ErrInvalidTermSequence.Status, message)
}

func (s *TransitionService) rejectIncomplete(report *models.TermReport) error {
	domainErr := &models.TransitionRejectedError{
		Reason:  models.RejectIncompleteRecords,
		Message: "one or more students have incomplete exam or behavior records",
		Report:  report,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrIncompleteRecords.Code, appErrors.ErrIncompleteRecords.Status, domainErr.Message)
}

// resolveDestination finds or creates the class carrying the source's
// identity in the target year. Safe to re-run: a retry finds the class
// created by a previous partially-failed attempt instead of duplicating it.
func (s *TransitionService) resolveDestination(ctx context.Context, source *models.Class, targetYearID string) (*models.Class, bool, error) {
	existing, err := s.classes.FindByIdentity(ctx, nil, source.Name, source.ProgramID, targetYearID)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve destination class")
	}

	destination := &models.Class{
		Name:              source.Name,
		ProgramID:         source.ProgramID,
		AcademicYearID:    targetYearID,
		HomeroomTeacherID: source.HomeroomTeacherID,
	}
	if err := s.classes.Create(ctx, nil, destination); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create destination class")
	}
	return destination, true, nil
}

// propagateUnits copies the source class's subject/instructor assignments to
// the destination. Schedule slots are deliberately not carried over: the new
// term starts with an empty timetable that must be scheduled through the
// conflict resolver.
func (s *TransitionService) propagateUnits(ctx context.Context, sourceClassID, destinationClassID string) error {
	units, err := s.units.ListByClass(ctx, nil, sourceClassID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source teaching units")
	}
	if len(units) == 0 {
		return nil
	}
	copies := make([]models.TeachingUnit, 0, len(units))
	for _, unit := range units {
		copies = append(copies, models.TeachingUnit{
			ClassID:      destinationClassID,
			SubjectID:    unit.SubjectID,
			InstructorID: unit.InstructorID,
		})
	}
	if err := s.units.BulkCreate(ctx, nil, copies); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to propagate teaching units")
	}
	return nil
}

// migrateStudents moves the whole cohort inside one transaction. Student
// rows are locked and the audit re-runs against the locked state, closing
// the window where a grade edit between gate and migration could promote an
// incomplete student.
func (s *TransitionService) migrateStudents(ctx context.Context, source *models.Class, sourceYearID, destinationClassID string) (int, error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin migration transaction")
	}
	moved, err := s.migrateWithin(ctx, tx, source, sourceYearID, destinationClassID)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit migration transaction")
	}
	return moved, nil
}

func (s *TransitionService) migrateWithin(ctx context.Context, tx *sqlx.Tx, source *models.Class, sourceYearID, destinationClassID string) (int, error) {
	report, err := s.auditor.AuditWithin(ctx, tx, source.ID, sourceYearID, true)
	if err != nil {
		return 0, err
	}
	if !report.AllValid {
		s.metrics.IncTransition("rejected_incomplete")
		return 0, s.rejectIncomplete(report)
	}

	students, err := s.students.ListActiveByClass(ctx, tx, source.ID, true)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students for migration")
	}

	subjectIDs := make([]string, 0, len(report.RequiredSubjects))
	for _, subject := range report.RequiredSubjects {
		subjectIDs = append(subjectIDs, subject.ID)
	}
	averages, err := s.computeAverages(ctx, tx, source.ID, sourceYearID, subjectIDs)
	if err != nil {
		return 0, err
	}

	for _, student := range students {
		if err := s.students.UpdateClass(ctx, tx, student.ID, destinationClassID); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move student")
		}
		history := &models.StudentTermHistory{
			StudentID:      student.ID,
			ClassID:        source.ID,
			AcademicYearID: sourceYearID,
			Promoted:       true,
			FinalAverage:   averages[student.ID],
		}
		if err := s.histories.Insert(ctx, tx, history); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record term history")
		}
	}

	return len(students), nil
}

// computeAverages returns the arithmetic mean of each student's graded exam
// scores across the required subjects. Students with no scores map to nil;
// the completeness gate makes that unreachable in practice.
func (s *TransitionService) computeAverages(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string, subjectIDs []string) (map[string]*float64, error) {
	scores, err := s.scores.ListGradedScores(ctx, q, classID, academicYearID, subjectIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam scores")
	}
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, score := range scores {
		totals[score.StudentID] += score.Score
		counts[score.StudentID]++
	}
	averages := make(map[string]*float64, len(counts))
	for studentID, count := range counts {
		avg := totals[studentID] / float64(count)
		averages[studentID] = &avg
	}
	return averages, nil
}

func (s *TransitionService) logState(classID, state string) {
	s.logger.Info("term_transition_state", zap.String("source_class_id", classID), zap.String("state", state))
}
