package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
)

type auditClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type auditStudentLister interface {
	ListActiveByClass(ctx context.Context, q sqlx.ExtContext, classID string, lock bool) ([]models.Student, error)
}

type auditSubjectResolver interface {
	RequiredSubjects(ctx context.Context, q sqlx.ExtContext, classID string) ([]models.SubjectRef, error)
}

type auditExamReader interface {
	ListGradedCompletions(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string) ([]models.ExamCompletion, error)
}

type auditBehaviorReader interface {
	ListStudentIDsWithRecord(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string) ([]string, error)
}

// AuditService performs the read-only completeness audit that gates term
// transitions. Pre-flight checklist reads may be served from a short-lived
// Redis cache; the orchestrator always audits the live store.
type AuditService struct {
	classes   auditClassReader
	students  auditStudentLister
	subjects  auditSubjectResolver
	exams     auditExamReader
	behaviors auditBehaviorReader
	redis     *redis.Client
	cacheTTL  time.Duration
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAuditService constructs AuditService. A nil redis client disables the
// report cache.
func NewAuditService(classes auditClassReader, students auditStudentLister, subjects auditSubjectResolver, exams auditExamReader, behaviors auditBehaviorReader, redisClient *redis.Client, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		classes:   classes,
		students:  students,
		subjects:  subjects,
		exams:     exams,
		behaviors: behaviors,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Audit produces the completeness report for a class and academic year.
// Safe to call repeatedly; results may be cached briefly.
func (s *AuditService) Audit(ctx context.Context, classID, academicYearID string) (*models.TermReport, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if cached := s.fromCache(ctx, classID, academicYearID); cached != nil {
		return cached, nil
	}

	report, err := s.AuditWithin(ctx, nil, classID, academicYearID, false)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, report)
	return report, nil
}

// AuditWithin runs the audit against the given executor, letting the term
// transition orchestrator re-validate inside its migration transaction.
// When lockStudents is set the student rows stay locked until that
// transaction ends.
func (s *AuditService) AuditWithin(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string, lockStudents bool) (*models.TermReport, error) {
	subjects, err := s.subjects.RequiredSubjects(ctx, q, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve required subjects")
	}
	students, err := s.students.ListActiveByClass(ctx, q, classID, lockStudents)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}
	completions, err := s.exams.ListGradedCompletions(ctx, q, classID, academicYearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam records")
	}
	behaviorHolders, err := s.behaviors.ListStudentIDsWithRecord(ctx, q, classID, academicYearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load behavior records")
	}

	report := buildTermReport(classID, academicYearID, subjects, students, completions, behaviorHolders)
	s.metrics.IncAudit(report.AllValid)
	s.logger.Debug("completeness_audit",
		zap.String("class_id", classID),
		zap.String("academic_year_id", academicYearID),
		zap.Bool("all_valid", report.AllValid),
		zap.Int("students", len(report.Students)),
	)
	return report, nil
}

// buildTermReport assembles per-student verdicts. MIDTERM and FINAL are
// independent completeness dimensions; a missing behavior record is its own
// issue type.
func buildTermReport(classID, academicYearID string, subjects []models.SubjectRef, students []models.Student, completions []models.ExamCompletion, behaviorHolders []string) *models.TermReport {
	type key struct {
		student  string
		subject  string
		category models.ExamCategory
	}
	graded := make(map[key]struct{}, len(completions))
	for _, c := range completions {
		graded[key{c.StudentID, c.SubjectID, c.Category}] = struct{}{}
	}
	hasBehavior := make(map[string]struct{}, len(behaviorHolders))
	for _, id := range behaviorHolders {
		hasBehavior[id] = struct{}{}
	}

	report := &models.TermReport{
		ClassID:          classID,
		AcademicYearID:   academicYearID,
		AllValid:         true,
		RequiredSubjects: subjects,
		Students:         make([]models.StudentAudit, 0, len(students)),
	}

	for _, student := range students {
		audit := models.StudentAudit{StudentID: student.ID, StudentName: student.FullName, IsValid: true}

		for _, category := range models.ExamCategories {
			var missing []string
			for _, subject := range subjects {
				if _, ok := graded[key{student.ID, subject.ID, category}]; !ok {
					missing = append(missing, subject.Name)
				}
			}
			if len(missing) > 0 {
				audit.Issues = append(audit.Issues, models.AuditIssue{Type: issueTypeFor(category), Missing: missing})
			}
		}

		if _, ok := hasBehavior[student.ID]; !ok {
			audit.Issues = append(audit.Issues, models.AuditIssue{Type: models.IssueBehavior})
		}

		audit.IsValid = len(audit.Issues) == 0
		if !audit.IsValid {
			report.AllValid = false
		}
		report.Students = append(report.Students, audit)
	}

	return report
}

func issueTypeFor(category models.ExamCategory) models.AuditIssueType {
	if category == models.ExamFinal {
		return models.IssueFinal
	}
	return models.IssueMidterm
}

func (s *AuditService) cacheKey(classID, academicYearID string) string {
	return fmt.Sprintf("audit:%s:%s", classID, academicYearID)
}

func (s *AuditService) fromCache(ctx context.Context, classID, academicYearID string) *models.TermReport {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil
	}
	payload, err := s.redis.Get(ctx, s.cacheKey(classID, academicYearID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("audit_cache_read_failed", zap.Error(err))
		}
		return nil
	}
	var report models.TermReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil
	}
	return &report
}

func (s *AuditService) toCache(ctx context.Context, report *models.TermReport) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.cacheKey(report.ClassID, report.AcademicYearID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("audit_cache_write_failed", zap.Error(err))
	}
}
