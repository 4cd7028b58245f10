package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
	appErrors "github.com/noah-isme/academic-lifecycle-api/pkg/errors"
)

type auditClassReaderStub struct {
	class *models.Class
	err   error
}

func (s *auditClassReaderStub) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.class, nil
}

type auditStudentListerStub struct {
	students  []models.Student
	lockCalls []bool
}

func (s *auditStudentListerStub) ListActiveByClass(ctx context.Context, q sqlx.ExtContext, classID string, lock bool) ([]models.Student, error) {
	s.lockCalls = append(s.lockCalls, lock)
	return s.students, nil
}

type auditSubjectResolverStub struct {
	subjects []models.SubjectRef
}

func (s *auditSubjectResolverStub) RequiredSubjects(ctx context.Context, q sqlx.ExtContext, classID string) ([]models.SubjectRef, error) {
	return s.subjects, nil
}

type auditExamReaderStub struct {
	completions []models.ExamCompletion
}

func (s *auditExamReaderStub) ListGradedCompletions(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string) ([]models.ExamCompletion, error) {
	return s.completions, nil
}

type auditBehaviorReaderStub struct {
	holders []string
}

func (s *auditBehaviorReaderStub) ListStudentIDsWithRecord(ctx context.Context, q sqlx.ExtContext, classID, academicYearID string) ([]string, error) {
	return s.holders, nil
}

type auditFixture struct {
	classes   *auditClassReaderStub
	students  *auditStudentListerStub
	subjects  *auditSubjectResolverStub
	exams     *auditExamReaderStub
	behaviors *auditBehaviorReaderStub
}

func newAuditFixture() *auditFixture {
	return &auditFixture{
		classes:   &auditClassReaderStub{class: &models.Class{ID: "class-11a", Name: "Grade 11-A", AcademicYearID: "year-1"}},
		students:  &auditStudentListerStub{},
		subjects:  &auditSubjectResolverStub{},
		exams:     &auditExamReaderStub{},
		behaviors: &auditBehaviorReaderStub{},
	}
}

func (f *auditFixture) service() *AuditService {
	return NewAuditService(f.classes, f.students, f.subjects, f.exams, f.behaviors, nil, 0, nil, nil)
}

func completion(studentID, subjectID string, category models.ExamCategory) models.ExamCompletion {
	return models.ExamCompletion{StudentID: studentID, SubjectID: subjectID, Category: category}
}

// fullCompletions produces graded records for every subject and category.
func fullCompletions(studentID string, subjects []models.SubjectRef) []models.ExamCompletion {
	var out []models.ExamCompletion
	for _, subject := range subjects {
		for _, category := range models.ExamCategories {
			out = append(out, completion(studentID, subject.ID, category))
		}
	}
	return out
}

func TestAuditServiceAllComplete(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{{ID: "sub-math", Name: "Math"}, {ID: "sub-phys", Name: "Physics"}}
	f.students.students = []models.Student{{ID: "student-a", FullName: "Student A"}}
	f.exams.completions = fullCompletions("student-a", f.subjects.subjects)
	f.behaviors.holders = []string{"student-a"}

	report, err := f.service().Audit(context.Background(), "class-11a", "year-1")
	require.NoError(t, err)
	assert.True(t, report.AllValid)
	require.Len(t, report.Students, 1)
	assert.True(t, report.Students[0].IsValid)
	assert.Empty(t, report.Students[0].Issues)
}

func TestAuditServiceReportsOnlyMissingSubjects(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{
		{ID: "sub-math", Name: "Math"},
		{ID: "sub-phys", Name: "Physics"},
		{ID: "sub-bio", Name: "Biology"},
	}
	f.students.students = []models.Student{{ID: "student-b", FullName: "Student B"}}
	f.behaviors.holders = []string{"student-b"}
	// Everything graded except the FINAL exam in Math.
	for _, c := range fullCompletions("student-b", f.subjects.subjects) {
		if c.SubjectID == "sub-math" && c.Category == models.ExamFinal {
			continue
		}
		f.exams.completions = append(f.exams.completions, c)
	}

	report, err := f.service().Audit(context.Background(), "class-11a", "year-1")
	require.NoError(t, err)
	assert.False(t, report.AllValid)
	require.Len(t, report.Students, 1)
	audit := report.Students[0]
	assert.False(t, audit.IsValid)
	require.Len(t, audit.Issues, 1)
	assert.Equal(t, models.IssueFinal, audit.Issues[0].Type)
	assert.Equal(t, []string{"Math"}, audit.Issues[0].Missing)
}

func TestAuditServiceMidtermAndFinalAreIndependent(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{{ID: "sub-math", Name: "Math"}}
	f.students.students = []models.Student{{ID: "student-c", FullName: "Student C"}}
	f.behaviors.holders = []string{"student-c"}
	// No graded exams at all: one issue per category, not one merged issue.

	report, err := f.service().Audit(context.Background(), "class-11a", "year-1")
	require.NoError(t, err)
	audit := report.Students[0]
	require.Len(t, audit.Issues, 2)
	assert.Equal(t, models.IssueMidterm, audit.Issues[0].Type)
	assert.Equal(t, models.IssueFinal, audit.Issues[1].Type)
}

func TestAuditServiceMissingBehaviorRecord(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{{ID: "sub-math", Name: "Math"}}
	f.students.students = []models.Student{{ID: "student-d", FullName: "Student D"}}
	f.exams.completions = fullCompletions("student-d", f.subjects.subjects)

	report, err := f.service().Audit(context.Background(), "class-11a", "year-1")
	require.NoError(t, err)
	audit := report.Students[0]
	assert.False(t, audit.IsValid)
	require.Len(t, audit.Issues, 1)
	assert.Equal(t, models.IssueBehavior, audit.Issues[0].Type)
	assert.Empty(t, audit.Issues[0].Missing)
}

func TestAuditServiceAllValidIsConjunction(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{{ID: "sub-math", Name: "Math"}}
	f.students.students = []models.Student{
		{ID: "student-a", FullName: "Student A"},
		{ID: "student-b", FullName: "Student B"},
	}
	f.exams.completions = append(
		fullCompletions("student-a", f.subjects.subjects),
		fullCompletions("student-b", f.subjects.subjects)...,
	)
	f.behaviors.holders = []string{"student-a"} // student-b has no behavior record

	report, err := f.service().Audit(context.Background(), "class-11a", "year-1")
	require.NoError(t, err)
	assert.False(t, report.AllValid)
	assert.True(t, report.Students[0].IsValid)
	assert.False(t, report.Students[1].IsValid)
}

func TestAuditServiceEmptyClassIsValid(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{{ID: "sub-math", Name: "Math"}}

	report, err := f.service().Audit(context.Background(), "class-11a", "year-1")
	require.NoError(t, err)
	assert.True(t, report.AllValid)
	assert.Empty(t, report.Students)
}

func TestAuditServiceClassNotFound(t *testing.T) {
	f := newAuditFixture()
	f.classes.err = sql.ErrNoRows

	_, err := f.service().Audit(context.Background(), "missing", "year-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAuditServiceAuditWithinPropagatesLock(t *testing.T) {
	f := newAuditFixture()
	f.subjects.subjects = []models.SubjectRef{{ID: "sub-math", Name: "Math"}}

	_, err := f.service().AuditWithin(context.Background(), nil, "class-11a", "year-1", true)
	require.NoError(t, err)
	require.Len(t, f.students.lockCalls, 1)
	assert.True(t, f.students.lockCalls[0])
}
