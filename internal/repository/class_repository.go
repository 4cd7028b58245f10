package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-lifecycle-api/internal/models"
)

// ClassRepository provides persistence for class sections.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) execer(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.db
}

const classColumns = "id, name, program_id, academic_year_id, homeroom_teacher_id, created_at, updated_at"

// FindByID loads a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE id = $1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByIdentity resolves a class by its uniqueness key. Callers rely on
// this for idempotent destination resolution during term transitions.
func (r *ClassRepository) FindByIdentity(ctx context.Context, q sqlx.ExtContext, name, programID, academicYearID string) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE name = $1 AND program_id = $2 AND academic_year_id = $3`, classColumns)
	var class models.Class
	if err := sqlx.GetContext(ctx, r.execer(q), &class, query, name, programID, academicYearID); err != nil {
		return nil, err
	}
	return &class, nil
}

// List returns classes with optional filtering and pagination.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	base := "FROM classes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.AcademicYearID != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year_id = $%d", len(args)+1))
		args = append(args, filter.AcademicYearID)
	}
	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", classColumns, base, size, offset)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	return classes, total, nil
}

// Create stores a new class record, optionally inside a caller transaction.
func (r *ClassRepository) Create(ctx context.Context, q sqlx.ExtContext, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, program_id, academic_year_id, homeroom_teacher_id, created_at, updated_at) VALUES (:id, :name, :program_id, :academic_year_id, :homeroom_teacher_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.execer(q), query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}
