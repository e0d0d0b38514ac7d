package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edupanel/timetable-api/internal/models"
)

const semesterColumns = "id, name, starts_on, week_count, active, created_at, updated_at"

// SemesterRepository provides persistence for semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository creates a new semester repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters newest first.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	query := fmt.Sprintf("SELECT %s FROM semesters ORDER BY starts_on DESC", semesterColumns)
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByID loads a semester by id.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	query := fmt.Sprintf("SELECT %s FROM semesters WHERE id = $1", semesterColumns)
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// Create stores a new semester.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	semester.CreatedAt = now
	semester.UpdatedAt = now

	const query = `INSERT INTO semesters (id, name, starts_on, week_count, active, created_at, updated_at) VALUES (:id, :name, :starts_on, :week_count, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}
