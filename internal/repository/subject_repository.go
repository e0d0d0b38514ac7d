package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edupanel/timetable-api/internal/models"
)

const subjectColumns = "id, name, short_name, created_at, updated_at"

// SubjectRepository provides persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns every subject ordered by name.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects ORDER BY name ASC", subjectColumns)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID loads a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create stores a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, name, short_name, created_at, updated_at) VALUES (:id, :name, :short_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}
