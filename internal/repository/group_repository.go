package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edupanel/timetable-api/internal/models"
)

const groupColumns = "id, name, course, active, created_at, updated_at"

// GroupRepository provides persistence for student groups.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns groups with optional filtering and pagination.
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.Group, int, error) {
	base := "FROM groups WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Course != 0 {
		conditions = append(conditions, fmt.Sprintf("course = $%d", len(args)+1))
		args = append(args, filter.Course)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", groupColumns, base, size, (page-1)*size)
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}
	return groups, total, nil
}

// FindByID loads a group by id.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	query := fmt.Sprintf("SELECT %s FROM groups WHERE id = $1", groupColumns)
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListActive returns every active group.
func (r *GroupRepository) ListActive(ctx context.Context) ([]models.Group, error) {
	query := fmt.Sprintf("SELECT %s FROM groups WHERE active ORDER BY name ASC", groupColumns)
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list active groups: %w", err)
	}
	return groups, nil
}

// Create stores a new group.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	const query = `INSERT INTO groups (id, name, course, active, created_at, updated_at) VALUES (:id, :name, :course, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// Update modifies a group.
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE groups SET name = :name, course = :course, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	return nil
}
