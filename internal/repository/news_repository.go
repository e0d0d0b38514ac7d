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

const newsColumns = "id, title, body, audience, group_id, priority, published_at, created_at, updated_at"

// NewsRepository provides persistence for news items.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a new news repository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns news matching the filter, high priority and newest first.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	base := "FROM news WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Audience != "" {
		conditions = append(conditions, fmt.Sprintf("audience = $%d", len(args)+1))
		args = append(args, filter.Audience)
	}
	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, filter.Priority)
	}
	if filter.PublishedOnly {
		conditions = append(conditions, "published_at IS NOT NULL")
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

	order := "ORDER BY CASE priority WHEN 'HIGH' THEN 0 WHEN 'NORMAL' THEN 1 ELSE 2 END, created_at DESC"
	query := fmt.Sprintf("SELECT %s %s %s LIMIT %d OFFSET %d", newsColumns, base, order, size, (page-1)*size)
	var items []models.News
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}
	return items, total, nil
}

// FindByID loads a news item by id.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.News, error) {
	query := fmt.Sprintf("SELECT %s FROM news WHERE id = $1", newsColumns)
	var item models.News
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new news item.
func (r *NewsRepository) Create(ctx context.Context, item *models.News) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO news (id, title, body, audience, group_id, priority, published_at, created_at, updated_at)
		VALUES (:id, :title, :body, :audience, :group_id, :priority, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// Update modifies a news item.
func (r *NewsRepository) Update(ctx context.Context, item *models.News) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, body = :body, audience = :audience, group_id = :group_id,
		priority = :priority, published_at = :published_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes a news item.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
