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

const notificationColumns = "id, topic, title, body, group_id, semester_id, status, sent_at, created_at"

// NotificationRepository records schedule-change notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List returns notifications matching the filter, newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	base := "FROM notifications WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", notificationColumns, base, size, (page-1)*size)
	var items []models.Notification
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return items, total, nil
}

// Create stores a queued notification record.
func (r *NotificationRepository) Create(ctx context.Context, item *models.Notification) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.NotificationStatusQueued
	}
	item.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO notifications (id, topic, title, body, group_id, semester_id, status, sent_at, created_at)
		VALUES (:id, :topic, :title, :body, :group_id, :semester_id, :status, :sent_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// UpdateStatus moves a notification to a terminal dispatch state.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id string, status models.NotificationStatus) error {
	var sentAt *time.Time
	if status == models.NotificationStatusSent {
		now := time.Now().UTC()
		sentAt = &now
	}
	const query = `UPDATE notifications SET status = $2, sent_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, sentAt); err != nil {
		return fmt.Errorf("update notification status: %w", err)
	}
	return nil
}
