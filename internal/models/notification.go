package models

import "time"

// NotificationStatus tracks dispatch lifecycle.
type NotificationStatus string

const (
	NotificationStatusQueued NotificationStatus = "QUEUED"
	NotificationStatusSent   NotificationStatus = "SENT"
	NotificationStatusFailed NotificationStatus = "FAILED"
)

// Notification records a schedule-change message handed to the dispatch
// queue. Actual push delivery is an external collaborator; the record is the
// audit trail of what was queued and when it went out.
type Notification struct {
	ID         string             `db:"id" json:"id"`
	Topic      string             `db:"topic" json:"topic"`
	Title      string             `db:"title" json:"title"`
	Body       string             `db:"body" json:"body"`
	GroupID    string             `db:"group_id" json:"group_id"`
	SemesterID string             `db:"semester_id" json:"semester_id"`
	Status     NotificationStatus `db:"status" json:"status"`
	SentAt     *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
}

// NotificationFilter describes query params for listing notifications.
type NotificationFilter struct {
	GroupID  string
	Status   string
	Page     int
	PageSize int
}
