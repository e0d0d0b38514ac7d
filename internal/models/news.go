package models

import "time"

// NewsAudience scopes who a news item targets.
type NewsAudience string

const (
	NewsAudienceAll      NewsAudience = "ALL"
	NewsAudienceTeachers NewsAudience = "TEACHERS"
	NewsAudienceStudents NewsAudience = "STUDENTS"
	NewsAudienceGroup    NewsAudience = "GROUP"
)

// NewsPriority orders news items in client feeds.
type NewsPriority string

const (
	NewsPriorityLow    NewsPriority = "LOW"
	NewsPriorityNormal NewsPriority = "NORMAL"
	NewsPriorityHigh   NewsPriority = "HIGH"
)

// News is an institutional news/announcement item.
type News struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Body        string       `db:"body" json:"body"`
	Audience    NewsAudience `db:"audience" json:"audience"`
	GroupID     *string      `db:"group_id" json:"group_id,omitempty"`
	Priority    NewsPriority `db:"priority" json:"priority"`
	PublishedAt *time.Time   `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// NewsFilter describes query params for listing news.
type NewsFilter struct {
	Audience      string
	GroupID       string
	Priority      string
	PublishedOnly bool
	Page          int
	PageSize      int
}
