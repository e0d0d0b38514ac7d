package models

import "time"

// Group represents a student group owning one schedule per semester.
type Group struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Course    int       `db:"course" json:"course"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GroupFilter describes query params for listing groups.
type GroupFilter struct {
	Search   string
	Course   int
	Active   *bool
	Page     int
	PageSize int
}
