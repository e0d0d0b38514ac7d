package models

import "time"

// Semester scopes schedules; lessons are only compared for conflicts within
// one semester's scheduling universe.
type Semester struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartsOn  time.Time `db:"starts_on" json:"starts_on"`
	WeekCount int       `db:"week_count" json:"week_count"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
