package models

import (
	"database/sql"
	"time"
)

// Person is an individual recorded in a tree. Dates are free-form text.
type Person struct {
	ID        int64          `db:"id"`
	TreeID    int64          `db:"tree_id"`
	FirstName string         `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	BirthDate sql.NullString `db:"birth_date"`
	DeathDate sql.NullString `db:"death_date"`
	Gender    sql.NullString `db:"gender"`
	Biography sql.NullString `db:"biography"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
