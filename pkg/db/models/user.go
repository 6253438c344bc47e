package models

import "time"

// User represents a member. Emails are stored lower-cased.
type User struct {
	ID         int64     `db:"id"`
	Email      string    `db:"email"`
	IsVerified bool      `db:"is_verified"`
	Plan       string    `db:"plan"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
