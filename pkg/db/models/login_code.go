package models

import "time"

// LoginCode is a one-time login code. Only the hash of the code is stored,
// and ExpiresAt is in unix seconds.
type LoginCode struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt int64     `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the code is no longer valid at now.
func (c LoginCode) Expired(now time.Time) bool {
	return c.ExpiresAt < now.Unix()
}
