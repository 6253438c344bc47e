package models

import "time"

// Tree is a database model for a family tree.
type Tree struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	OwnerID     int64     `db:"owner_id"`
	IsPublic    bool      `db:"is_public"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TreeSummary is a tree with the number of persons it holds.
type TreeSummary struct {
	Tree
	PersonCount int64 `db:"person_count"`
}
