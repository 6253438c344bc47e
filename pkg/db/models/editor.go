package models

import "time"

// TreeEditor grants a user access to a tree they do not own.
// There is at most one row per (tree, user).
type TreeEditor struct {
	ID        int64     `db:"id"`
	TreeID    int64     `db:"tree_id"`
	UserID    int64     `db:"user_id"`
	CanEdit   bool      `db:"can_edit"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// EditorUser is an editor grant joined with the user's email.
type EditorUser struct {
	TreeEditor
	Email string `db:"email"`
}
