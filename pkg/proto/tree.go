package proto

import "time"

// Tree is a family tree owned by a single member.
type Tree interface {
	// ID returns the tree's ID.
	ID() int64
	// Name returns the tree's name.
	Name() string
	// Description returns the tree's description.
	Description() string
	// OwnerID returns the ID of the member who owns the tree.
	OwnerID() int64
	// IsPublic returns whether anyone can view the tree.
	IsPublic() bool
	// CreatedAt returns the time the tree was created.
	CreatedAt() time.Time
}

// TreeOptions are options for creating a tree.
type TreeOptions struct {
	Description string
	Public      bool
}

// Editor is a member granted access to a tree.
type Editor struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	CanEdit bool   `json:"can_edit"`
}

// TreeSummary is a tree listed with the number of persons it holds.
type TreeSummary struct {
	Tree        Tree
	PersonCount int64
}

// PersonOptions holds the editable fields of a person. Empty strings are
// stored as NULL, except FirstName which is required.
type PersonOptions struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
	DeathDate string `json:"death_date"`
	Gender    string `json:"gender"`
	Biography string `json:"biography"`
}
