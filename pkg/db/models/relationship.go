package models

import "time"

// RelationParent is the relation type where PersonID is a parent of
// RelatedPersonID.
const RelationParent = "parent"

// Relationship is a directed edge between two persons of the same tree.
type Relationship struct {
	ID              int64     `db:"id"`
	TreeID          int64     `db:"tree_id"`
	PersonID        int64     `db:"person_id"`
	RelatedPersonID int64     `db:"related_person_id"`
	RelationType    string    `db:"relation_type"`
	CreatedAt       time.Time `db:"created_at"`
}
