package store

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
)

// PersonStore is an interface for managing the persons of a tree.
type PersonStore interface {
	GetPersonByID(ctx context.Context, h db.Handler, id int64) (models.Person, error)
	GetPersonsByTree(ctx context.Context, h db.Handler, treeID int64) ([]models.Person, error)
	CreatePerson(ctx context.Context, h db.Handler, p models.Person) (int64, error)
	UpdatePerson(ctx context.Context, h db.Handler, p models.Person) error
	DeletePerson(ctx context.Context, h db.Handler, id int64) error
}

// RelationshipStore is an interface for managing relationships.
type RelationshipStore interface {
	GetRelationshipsByTree(ctx context.Context, h db.Handler, treeID int64) ([]models.Relationship, error)
	CreateRelationship(ctx context.Context, h db.Handler, r models.Relationship) (int64, error)
	DeleteRelationship(ctx context.Context, h db.Handler, treeID, id int64) error
}
