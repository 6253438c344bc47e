package database

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/store"
)

type relationshipStore struct{}

var _ store.RelationshipStore = (*relationshipStore)(nil)

// CreateRelationship implements store.RelationshipStore.
func (*relationshipStore) CreateRelationship(ctx context.Context, tx db.Handler, r models.Relationship) (int64, error) {
	query := tx.Rebind(`INSERT INTO relationships (tree_id, person_id, related_person_id, relation_type)
			VALUES (?, ?, ?, ?) RETURNING id;`)

	var id int64
	err := tx.GetContext(ctx, &id, query, r.TreeID, r.PersonID, r.RelatedPersonID, r.RelationType)
	return id, db.WrapError(err)
}

// GetRelationshipsByTree implements store.RelationshipStore. Rows come back
// in insertion order.
func (*relationshipStore) GetRelationshipsByTree(ctx context.Context, tx db.Handler, treeID int64) ([]models.Relationship, error) {
	var m []models.Relationship
	query := tx.Rebind(`SELECT * FROM relationships WHERE tree_id = ? ORDER BY id;`)
	err := tx.SelectContext(ctx, &m, query, treeID)
	return m, db.WrapError(err)
}

// DeleteRelationship implements store.RelationshipStore.
func (*relationshipStore) DeleteRelationship(ctx context.Context, tx db.Handler, treeID, id int64) error {
	query := tx.Rebind(`DELETE FROM relationships WHERE tree_id = ? AND id = ?;`)
	_, err := tx.ExecContext(ctx, query, treeID, id)
	return db.WrapError(err)
}
