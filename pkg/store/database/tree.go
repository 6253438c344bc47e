package database

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/store"
)

type treeStore struct{}

var _ store.TreeStore = (*treeStore)(nil)

const treeSummaryColumns = `
	trees.*,
	(SELECT COUNT(*) FROM persons WHERE persons.tree_id = trees.id) AS person_count`

// CreateTree implements store.TreeStore.
func (*treeStore) CreateTree(ctx context.Context, tx db.Handler, ownerID int64, name, description string, public bool) (int64, error) {
	query := tx.Rebind(`INSERT INTO trees (name, description, owner_id, is_public, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	err := tx.GetContext(ctx, &id, query, name, description, ownerID, public)
	return id, db.WrapError(err)
}

// GetTreeByID implements store.TreeStore.
func (*treeStore) GetTreeByID(ctx context.Context, tx db.Handler, id int64) (models.Tree, error) {
	var m models.Tree
	query := tx.Rebind(`SELECT * FROM trees WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, db.WrapError(err)
}

// GetTreesByOwner implements store.TreeStore.
func (*treeStore) GetTreesByOwner(ctx context.Context, tx db.Handler, ownerID int64) ([]models.TreeSummary, error) {
	var m []models.TreeSummary
	query := tx.Rebind(`SELECT` + treeSummaryColumns + `
		FROM trees
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC;`)
	err := tx.SelectContext(ctx, &m, query, ownerID)
	return m, db.WrapError(err)
}

// GetTreesByEditor implements store.TreeStore.
func (*treeStore) GetTreesByEditor(ctx context.Context, tx db.Handler, userID int64) ([]models.TreeSummary, error) {
	var m []models.TreeSummary
	query := tx.Rebind(`SELECT` + treeSummaryColumns + `
		FROM trees
		INNER JOIN tree_editors ON tree_editors.tree_id = trees.id
		WHERE tree_editors.user_id = ?
		ORDER BY trees.created_at DESC, trees.id DESC;`)
	err := tx.SelectContext(ctx, &m, query, userID)
	return m, db.WrapError(err)
}

// GetPublicTrees implements store.TreeStore.
func (*treeStore) GetPublicTrees(ctx context.Context, tx db.Handler) ([]models.TreeSummary, error) {
	var m []models.TreeSummary
	query := tx.Rebind(`SELECT` + treeSummaryColumns + `
		FROM trees
		WHERE is_public = ?
		ORDER BY created_at DESC, id DESC;`)
	err := tx.SelectContext(ctx, &m, query, true)
	return m, db.WrapError(err)
}

// CountTreesByOwner implements store.TreeStore.
func (*treeStore) CountTreesByOwner(ctx context.Context, tx db.Handler, ownerID int64) (int, error) {
	var count int
	query := tx.Rebind(`SELECT COUNT(*) FROM trees WHERE owner_id = ?;`)
	err := tx.GetContext(ctx, &count, query, ownerID)
	return count, db.WrapError(err)
}

// UpdateTree implements store.TreeStore.
func (*treeStore) UpdateTree(ctx context.Context, tx db.Handler, id int64, name, description string) error {
	query := tx.Rebind(`UPDATE trees SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	_, err := tx.ExecContext(ctx, query, name, description, id)
	return db.WrapError(err)
}

// SetTreePublic implements store.TreeStore.
func (*treeStore) SetTreePublic(ctx context.Context, tx db.Handler, id int64, public bool) error {
	query := tx.Rebind(`UPDATE trees SET is_public = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	_, err := tx.ExecContext(ctx, query, public, id)
	return db.WrapError(err)
}

// DeleteTree implements store.TreeStore.
func (*treeStore) DeleteTree(ctx context.Context, tx db.Handler, id int64) error {
	query := tx.Rebind(`DELETE FROM trees WHERE id = ?;`)
	_, err := tx.ExecContext(ctx, query, id)
	return db.WrapError(err)
}
