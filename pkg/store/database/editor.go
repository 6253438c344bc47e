package database

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/store"
)

type editorStore struct{}

var _ store.EditorStore = (*editorStore)(nil)

// GetEditor implements store.EditorStore.
func (*editorStore) GetEditor(ctx context.Context, tx db.Handler, treeID, userID int64) (models.TreeEditor, error) {
	var m models.TreeEditor
	query := tx.Rebind(`SELECT * FROM tree_editors WHERE tree_id = ? AND user_id = ?;`)
	err := tx.GetContext(ctx, &m, query, treeID, userID)
	return m, db.WrapError(err)
}

// UpsertEditor implements store.EditorStore. Granting an existing editor
// again replaces its can_edit flag.
func (*editorStore) UpsertEditor(ctx context.Context, tx db.Handler, treeID, userID int64, canEdit bool) error {
	query := tx.Rebind(`INSERT INTO tree_editors (tree_id, user_id, can_edit, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (tree_id, user_id)
			DO UPDATE SET can_edit = excluded.can_edit, updated_at = CURRENT_TIMESTAMP;`)
	_, err := tx.ExecContext(ctx, query, treeID, userID, canEdit)
	return db.WrapError(err)
}

// RemoveEditor implements store.EditorStore.
func (*editorStore) RemoveEditor(ctx context.Context, tx db.Handler, treeID, userID int64) error {
	query := tx.Rebind(`DELETE FROM tree_editors WHERE tree_id = ? AND user_id = ?;`)
	_, err := tx.ExecContext(ctx, query, treeID, userID)
	return db.WrapError(err)
}

// ListEditorsByTree implements store.EditorStore.
func (*editorStore) ListEditorsByTree(ctx context.Context, tx db.Handler, treeID int64) ([]models.EditorUser, error) {
	var m []models.EditorUser
	query := tx.Rebind(`
		SELECT
			tree_editors.*,
			users.email
		FROM
			tree_editors
		INNER JOIN users ON users.id = tree_editors.user_id
		WHERE
			tree_editors.tree_id = ?
		ORDER BY users.email;`)
	err := tx.SelectContext(ctx, &m, query, treeID)
	return m, db.WrapError(err)
}
