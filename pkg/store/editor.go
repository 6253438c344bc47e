package store

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
)

// EditorStore is an interface for managing tree editor grants.
type EditorStore interface {
	GetEditor(ctx context.Context, h db.Handler, treeID, userID int64) (models.TreeEditor, error)
	UpsertEditor(ctx context.Context, h db.Handler, treeID, userID int64, canEdit bool) error
	RemoveEditor(ctx context.Context, h db.Handler, treeID, userID int64) error
	ListEditorsByTree(ctx context.Context, h db.Handler, treeID int64) ([]models.EditorUser, error)
}
