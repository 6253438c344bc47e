package store

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
)

// TreeStore is an interface for managing trees.
type TreeStore interface {
	GetTreeByID(ctx context.Context, h db.Handler, id int64) (models.Tree, error)
	GetTreesByOwner(ctx context.Context, h db.Handler, ownerID int64) ([]models.TreeSummary, error)
	GetTreesByEditor(ctx context.Context, h db.Handler, userID int64) ([]models.TreeSummary, error)
	GetPublicTrees(ctx context.Context, h db.Handler) ([]models.TreeSummary, error)
	CountTreesByOwner(ctx context.Context, h db.Handler, ownerID int64) (int, error)
	CreateTree(ctx context.Context, h db.Handler, ownerID int64, name, description string, public bool) (int64, error)
	UpdateTree(ctx context.Context, h db.Handler, id int64, name, description string) error
	SetTreePublic(ctx context.Context, h db.Handler, id int64, public bool) error
	DeleteTree(ctx context.Context, h db.Handler, id int64) error
}
