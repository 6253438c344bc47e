package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/proto"
)

// CreateTree creates a tree owned by owner. Members on the free plan can own
// at most cfg.Plans.FreeTreeLimit trees.
func (d *Backend) CreateTree(ctx context.Context, owner proto.User, name string, opts proto.TreeOptions) (proto.Tree, error) {
	if owner == nil {
		return nil, proto.ErrUnauthorized
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, proto.ErrEmptyName
	}

	var id int64
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if limit := d.cfg.Plans.FreeTreeLimit; limit > 0 && owner.Plan() == proto.PlanFree {
			count, err := d.store.CountTreesByOwner(ctx, tx, owner.ID())
			if err != nil {
				return err
			}
			if count >= limit {
				return proto.ErrTreeLimit
			}
		}

		var err error
		id, err = d.store.CreateTree(ctx, tx, owner.ID(), name, strings.TrimSpace(opts.Description), opts.Public)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	d.logger.Info("tree created", "tree", id, "owner", owner.ID())
	return d.Tree(ctx, id)
}

// Tree returns the tree with the given id without checking access.
func (d *Backend) Tree(ctx context.Context, id int64) (proto.Tree, error) {
	if t, ok := d.cache.Get(id); ok {
		return t, nil
	}

	var m models.Tree
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetTreeByID(ctx, tx, id)
		return err
	}); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrTreeNotFound
		}
		return nil, db.WrapError(err)
	}

	t := &tree{tree: m}
	d.cache.Set(id, t)

	return t, nil
}

// TreeForUser returns a tree together with the access level of u. It fails
// with proto.ErrUnauthorized when u may not view the tree.
func (d *Backend) TreeForUser(ctx context.Context, u proto.User, id int64) (proto.Tree, access.AccessLevel, error) {
	t, err := d.Tree(ctx, id)
	if err != nil {
		return nil, access.NoAccess, err
	}

	level, err := d.AccessLevelForUser(ctx, t, u)
	if err != nil {
		return nil, access.NoAccess, err
	}

	if !level.CanView() {
		return nil, level, proto.ErrUnauthorized
	}

	return t, level, nil
}

// UserTrees returns the trees owned by u, newest first.
func (d *Backend) UserTrees(ctx context.Context, u proto.User) ([]proto.TreeSummary, error) {
	if u == nil {
		return nil, proto.ErrUnauthorized
	}
	return d.summaries(ctx, func(tx *db.Tx) ([]models.TreeSummary, error) {
		return d.store.GetTreesByOwner(ctx, tx, u.ID())
	})
}

// SharedTrees returns the trees u was made an editor of.
func (d *Backend) SharedTrees(ctx context.Context, u proto.User) ([]proto.TreeSummary, error) {
	if u == nil {
		return nil, proto.ErrUnauthorized
	}
	return d.summaries(ctx, func(tx *db.Tx) ([]models.TreeSummary, error) {
		return d.store.GetTreesByEditor(ctx, tx, u.ID())
	})
}

// PublicTrees returns every public tree.
func (d *Backend) PublicTrees(ctx context.Context) ([]proto.TreeSummary, error) {
	return d.summaries(ctx, func(tx *db.Tx) ([]models.TreeSummary, error) {
		return d.store.GetPublicTrees(ctx, tx)
	})
}

func (d *Backend) summaries(ctx context.Context, fn func(tx *db.Tx) ([]models.TreeSummary, error)) ([]proto.TreeSummary, error) {
	var ms []models.TreeSummary
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = fn(tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	out := make([]proto.TreeSummary, 0, len(ms))
	for _, m := range ms {
		out = append(out, proto.TreeSummary{
			Tree:        &tree{tree: m.Tree},
			PersonCount: m.PersonCount,
		})
	}

	return out, nil
}

// UpdateTree renames a tree and replaces its description. Editors with edit
// rights may do this.
func (d *Backend) UpdateTree(ctx context.Context, u proto.User, id int64, name, description string) (proto.Tree, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, proto.ErrEmptyName
	}

	if _, err := d.requireLevel(ctx, u, id, access.ReadWriteAccess); err != nil {
		return nil, err
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.UpdateTree(ctx, tx, id, name, strings.TrimSpace(description))
	}); err != nil {
		return nil, db.WrapError(err)
	}

	d.cache.Delete(id)
	return d.Tree(ctx, id)
}

// SetTreePublic changes the visibility of a tree. Only the owner may do
// this.
func (d *Backend) SetTreePublic(ctx context.Context, u proto.User, id int64, public bool) (proto.Tree, error) {
	if _, err := d.requireLevel(ctx, u, id, access.OwnerAccess); err != nil {
		return nil, err
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.SetTreePublic(ctx, tx, id, public)
	}); err != nil {
		return nil, db.WrapError(err)
	}

	d.cache.Delete(id)
	return d.Tree(ctx, id)
}

// DeleteTree deletes a tree with its persons, relationships, and editor
// grants. Only the owner may do this.
func (d *Backend) DeleteTree(ctx context.Context, u proto.User, id int64) error {
	if _, err := d.requireLevel(ctx, u, id, access.OwnerAccess); err != nil {
		return err
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.DeleteTree(ctx, tx, id)
	}); err != nil {
		return db.WrapError(err)
	}

	d.cache.Delete(id)
	d.logger.Info("tree deleted", "tree", id, "user", u.ID())
	return nil
}

// requireLevel loads a tree and fails with proto.ErrUnauthorized unless u
// holds at least level on it.
func (d *Backend) requireLevel(ctx context.Context, u proto.User, id int64, level access.AccessLevel) (proto.Tree, error) {
	t, err := d.Tree(ctx, id)
	if err != nil {
		return nil, err
	}

	got, err := d.AccessLevelForUser(ctx, t, u)
	if err != nil {
		return nil, err
	}

	if got < level {
		return nil, proto.ErrUnauthorized
	}

	return t, nil
}

type tree struct {
	tree models.Tree
}

var _ proto.Tree = (*tree)(nil)

// ID implements proto.Tree.
func (t *tree) ID() int64 {
	return t.tree.ID
}

// Name implements proto.Tree.
func (t *tree) Name() string {
	return t.tree.Name
}

// Description implements proto.Tree.
func (t *tree) Description() string {
	return t.tree.Description
}

// OwnerID implements proto.Tree.
func (t *tree) OwnerID() int64 {
	return t.tree.OwnerID
}

// IsPublic implements proto.Tree.
func (t *tree) IsPublic() bool {
	return t.tree.IsPublic
}

// CreatedAt implements proto.Tree.
func (t *tree) CreatedAt() time.Time {
	return t.tree.CreatedAt
}
