package backend

import (
	"context"
	"errors"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/proto"
)

// IsOwner reports whether u owns t. Anonymous callers own nothing.
func (d *Backend) IsOwner(u proto.User, t proto.Tree) bool {
	return u != nil && t != nil && t.OwnerID() == u.ID()
}

// IsEditor reports whether u holds an editor grant on t, and whether that
// grant allows editing.
func (d *Backend) IsEditor(ctx context.Context, u proto.User, t proto.Tree) (canEdit bool, isEditor bool, err error) {
	if u == nil || t == nil {
		return false, false, nil
	}

	var m models.TreeEditor
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetEditor(ctx, tx, t.ID(), u.ID())
		return err
	}); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, db.WrapError(err)
	}

	return m.CanEdit, true, nil
}

// AccessLevelForUser returns the access level of u on t. u is nil for
// anonymous callers. Errors only come from the store.
func (d *Backend) AccessLevelForUser(ctx context.Context, t proto.Tree, u proto.User) (access.AccessLevel, error) {
	if t == nil {
		return access.NoAccess, nil
	}

	if d.IsOwner(u, t) {
		return access.OwnerAccess, nil
	}

	var grant *access.Grant
	canEdit, isEditor, err := d.IsEditor(ctx, u, t)
	if err != nil {
		return access.NoAccess, err
	}
	if isEditor {
		grant = &access.Grant{CanEdit: canEdit}
	}

	return access.Resolve(false, t.IsPublic(), grant), nil
}

// CanView reports whether u may view t.
func (d *Backend) CanView(ctx context.Context, u proto.User, t proto.Tree) (bool, error) {
	level, err := d.AccessLevelForUser(ctx, t, u)
	return level.CanView(), err
}

// CanEdit reports whether u may change the persons and relationships of t.
func (d *Backend) CanEdit(ctx context.Context, u proto.User, t proto.Tree) (bool, error) {
	level, err := d.AccessLevelForUser(ctx, t, u)
	return level.CanEdit(), err
}
