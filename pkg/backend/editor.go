package backend

import (
	"context"
	"errors"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/proto"
)

// AddEditor grants the member with the given email access to a tree. Only
// the owner may do this. Granting an existing editor again replaces their
// can-edit flag. An email that belongs to no member, or to the owner, is
// ignored and reported as success.
func (d *Backend) AddEditor(ctx context.Context, owner proto.User, treeID int64, email string, canEdit bool) error {
	t, err := d.requireLevel(ctx, owner, treeID, access.OwnerAccess)
	if err != nil {
		return err
	}

	email, err = NormalizeEmail(email)
	if err != nil {
		return err
	}

	return db.WrapError(d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		u, err := d.store.GetUserByEmail(ctx, tx, email)
		if err != nil {
			if errors.Is(err, db.ErrRecordNotFound) {
				d.logger.Debug("editor email has no member", "tree", treeID, "email", email)
				return nil
			}
			return err
		}

		if u.ID == t.OwnerID() {
			d.logger.Debug("owner cannot be an editor", "tree", treeID)
			return nil
		}

		return d.store.UpsertEditor(ctx, tx, treeID, u.ID, canEdit)
	}))
}

// RemoveEditor revokes the grant of a member on a tree. Only the owner may
// do this. Removing someone who is not an editor is a no-op.
func (d *Backend) RemoveEditor(ctx context.Context, owner proto.User, treeID, userID int64) error {
	if _, err := d.requireLevel(ctx, owner, treeID, access.OwnerAccess); err != nil {
		return err
	}

	return db.WrapError(d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.RemoveEditor(ctx, tx, treeID, userID)
	}))
}

// Editors lists the editors of a tree. Only the owner may do this.
func (d *Backend) Editors(ctx context.Context, owner proto.User, treeID int64) ([]proto.Editor, error) {
	if _, err := d.requireLevel(ctx, owner, treeID, access.OwnerAccess); err != nil {
		return nil, err
	}

	var ms []models.EditorUser
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.ListEditorsByTree(ctx, tx, treeID)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	editors := make([]proto.Editor, 0, len(ms))
	for _, m := range ms {
		editors = append(editors, proto.Editor{
			UserID:  m.UserID,
			Email:   m.Email,
			CanEdit: m.CanEdit,
		})
	}

	return editors, nil
}
