package backend

import (
	"context"
	"errors"
	"io"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/gedcom"
	"github.com/genesisgates/genesis/pkg/proto"
	ftree "github.com/genesisgates/genesis/pkg/tree"
)

// TreeStructure builds the nested parent to children view of a tree u may
// view. A parent cycle fails with an error wrapping ftree.ErrCycle.
func (d *Backend) TreeStructure(ctx context.Context, u proto.User, treeID int64) (*ftree.Structure, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadOnlyAccess); err != nil {
		return nil, err
	}

	ps, rs, err := d.treeRows(ctx, treeID)
	if err != nil {
		return nil, err
	}

	s, err := ftree.Build(ps, rs)
	if err != nil {
		if errors.Is(err, ftree.ErrCycle) {
			structureCycleCounter.Inc()
			d.logger.Warn("tree has a parent cycle", "tree", treeID, "err", err)
		}
		return nil, err
	}

	structureCounter.Inc()
	return s, nil
}

// ExportGEDCOM writes a tree u may view to w in GEDCOM format.
func (d *Backend) ExportGEDCOM(ctx context.Context, u proto.User, treeID int64, w io.Writer) error {
	t, err := d.requireLevel(ctx, u, treeID, access.ReadOnlyAccess)
	if err != nil {
		return err
	}

	ps, rs, err := d.treeRows(ctx, treeID)
	if err != nil {
		return err
	}

	return gedcom.Export(w, gedcom.Header{
		Source:   d.cfg.Name,
		TreeName: t.Name(),
		Date:     d.now(),
	}, ps, rs)
}

func (d *Backend) treeRows(ctx context.Context, treeID int64) ([]models.Person, []models.Relationship, error) {
	var (
		ps []models.Person
		rs []models.Relationship
	)
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ps, err = d.store.GetPersonsByTree(ctx, tx, treeID)
		if err != nil {
			return err
		}

		rs, err = d.store.GetRelationshipsByTree(ctx, tx, treeID)
		return err
	}); err != nil {
		return nil, nil, db.WrapError(err)
	}

	return ps, rs, nil
}
