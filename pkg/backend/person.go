package backend

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/genesisgates/genesis/pkg/access"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/proto"
)

// Persons returns the persons of a tree u may view.
func (d *Backend) Persons(ctx context.Context, u proto.User, treeID int64) ([]models.Person, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadOnlyAccess); err != nil {
		return nil, err
	}

	var ps []models.Person
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ps, err = d.store.GetPersonsByTree(ctx, tx, treeID)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	return ps, nil
}

// Person returns a single person of a tree u may view.
func (d *Backend) Person(ctx context.Context, u proto.User, treeID, personID int64) (models.Person, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadOnlyAccess); err != nil {
		return models.Person{}, err
	}

	var p models.Person
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		p, err = d.personInTree(ctx, tx, treeID, personID)
		return err
	})

	return p, err
}

// AddPerson adds a person to a tree. u must be able to edit the tree.
func (d *Backend) AddPerson(ctx context.Context, u proto.User, treeID int64, opts proto.PersonOptions) (models.Person, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadWriteAccess); err != nil {
		return models.Person{}, err
	}

	p, err := d.personFromOptions(opts)
	if err != nil {
		return models.Person{}, err
	}
	p.TreeID = treeID

	err = d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		id, err := d.store.CreatePerson(ctx, tx, p)
		if err != nil {
			return err
		}

		p, err = d.store.GetPersonByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Person{}, db.WrapError(err)
	}

	return p, nil
}

// UpdatePerson replaces the fields of a person. u must be able to edit the
// tree.
func (d *Backend) UpdatePerson(ctx context.Context, u proto.User, treeID, personID int64, opts proto.PersonOptions) (models.Person, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadWriteAccess); err != nil {
		return models.Person{}, err
	}

	next, err := d.personFromOptions(opts)
	if err != nil {
		return models.Person{}, err
	}

	var p models.Person
	err = d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.personInTree(ctx, tx, treeID, personID); err != nil {
			return err
		}

		next.ID = personID
		next.TreeID = treeID
		if err := d.store.UpdatePerson(ctx, tx, next); err != nil {
			return err
		}

		p, err = d.store.GetPersonByID(ctx, tx, personID)
		return err
	})
	if err != nil {
		return models.Person{}, db.WrapError(err)
	}

	return p, nil
}

// DeletePerson removes a person and every relationship that names them. u
// must be able to edit the tree.
func (d *Backend) DeletePerson(ctx context.Context, u proto.User, treeID, personID int64) error {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadWriteAccess); err != nil {
		return err
	}

	return db.WrapError(d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.personInTree(ctx, tx, treeID, personID); err != nil {
			return err
		}

		return d.store.DeletePerson(ctx, tx, personID)
	}))
}

// Relationships returns the relationships of a tree u may view.
func (d *Backend) Relationships(ctx context.Context, u proto.User, treeID int64) ([]models.Relationship, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadOnlyAccess); err != nil {
		return nil, err
	}

	var rs []models.Relationship
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		rs, err = d.store.GetRelationshipsByTree(ctx, tx, treeID)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	return rs, nil
}

// AddRelationship records that personID relates to relatedID with the given
// type. For "parent", personID is the parent of relatedID. Both persons must
// be distinct members of the tree. u must be able to edit the tree.
func (d *Backend) AddRelationship(ctx context.Context, u proto.User, treeID, personID, relatedID int64, relType string) (models.Relationship, error) {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadWriteAccess); err != nil {
		return models.Relationship{}, err
	}

	relType = strings.ToLower(strings.TrimSpace(relType))
	if relType == "" || personID == relatedID {
		return models.Relationship{}, proto.ErrInvalidRelationship
	}

	r := models.Relationship{
		TreeID:          treeID,
		PersonID:        personID,
		RelatedPersonID: relatedID,
		RelationType:    relType,
	}

	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		for _, id := range []int64{personID, relatedID} {
			if _, err := d.personInTree(ctx, tx, treeID, id); err != nil {
				if errors.Is(err, proto.ErrPersonNotFound) {
					return proto.ErrInvalidRelationship
				}
				return err
			}
		}

		var err error
		r.ID, err = d.store.CreateRelationship(ctx, tx, r)
		return err
	})
	if err != nil {
		return models.Relationship{}, db.WrapError(err)
	}

	r.CreatedAt = d.now()
	return r, nil
}

// DeleteRelationship removes a relationship from a tree. u must be able to
// edit the tree.
func (d *Backend) DeleteRelationship(ctx context.Context, u proto.User, treeID, id int64) error {
	if _, err := d.requireLevel(ctx, u, treeID, access.ReadWriteAccess); err != nil {
		return err
	}

	return db.WrapError(d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.DeleteRelationship(ctx, tx, treeID, id)
	}))
}

func (d *Backend) personInTree(ctx context.Context, tx *db.Tx, treeID, personID int64) (models.Person, error) {
	p, err := d.store.GetPersonByID(ctx, tx, personID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return models.Person{}, proto.ErrPersonNotFound
		}
		return models.Person{}, err
	}

	if p.TreeID != treeID {
		return models.Person{}, proto.ErrPersonNotFound
	}

	return p, nil
}

func (d *Backend) personFromOptions(opts proto.PersonOptions) (models.Person, error) {
	first := strings.TrimSpace(opts.FirstName)
	if first == "" {
		return models.Person{}, proto.ErrEmptyName
	}

	return models.Person{
		FirstName: first,
		LastName:  nullString(opts.LastName),
		BirthDate: nullString(opts.BirthDate),
		DeathDate: nullString(opts.DeathDate),
		Gender:    nullString(strings.ToLower(opts.Gender)),
		Biography: nullString(d.policy.Sanitize(opts.Biography)),
	}, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
