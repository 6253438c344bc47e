package database

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/store"
)

type personStore struct{}

var _ store.PersonStore = (*personStore)(nil)

// CreatePerson implements store.PersonStore.
func (*personStore) CreatePerson(ctx context.Context, tx db.Handler, p models.Person) (int64, error) {
	query := tx.Rebind(`INSERT INTO persons
			(tree_id, first_name, last_name, birth_date, death_date, gender, biography, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	err := tx.GetContext(ctx, &id, query,
		p.TreeID, p.FirstName, p.LastName, p.BirthDate, p.DeathDate, p.Gender, p.Biography)
	return id, db.WrapError(err)
}

// GetPersonByID implements store.PersonStore.
func (*personStore) GetPersonByID(ctx context.Context, tx db.Handler, id int64) (models.Person, error) {
	var m models.Person
	query := tx.Rebind(`SELECT * FROM persons WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, db.WrapError(err)
}

// GetPersonsByTree implements store.PersonStore.
func (*personStore) GetPersonsByTree(ctx context.Context, tx db.Handler, treeID int64) ([]models.Person, error) {
	var m []models.Person
	query := tx.Rebind(`SELECT * FROM persons
		WHERE tree_id = ?
		ORDER BY COALESCE(last_name, ''), first_name, id;`)
	err := tx.SelectContext(ctx, &m, query, treeID)
	return m, db.WrapError(err)
}

// UpdatePerson implements store.PersonStore.
func (*personStore) UpdatePerson(ctx context.Context, tx db.Handler, p models.Person) error {
	query := tx.Rebind(`UPDATE persons SET
			first_name = ?, last_name = ?, birth_date = ?, death_date = ?,
			gender = ?, biography = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND tree_id = ?;`)
	_, err := tx.ExecContext(ctx, query,
		p.FirstName, p.LastName, p.BirthDate, p.DeathDate, p.Gender, p.Biography, p.ID, p.TreeID)
	return db.WrapError(err)
}

// DeletePerson implements store.PersonStore.
func (*personStore) DeletePerson(ctx context.Context, tx db.Handler, id int64) error {
	query := tx.Rebind(`DELETE FROM persons WHERE id = ?;`)
	_, err := tx.ExecContext(ctx, query, id)
	return db.WrapError(err)
}
