package database

import (
	"context"
	"strings"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/store"
)

type userStore struct{}

var _ store.UserStore = (*userStore)(nil)

// CreateUser implements store.UserStore.
func (*userStore) CreateUser(ctx context.Context, tx db.Handler, email string, verified bool) (int64, error) {
	query := tx.Rebind(`INSERT INTO users (email, is_verified, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	err := tx.GetContext(ctx, &id, query, strings.ToLower(email), verified)
	return id, db.WrapError(err)
}

// GetUserByID implements store.UserStore.
func (*userStore) GetUserByID(ctx context.Context, tx db.Handler, id int64) (models.User, error) {
	var m models.User
	query := tx.Rebind(`SELECT * FROM users WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, db.WrapError(err)
}

// GetUserByEmail implements store.UserStore.
func (*userStore) GetUserByEmail(ctx context.Context, tx db.Handler, email string) (models.User, error) {
	var m models.User
	query := tx.Rebind(`SELECT * FROM users WHERE email = ?;`)
	err := tx.GetContext(ctx, &m, query, strings.ToLower(email))
	return m, db.WrapError(err)
}

// FindUsers implements store.UserStore.
func (*userStore) FindUsers(ctx context.Context, tx db.Handler) ([]models.User, error) {
	var m []models.User
	query := tx.Rebind(`SELECT * FROM users ORDER BY id;`)
	err := tx.SelectContext(ctx, &m, query)
	return m, db.WrapError(err)
}

// SetUserVerified implements store.UserStore.
func (*userStore) SetUserVerified(ctx context.Context, tx db.Handler, id int64, verified bool) error {
	query := tx.Rebind(`UPDATE users SET is_verified = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	_, err := tx.ExecContext(ctx, query, verified, id)
	return db.WrapError(err)
}

// SetUserPlan implements store.UserStore.
func (*userStore) SetUserPlan(ctx context.Context, tx db.Handler, id int64, plan string) error {
	query := tx.Rebind(`UPDATE users SET plan = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	_, err := tx.ExecContext(ctx, query, plan, id)
	return db.WrapError(err)
}
