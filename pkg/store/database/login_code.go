package database

import (
	"context"
	"strings"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/store"
)

type loginCodeStore struct{}

var _ store.LoginCodeStore = (*loginCodeStore)(nil)

// CreateLoginCode implements store.LoginCodeStore.
func (*loginCodeStore) CreateLoginCode(ctx context.Context, tx db.Handler, email, codeHash string, expiresAt int64) (int64, error) {
	query := tx.Rebind(`INSERT INTO login_codes (email, code_hash, expires_at)
			VALUES (?, ?, ?) RETURNING id;`)

	var id int64
	err := tx.GetContext(ctx, &id, query, strings.ToLower(email), codeHash, expiresAt)
	return id, db.WrapError(err)
}

// GetLatestLoginCode implements store.LoginCodeStore. Ties on created_at are
// broken by id so the last inserted row always wins.
func (*loginCodeStore) GetLatestLoginCode(ctx context.Context, tx db.Handler, email string) (models.LoginCode, error) {
	var m models.LoginCode
	query := tx.Rebind(`SELECT * FROM login_codes
		WHERE email = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1;`)
	err := tx.GetContext(ctx, &m, query, strings.ToLower(email))
	return m, db.WrapError(err)
}

// DeleteLoginCodesByEmail implements store.LoginCodeStore.
func (*loginCodeStore) DeleteLoginCodesByEmail(ctx context.Context, tx db.Handler, email string) error {
	query := tx.Rebind(`DELETE FROM login_codes WHERE email = ?;`)
	_, err := tx.ExecContext(ctx, query, strings.ToLower(email))
	return db.WrapError(err)
}

// DeleteExpiredLoginCodes implements store.LoginCodeStore.
func (*loginCodeStore) DeleteExpiredLoginCodes(ctx context.Context, tx db.Handler, before int64) (int64, error) {
	query := tx.Rebind(`DELETE FROM login_codes WHERE expires_at < ?;`)
	res, err := tx.ExecContext(ctx, query, before)
	if err != nil {
		return 0, db.WrapError(err)
	}
	return res.RowsAffected()
}
