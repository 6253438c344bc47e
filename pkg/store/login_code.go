package store

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
)

// LoginCodeStore is an interface for managing one-time login codes.
type LoginCodeStore interface {
	CreateLoginCode(ctx context.Context, h db.Handler, email, codeHash string, expiresAt int64) (int64, error)
	GetLatestLoginCode(ctx context.Context, h db.Handler, email string) (models.LoginCode, error)
	DeleteLoginCodesByEmail(ctx context.Context, h db.Handler, email string) error
	DeleteExpiredLoginCodes(ctx context.Context, h db.Handler, before int64) (int64, error)
}
