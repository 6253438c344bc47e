package store

import (
	"context"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
)

// UserStore is an interface for managing users.
type UserStore interface {
	GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error)
	FindUsers(ctx context.Context, h db.Handler) ([]models.User, error)
	CreateUser(ctx context.Context, h db.Handler, email string, verified bool) (int64, error)
	SetUserVerified(ctx context.Context, h db.Handler, id int64, verified bool) error
	SetUserPlan(ctx context.Context, h db.Handler, id int64, plan string) error
}
