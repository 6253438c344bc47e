package backend

import (
	"context"
	"errors"
	"time"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/models"
	"github.com/genesisgates/genesis/pkg/proto"
)

// UserByID finds a member by id.
func (d *Backend) UserByID(ctx context.Context, id int64) (proto.User, error) {
	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByID(ctx, tx, id)
		return err
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrUserNotFound
		}
		d.logger.Error("error finding user", "id", id, "err", err)
		return nil, err
	}

	return &user{user: m}, nil
}

// UserByEmail finds a member by email address.
func (d *Backend) UserByEmail(ctx context.Context, email string) (proto.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var m models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByEmail(ctx, tx, email)
		return err
	}); err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrUserNotFound
		}
		d.logger.Error("error finding user", "email", email, "err", err)
		return nil, err
	}

	return &user{user: m}, nil
}

// Users returns all members.
func (d *Backend) Users(ctx context.Context) ([]proto.User, error) {
	var ms []models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		ms, err = d.store.FindUsers(ctx, tx)
		return err
	}); err != nil {
		return nil, db.WrapError(err)
	}

	users := make([]proto.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, &user{user: m})
	}

	return users, nil
}

// SetUserPlan changes the membership plan of a member. Downgrading keeps
// existing trees; the limit only applies to new ones.
func (d *Backend) SetUserPlan(ctx context.Context, u proto.User, plan string) (proto.User, error) {
	if u == nil {
		return nil, proto.ErrUnauthorized
	}

	p, err := proto.ParsePlan(plan)
	if err != nil {
		return nil, err
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.SetUserPlan(ctx, tx, u.ID(), p.String())
	}); err != nil {
		return nil, db.WrapError(err)
	}

	d.logger.Info("plan changed", "user", u.ID(), "plan", p)
	return d.UserByID(ctx, u.ID())
}

type user struct {
	user models.User
}

var _ proto.User = (*user)(nil)

// ID implements proto.User.
func (u *user) ID() int64 {
	return u.user.ID
}

// Email implements proto.User.
func (u *user) Email() string {
	return u.user.Email
}

// IsVerified implements proto.User.
func (u *user) IsVerified() bool {
	return u.user.IsVerified
}

// Plan implements proto.User.
func (u *user) Plan() proto.Plan {
	if p, err := proto.ParsePlan(u.user.Plan); err == nil {
		return p
	}
	return proto.PlanFree
}

// CreatedAt implements proto.User.
func (u *user) CreatedAt() time.Time {
	return u.user.CreatedAt
}
