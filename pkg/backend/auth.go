package backend

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strconv"
	"strings"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/proto"
	"golang.org/x/crypto/bcrypt"
)

const saltySalt = "salty-genesis"

// codeDigits is the length of a one-time login code.
const codeDigits = 6

// HashCode hashes a login code using bcrypt.
func HashCode(code string) (string, error) {
	crypt, err := bcrypt.GenerateFromPassword([]byte(code+saltySalt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(crypt), nil
}

// VerifyCode verifies a login code against its hash.
func VerifyCode(code, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code+saltySalt))
	return err == nil
}

// GenerateCode returns a random numeric login code.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	return fmt.Sprintf("%0"+strconv.Itoa(codeDigits)+"d", n), nil
}

// NormalizeEmail trims and lower-cases an email address and checks that it
// is a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", proto.ErrInvalidEmail, email)
	}

	return email, nil
}

// StartLogin issues a login code for email and delivers it. The code is only
// stored when delivery succeeds. A delivery failure wraps proto.ErrDelivery
// and keeps the reason so it can be shown to the member.
func (d *Backend) StartLogin(ctx context.Context, email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	hash, err := HashCode(code)
	if err != nil {
		return err
	}

	ttl := d.cfg.Auth.CodeTTL
	expiresAt := d.now().Add(ttl).Unix()
	err = d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.CreateLoginCode(ctx, tx, email, hash, expiresAt); err != nil {
			return err
		}

		if err := d.mailer.SendCode(ctx, email, code, ttl); err != nil {
			return fmt.Errorf("%w: %s", proto.ErrDelivery, err.Error())
		}

		return nil
	})
	if err != nil {
		loginCodesCounter.WithLabelValues("false").Inc()
		d.logger.Error("error issuing login code", "email", email, "err", err)
		return err
	}

	loginCodesCounter.WithLabelValues("true").Inc()
	return nil
}

// VerifyLogin checks code against the most recently issued code for email.
// An unknown, expired, or wrong code returns proto.ErrInvalidCode. On
// success the codes of email are consumed and the member is created when
// this is their first login.
func (d *Backend) VerifyLogin(ctx context.Context, email, code string) (proto.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)

	var m *user
	err = d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		lc, err := d.store.GetLatestLoginCode(ctx, tx, email)
		if err != nil {
			if errors.Is(err, db.ErrRecordNotFound) {
				return proto.ErrInvalidCode
			}
			return err
		}

		if lc.Expired(d.now()) || !VerifyCode(code, lc.CodeHash) {
			return proto.ErrInvalidCode
		}

		if err := d.store.DeleteLoginCodesByEmail(ctx, tx, email); err != nil {
			return err
		}

		u, err := d.store.GetUserByEmail(ctx, tx, email)
		switch {
		case errors.Is(err, db.ErrRecordNotFound):
			id, err := d.store.CreateUser(ctx, tx, email, true)
			if err != nil {
				return err
			}
			d.logger.Info("new member", "email", email, "id", id)
			u, err = d.store.GetUserByID(ctx, tx, id)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		case !u.IsVerified:
			if err := d.store.SetUserVerified(ctx, tx, u.ID, true); err != nil {
				return err
			}
			u.IsVerified = true
		}

		m = &user{user: u}
		return nil
	})
	if err != nil {
		loginsCounter.WithLabelValues("false").Inc()
		return nil, err
	}

	loginsCounter.WithLabelValues("true").Inc()
	return m, nil
}

// PurgeLoginCodes deletes the login codes that expired before now and
// returns how many were removed.
func (d *Backend) PurgeLoginCodes(ctx context.Context) (int64, error) {
	var n int64
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		n, err = d.store.DeleteExpiredLoginCodes(ctx, tx, d.now().Unix())
		return err
	})
	return n, err
}
