package backend

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/matryer/is"
)

func TestHashCode(t *testing.T) {
	is := is.New(t)

	hash, err := HashCode("123456")
	is.NoErr(err)
	is.True(hash != "")
	is.True(VerifyCode("123456", hash))
	is.True(!VerifyCode("654321", hash))
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != codeDigits || strings.Trim(code, "0123456789") != "" {
			t.Errorf("GenerateCode() => %q, want %d digits", code, codeDigits)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  bool
	}{
		{"a@b.co", "a@b.co", false},
		{"  Ann@Example.COM ", "ann@example.com", false},
		{"", "", true},
		{"not-an-email", "", true},
		{"Ann <ann@example.com>", "", true},
	}

	for _, c := range cases {
		got, err := NormalizeEmail(c.in)
		if c.err {
			if !errors.Is(err, proto.ErrInvalidEmail) {
				t.Errorf("NormalizeEmail(%q) => %v, want ErrInvalidEmail", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("NormalizeEmail(%q) => %q, %v, want %q", c.in, got, err, c.want)
		}
	}
}

func TestLoginCreatesUser(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	u := f.login(t, "Ann@Example.com")
	is.Equal(u.Email(), "ann@example.com")
	is.True(u.IsVerified())
	is.Equal(u.Plan(), proto.PlanFree)

	// a second login finds the same member
	again := f.login(t, "ann@example.com")
	is.Equal(again.ID(), u.ID())
}

func TestLoginCodeSingleUse(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	is.NoErr(f.be.StartLogin(f.ctx, "ann@example.com"))
	code := f.mailer.Code("ann@example.com")

	_, err := f.be.VerifyLogin(f.ctx, "ann@example.com", code)
	is.NoErr(err)

	_, err = f.be.VerifyLogin(f.ctx, "ann@example.com", code)
	is.True(errors.Is(err, proto.ErrInvalidCode))
}

func TestLoginOnlyLatestCode(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	is.NoErr(f.be.StartLogin(f.ctx, "ann@example.com"))
	first := f.mailer.Code("ann@example.com")
	f.now = f.now.Add(time.Second)
	is.NoErr(f.be.StartLogin(f.ctx, "ann@example.com"))
	second := f.mailer.Code("ann@example.com")

	if first != second {
		_, err := f.be.VerifyLogin(f.ctx, "ann@example.com", first)
		is.True(errors.Is(err, proto.ErrInvalidCode))
	}

	_, err := f.be.VerifyLogin(f.ctx, "ann@example.com", second)
	is.NoErr(err)
}

func TestLoginWrongCode(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	_, err := f.be.VerifyLogin(f.ctx, "ann@example.com", "000000")
	is.True(errors.Is(err, proto.ErrInvalidCode)) // no code issued

	is.NoErr(f.be.StartLogin(f.ctx, "ann@example.com"))
	code := f.mailer.Code("ann@example.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = f.be.VerifyLogin(f.ctx, "ann@example.com", wrong)
	is.True(errors.Is(err, proto.ErrInvalidCode))

	// a wrong attempt does not burn the code
	_, err = f.be.VerifyLogin(f.ctx, "ann@example.com", code)
	is.NoErr(err)
}

func TestLoginExpiredCode(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	is.NoErr(f.be.StartLogin(f.ctx, "ann@example.com"))
	code := f.mailer.Code("ann@example.com")

	f.now = f.now.Add(f.be.cfg.Auth.CodeTTL + time.Second)
	_, err := f.be.VerifyLogin(f.ctx, "ann@example.com", code)
	is.True(errors.Is(err, proto.ErrInvalidCode))

	n, err := f.be.PurgeLoginCodes(f.ctx)
	is.NoErr(err)
	is.Equal(n, int64(1))
}

func TestLoginDeliveryFailure(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.mailer.Err = errors.New("mailbox full")

	err := f.be.StartLogin(f.ctx, "ann@example.com")
	is.True(errors.Is(err, proto.ErrDelivery))
	is.True(strings.Contains(err.Error(), "mailbox full"))

	// nothing was stored, so purging finds no rows
	f.now = f.now.Add(time.Hour)
	n, err := f.be.PurgeLoginCodes(f.ctx)
	is.NoErr(err)
	is.Equal(n, int64(0))
}

func TestLoginInvalidEmail(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	err := f.be.StartLogin(f.ctx, "nope")
	is.True(errors.Is(err, proto.ErrInvalidEmail))
	is.True(proto.IsValidation(err))
}
