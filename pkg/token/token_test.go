package token

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T, now *time.Time) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("test-secret"), WithClock(func() time.Time { return *now }))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewCodecEmptySecret(t *testing.T) {
	if _, err := NewCodec(nil); err != ErrEmptySecret {
		t.Errorf("NewCodec(nil) => %v, want %v", err, ErrEmptySecret)
	}
}

func TestSign(t *testing.T) {
	is := is.New(t)
	now := epoch
	c := newTestCodec(t, &now)

	sig := c.Sign("42.1700000000")
	is.Equal(sig, c.Sign("42.1700000000")) // deterministic
	is.Equal(len(sig), 43)                 // 32 bytes, unpadded
	is.True(!strings.ContainsAny(sig, "=+/"))
	is.True(sig != c.Sign("42.1700000001"))

	other, err := NewCodec([]byte("other-secret"))
	is.NoErr(err)
	is.True(sig != other.Sign("42.1700000000"))
}

func TestIssueVerify(t *testing.T) {
	is := is.New(t)
	now := epoch
	c := newTestCodec(t, &now)

	tok := c.Issue(42, 14*24*time.Hour)
	is.Equal(strings.Count(tok, "."), 2)
	is.True(strings.HasPrefix(tok, "42."))

	sub, ok := c.Verify(tok)
	is.True(ok)
	is.Equal(sub, int64(42))

	// still valid one second before expiry
	now = epoch.Add(14*24*time.Hour - time.Second)
	_, ok = c.Verify(tok)
	is.True(ok)

	// expired once the ttl elapsed
	now = epoch.Add(14*24*time.Hour + time.Second)
	_, ok = c.Verify(tok)
	is.True(!ok)
}

func TestIssueExpired(t *testing.T) {
	now := epoch
	c := newTestCodec(t, &now)
	for _, ttl := range []time.Duration{-time.Second, -time.Nanosecond, 0} {
		if _, ok := c.Verify(c.Issue(7, ttl)); ok {
			t.Errorf("Verify(Issue(7, %s)) => ok, want invalid", ttl)
		}
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	now := epoch
	c := newTestCodec(t, &now)
	tok := c.Issue(42, time.Hour)

	for i := range tok {
		for _, r := range []byte{'0', '9', 'A', 'z', '-', '_', '.'} {
			if tok[i] == r {
				continue
			}
			mutated := tok[:i] + string(r) + tok[i+1:]
			if _, ok := c.Verify(mutated); ok {
				t.Fatalf("Verify(%q) => ok, want invalid (mutated index %d)", mutated, i)
			}
		}
	}
}

func TestVerifyMalformed(t *testing.T) {
	now := epoch
	c := newTestCodec(t, &now)
	valid := c.Issue(42, time.Hour)
	parts := strings.Split(valid, ".")

	for _, tok := range []string{
		"",
		"42",
		"42.123",
		valid + ".extra",
		"abc." + parts[1] + "." + c.Sign("abc."+parts[1]),
		"42.soon." + c.Sign("42.soon"),
		"0." + parts[1] + "." + c.Sign("0."+parts[1]),
		"-3." + parts[1] + "." + c.Sign("-3."+parts[1]),
		parts[0] + "." + parts[1] + "." + parts[2] + "=",
	} {
		if sub, ok := c.Verify(tok); ok || sub != 0 {
			t.Errorf("Verify(%q) => %d, %t, want 0, false", tok, sub, ok)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := epoch
	c := newTestCodec(t, &now)
	other, err := NewCodec([]byte("another"), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := other.Verify(c.Issue(1, time.Hour)); ok {
		t.Error("Verify with another secret => ok, want invalid")
	}
}

func TestSignedValue(t *testing.T) {
	is := is.New(t)
	now := epoch
	c := newTestCodec(t, &now)

	for _, v := range []string{"a@example.com", "with|pipe@example.com", ""} {
		signed := c.SignValue(v)
		got, ok := c.VerifyValue(signed)
		is.True(ok)
		is.Equal(got, v)
	}

	signed := c.SignValue("a@example.com")
	for _, bad := range []string{
		"a@example.com",
		"b@example.com" + signed[len("a@example.com"):],
		signed + "x",
		signed[:len(signed)-1],
	} {
		if _, ok := c.VerifyValue(bad); ok {
			t.Errorf("VerifyValue(%q) => ok, want invalid", bad)
		}
	}
}

func TestJWT(t *testing.T) {
	is := is.New(t)
	now := epoch
	c, err := NewCodec([]byte("test-secret"),
		WithClock(func() time.Time { return now }),
		WithIssuer("https://genesis.example"))
	is.NoErr(err)

	tok, err := c.IssueJWT(9, 7*24*time.Hour)
	is.NoErr(err)

	sub, ok := c.VerifyJWT(tok)
	is.True(ok)
	is.Equal(sub, int64(9))

	// session tokens and bearer tokens are not interchangeable
	_, ok = c.Verify(tok)
	is.True(!ok)
	_, ok = c.VerifyJWT(c.Issue(9, time.Hour))
	is.True(!ok)

	other, err := NewCodec([]byte("test-secret"),
		WithClock(func() time.Time { return now }),
		WithIssuer("https://elsewhere.example"))
	is.NoErr(err)
	_, ok = other.VerifyJWT(tok)
	is.True(!ok)

	now = epoch.Add(8 * 24 * time.Hour)
	_, ok = c.VerifyJWT(tok)
	is.True(!ok)
}
