// Package token issues and verifies the credentials carried by browser
// cookies and API clients.
//
// Session tokens have the form "subject.expires.signature", where subject is
// a member id, expires is a unix timestamp in seconds, and signature is the
// unpadded URL-safe base64 HMAC-SHA256 of "subject.expires". Signed values
// have the form "value|signature" and carry no expiry of their own.
package token

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when a codec is created without a secret.
var ErrEmptySecret = errors.New("token: empty secret")

const (
	sep      = "."
	valueSep = "|"
)

// Codec signs and verifies tokens with a single secret. It is safe for
// concurrent use.
type Codec struct {
	key    []byte
	issuer string
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock sets the clock used to compute and check expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithIssuer sets the issuer of bearer tokens.
func WithIssuer(iss string) Option {
	return func(c *Codec) {
		c.issuer = iss
	}
}

// WithLogger sets a logger that receives the reason a token failed to
// verify. Callers only ever see a boolean.
func WithLogger(l *log.Logger) Option {
	return func(c *Codec) {
		c.logger = l
	}
}

// NewCodec returns a codec signing with secret.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		key: append([]byte(nil), secret...),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Sign returns the HMAC-SHA256 of payload encoded as unpadded URL-safe
// base64.
func (c *Codec) Sign(payload string) string {
	sig, err := jwt.SigningMethodHS256.Sign(payload, c.key)
	if err != nil {
		// only possible with a non []byte key
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(sig)
}

// Issue returns a session token for subject that expires after ttl.
// A non-positive ttl yields a token that is already expired.
func (c *Codec) Issue(subject int64, ttl time.Duration) string {
	now := c.now()
	exp := now.Add(ttl).Unix()
	if ttl <= 0 && exp >= now.Unix() {
		exp = now.Unix() - 1
	}

	payload := strconv.FormatInt(subject, 10) + sep + strconv.FormatInt(exp, 10)
	return payload + sep + c.Sign(payload)
}

// Verify returns the subject of a session token. ok is false when the token
// is malformed, carries a bad signature, or has expired.
func (c *Codec) Verify(token string) (subject int64, ok bool) {
	parts := strings.Split(token, sep)
	if len(parts) != 3 {
		c.reject("malformed")
		return 0, false
	}

	payload := parts[0] + sep + parts[1]
	if !c.equal(c.Sign(payload), parts[2]) {
		c.reject("bad signature")
		return 0, false
	}

	subject, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || subject <= 0 {
		c.reject("bad subject")
		return 0, false
	}

	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		c.reject("bad expiry")
		return 0, false
	}

	if exp < c.now().Unix() {
		c.reject("expired")
		return 0, false
	}

	return subject, true
}

// SignValue returns "value|signature".
func (c *Codec) SignValue(value string) string {
	return value + valueSep + c.Sign(value)
}

// VerifyValue returns the value of a string produced by SignValue.
func (c *Codec) VerifyValue(signed string) (value string, ok bool) {
	i := strings.LastIndex(signed, valueSep)
	if i < 0 {
		c.reject("malformed value")
		return "", false
	}

	value = signed[:i]
	if !c.equal(c.Sign(value), signed[i+1:]) {
		c.reject("bad value signature")
		return "", false
	}

	return value, true
}

func (c *Codec) equal(expected, actual string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

func (c *Codec) reject(reason string) {
	if c.logger != nil {
		c.logger.Debug("token rejected", "reason", reason)
	}
}
