package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueJWT returns an HS256 bearer token for subject that expires after ttl.
func (c *Codec) IssueJWT(subject int64, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subject, 10),
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// VerifyJWT returns the subject of a bearer token. Like Verify, every
// failure collapses into ok being false.
func (c *Codec) VerifyJWT(bearer string) (subject int64, ok bool) {
	var claims jwt.RegisteredClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	_, err := jwt.ParseWithClaims(bearer, &claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			c.reject("expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			c.reject("bad signature")
		default:
			c.reject(err.Error())
		}
		return 0, false
	}

	subject, err = strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subject <= 0 {
		c.reject("bad subject")
		return 0, false
	}

	return subject, true
}
