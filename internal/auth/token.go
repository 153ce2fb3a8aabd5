package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token verification failure. Forged,
// malformed and expired tokens are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and validates signed, time-limited bearer tokens carrying
// a subject identity. Verification is stateless; validity is purely a
// function of signature and expiry.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// Claims is the token payload: subject user ID plus registered claims.
type Claims struct {
	jwt.RegisteredClaims
}

// NewTokenIssuer constructs an issuer for the given HMAC algorithm name
// (HS256, HS384 or HS512). Unknown names fall back to HS256.
func NewTokenIssuer(secret, algorithm string, ttl time.Duration) *TokenIssuer {
	var method jwt.SigningMethod
	switch algorithm {
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		method = jwt.SigningMethodHS256
	}
	return &TokenIssuer{secret: []byte(secret), method: method, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for the subject, expiring at now + TTL.
func (i *TokenIssuer) Issue(subjectID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(i.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(i.method, claims)
	s, err := t.SignedString(i.secret)
	return s, exp, err
}

// Verify checks signature integrity first, then expiry against now, and
// returns the subject ID. Any failure yields ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenStr string, now time.Time) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
