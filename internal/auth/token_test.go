package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "HS256", 30*time.Minute)
	now := time.Now()

	token, exp, err := issuer.Issue("user-42", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(30*time.Minute), exp, time.Second)

	// Still valid just before expiry.
	sub, err := issuer.Verify(token, now.Add(29*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "HS256", 30*time.Minute)
	now := time.Now()

	token, _, err := issuer.Issue("user-42", now)
	require.NoError(t, err)

	_, err = issuer.Verify(token, now.Add(30*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	right := NewTokenIssuer("right-secret", "HS256", time.Hour)
	wrong := NewTokenIssuer("wrong-secret", "HS256", time.Hour)

	token, _, err := right.Issue("user-42", now)
	require.NoError(t, err)

	_, err = wrong.Verify(token, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_MalformedToken(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "HS256", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c", "not.a jwt"} {
		_, err := issuer.Verify(tok, time.Now())
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestTokenIssuer_Algorithms(t *testing.T) {
	t.Parallel()

	now := time.Now()
	for _, alg := range []string{"HS256", "HS384", "HS512", "unknown"} {
		issuer := NewTokenIssuer("secret", alg, time.Hour)
		token, _, err := issuer.Issue("user-1", now)
		require.NoError(t, err, "alg %s", alg)
		sub, err := issuer.Verify(token, now)
		require.NoError(t, err, "alg %s", alg)
		assert.Equal(t, "user-1", sub)
	}
}

func TestTokenIssuer_UniformError(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "HS256", time.Hour)
	now := time.Now()

	expired, _, err := issuer.Issue("user-1", now.Add(-2*time.Hour))
	require.NoError(t, err)

	forged, _, err := NewTokenIssuer("other", "HS256", time.Hour).Issue("user-1", now)
	require.NoError(t, err)

	// Expired, forged and malformed all collapse to the same error value so
	// callers cannot build an oracle from the distinction.
	for _, tok := range []string{expired, forged, "malformed"} {
		_, err := issuer.Verify(tok, now)
		assert.Equal(t, ErrInvalidToken, err)
	}
}
