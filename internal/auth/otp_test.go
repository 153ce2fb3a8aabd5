package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_FormatAndLength(t *testing.T) {
	t.Parallel()

	for _, length := range []int{4, 6, 8} {
		kit := NewOTPKit("key", length)
		for i := 0; i < 50; i++ {
			code, err := kit.GenerateCode()
			require.NoError(t, err)
			require.Len(t, code, length)
			for _, r := range code {
				assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
			}
		}
	}
}

func TestGenerateCode_DefaultsLength(t *testing.T) {
	t.Parallel()

	kit := NewOTPKit("key", 0)
	code, err := kit.GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestDigestCode_Deterministic(t *testing.T) {
	t.Parallel()

	kit := NewOTPKit("server-key", 6)
	d1 := kit.DigestCode("123456", "alice@x.com")
	d2 := kit.DigestCode("123456", "alice@x.com")
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, "123456", d1)
}

func TestVerifyCode_RoundTrip(t *testing.T) {
	t.Parallel()

	kit := NewOTPKit("server-key", 6)
	digest := kit.DigestCode("042137", "alice@x.com")

	assert.True(t, kit.VerifyCode("042137", "alice@x.com", digest))
	assert.False(t, kit.VerifyCode("042138", "alice@x.com", digest))
}

func TestVerifyCode_BoundToEmail(t *testing.T) {
	t.Parallel()

	kit := NewOTPKit("server-key", 6)
	digest := kit.DigestCode("042137", "alice@x.com")

	// The same code digested for a different account must not verify.
	assert.False(t, kit.VerifyCode("042137", "bob@x.com", digest))
}

func TestDigestCode_KeyDependent(t *testing.T) {
	t.Parallel()

	a := NewOTPKit("key-a", 6)
	b := NewOTPKit("key-b", 6)
	assert.NotEqual(t, a.DigestCode("555555", "alice@x.com"), b.DigestCode("555555", "alice@x.com"))
}
