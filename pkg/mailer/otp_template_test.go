package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyOTP(t *testing.T) {
	t.Parallel()

	subject, text, html, err := RenderVerifyOTP(map[string]any{
		"Name":             "Alice",
		"Code":             "482910",
		"ExpiresInMinutes": float64(10), // as decoded from a JSON job payload
	})
	require.NoError(t, err)
	assert.Equal(t, "Your verification code", subject)
	assert.Contains(t, text, "482910")
	assert.Contains(t, text, "10 minutes")
	assert.Contains(t, html, "482910")
	assert.Contains(t, html, "Hi Alice")
}

func TestRenderVerifyOTP_MissingCode(t *testing.T) {
	t.Parallel()

	_, _, _, err := RenderVerifyOTP(map[string]any{"Name": "Alice"})
	assert.Error(t, err)
}

func TestRenderVerifyOTP_MissingNameFallsBack(t *testing.T) {
	t.Parallel()

	_, text, html, err := RenderVerifyOTP(map[string]any{"Code": "111111"})
	require.NoError(t, err)
	assert.Contains(t, text, "Hi there")
	assert.Contains(t, html, "Hi there")
}

func TestRenderVerifyOTP_EscapesName(t *testing.T) {
	t.Parallel()

	_, _, html, err := RenderVerifyOTP(map[string]any{
		"Name": "<script>alert(1)</script>",
		"Code": "222222",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
