package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.COM "))
	assert.Equal(t, "alice@x.com", NormalizeEmail("alice@x.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Alice", NormalizeName("  Alice "))
	assert.Equal(t, "", NormalizeName("   "))
}
