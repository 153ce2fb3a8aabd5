package helpers

import "strings"

// NormalizeEmail lowercases and trims surrounding whitespace so lookups and
// the unique index always see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims surrounding whitespace from free-form profile fields.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
