package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes the plain text password using bcrypt. The returned
// digest embeds the cost and a random salt, so two hashes of the same
// password differ yet both verify.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt digest with a plain password. A malformed
// digest is reported as a mismatch, never a panic.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
