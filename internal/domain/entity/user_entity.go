package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password. OTPDigest holds a keyed
// digest of the currently active verification code, never the code itself;
// both OTP fields are nil once the account is verified.
type User struct {
	ID                string
	Email             string
	Password          string
	Name              string
	Country           string
	City              string
	PreferredCurrency string
	IsVerified        bool
	OTPDigest         *string
	OTPExpiresAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
