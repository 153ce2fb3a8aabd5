package repository

import (
	"context"
	"time"

	"github.com/pennyflow/backend/internal/domain/entity"
)

// UserRepository defines the persistence operations the auth and settings
// services need. Implementations must make ConsumeOTP atomic with respect to
// concurrent writers of the same record.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetOTP replaces the stored OTP digest and expiry wholesale, invalidating
	// any previously issued code.
	SetOTP(ctx context.Context, id, digest string, expiresAt time.Time) error
	// ConsumeOTP flips the record to verified and clears the OTP pair in a
	// single compare-and-swap: it succeeds only if the record is still
	// unverified and still carries exactly the given digest. Returns false
	// when another writer got there first.
	ConsumeOTP(ctx context.Context, id, digest string) (bool, error)
}
