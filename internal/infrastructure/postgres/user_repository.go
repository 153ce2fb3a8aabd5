package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pennyflow/backend/internal/domain/entity"
	"github.com/pennyflow/backend/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, country, city, preferred_currency,
	is_verified, otp_digest, otp_expires_at, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var city *string
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Country, &city,
		&u.PreferredCurrency, &u.IsVerified, &u.OTPDigest, &u.OTPExpiresAt,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if city != nil {
		u.City = *city
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, country, city, preferred_currency,
			is_verified, otp_digest, otp_expires_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Country, u.City, u.PreferredCurrency,
		u.IsVerified, u.OTPDigest, u.OTPExpiresAt)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, country = $2, city = NULLIF($3, ''), preferred_currency = $4, updated_at = $5
		WHERE id = $6
	`, u.Name, u.Country, u.City, u.PreferredCurrency, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetOTP(ctx context.Context, id, digest string, expiresAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET otp_digest = $1, otp_expires_at = $2, updated_at = now()
		WHERE id = $3 AND is_verified = FALSE
	`, digest, expiresAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ConsumeOTP is the atomic read-validate-write boundary for verification: the
// row flips to verified only if it still holds exactly the digest the caller
// validated, so two racing verifications cannot both succeed.
func (r *UserRepository) ConsumeOTP(ctx context.Context, id, digest string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, otp_digest = NULL, otp_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND is_verified = FALSE AND otp_digest = $2
	`, id, digest)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
