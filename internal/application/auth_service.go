package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pennyflow/backend/internal/auth"
	"github.com/pennyflow/backend/internal/domain/entity"
	repo "github.com/pennyflow/backend/internal/domain/repository"
	"github.com/pennyflow/backend/pkg/helpers"
)

// OTPDispatcher hands a freshly generated code off for out-of-band delivery.
// The plaintext code crosses this boundary exactly once; only its digest is
// ever persisted.
type OTPDispatcher interface {
	SendOTP(ctx context.Context, email, name, code string) error
}

// AuthService sequences the credential, OTP and token components against
// stored user state. Each operation is a short-lived unit of work; the only
// shared state is immutable configuration.
type AuthService struct {
	Repo     repo.UserRepository
	OTP      *auth.OTPKit
	Tokens   *auth.TokenIssuer
	Dispatch OTPDispatcher
	Logger   *logrus.Logger

	OTPExpiry time.Duration
	// ResendOnDuplicateRegister controls whether registering an email that is
	// already pending verification issues a fresh code or just re-signals
	// "accepted, pending" without touching the stored one.
	ResendOnDuplicateRegister bool

	now func() time.Time
}

func NewAuthService(r repo.UserRepository, otp *auth.OTPKit, tokens *auth.TokenIssuer, dispatch OTPDispatcher, logger *logrus.Logger, otpExpiry time.Duration, resendOnDuplicateRegister bool) *AuthService {
	return &AuthService{
		Repo:                      r,
		OTP:                       otp,
		Tokens:                    tokens,
		Dispatch:                  dispatch,
		Logger:                    logger,
		OTPExpiry:                 otpExpiry,
		ResendOnDuplicateRegister: resendOnDuplicateRegister,
		now:                       time.Now,
	}
}

// SetClock overrides the time source. Tests use it to simulate expiry.
func (s *AuthService) SetClock(now func() time.Time) { s.now = now }

type RegisterInput struct {
	Email             string
	Password          string
	Name              string
	Country           string
	City              string
	PreferredCurrency string
}

type RegisterResult struct {
	User *entity.User
	// Pending is true when the email was already registered but not yet
	// verified; no new account was created.
	Pending bool
}

// Register creates an unverified account with its first OTP challenge. The
// record is committed before the code is dispatched; a dispatch failure is
// reported as ErrOTPDispatchFailed alongside the result and never rolls the
// record back.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	email := helpers.NormalizeEmail(in.Email)

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		s.logWarn("register attempt for verified email")
		return nil, ErrEmailAlreadyVerified
	}
	if existing != nil {
		s.logWarn("register attempt for pending email")
		res := &RegisterResult{User: existing, Pending: true}
		if !s.ResendOnDuplicateRegister {
			return res, nil
		}
		if err := s.issueOTP(ctx, existing); err != nil {
			return res, err
		}
		return res, nil
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, err := s.OTP.GenerateCode()
	if err != nil {
		return nil, err
	}
	digest := s.OTP.DigestCode(code, email)
	expiry := s.now().Add(s.OTPExpiry)

	u := &entity.User{
		Email:             email,
		Password:          hash,
		Name:              helpers.NormalizeName(in.Name),
		Country:           in.Country,
		City:              in.City,
		PreferredCurrency: in.PreferredCurrency,
		IsVerified:        false,
		OTPDigest:         &digest,
		OTPExpiresAt:      &expiry,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logInfo("new user registered, verification pending")

	res := &RegisterResult{User: u}
	if err := s.dispatchOTP(ctx, u, code); err != nil {
		return res, err
	}
	return res, nil
}

// Login validates credentials and issues a session token. Unknown email and
// wrong password collapse into one error so the response cannot be used to
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	email = helpers.NormalizeEmail(email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, "", time.Time{}, err
	}
	if u == nil || !auth.CheckPassword(u.Password, password) {
		s.logWarn("login rejected: invalid credentials")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !u.IsVerified {
		s.logWarn("login rejected: email not verified")
		return nil, "", time.Time{}, ErrEmailNotVerified
	}
	token, exp, err := s.Tokens.Issue(u.ID, s.now())
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.logInfo("user logged in")
	return u, token, exp, nil
}

type VerifyEmailResult struct {
	// AlreadyVerified marks the idempotent outcome: the account was verified
	// before this call (or a concurrent call won the race).
	AlreadyVerified bool
}

// VerifyEmailOTP checks a presented code against the stored digest and, on
// match, clears the OTP pair and flips the account to verified in one atomic
// step. Expiry is enforced before the digest is even compared.
func (s *AuthService) VerifyEmailOTP(ctx context.Context, email, code string) (*VerifyEmailResult, error) {
	email = helpers.NormalizeEmail(email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if u == nil {
		s.logWarn("otp verification for unknown user")
		return nil, ErrUserNotFound
	}
	if u.IsVerified {
		return &VerifyEmailResult{AlreadyVerified: true}, nil
	}
	if u.OTPDigest == nil {
		s.logWarn("otp verification without an outstanding code")
		return nil, ErrNoOTP
	}
	if u.OTPExpiresAt == nil || !s.now().Before(*u.OTPExpiresAt) {
		s.logWarn("otp verification with expired code")
		return nil, ErrOTPExpired
	}
	if !s.OTP.VerifyCode(code, email, *u.OTPDigest) {
		s.logWarn("otp verification with wrong code")
		return nil, ErrInvalidOTP
	}

	ok, err := s.Repo.ConsumeOTP(ctx, u.ID, *u.OTPDigest)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race. A concurrent verify leaves the record verified; a
		// concurrent resend leaves it pending with a new digest, so the
		// presented code is stale. Re-read to tell the two apart.
		cur, err := s.Repo.GetByID(ctx, u.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if cur.IsVerified {
			return &VerifyEmailResult{AlreadyVerified: true}, nil
		}
		s.logWarn("otp verification lost to a concurrent resend")
		return nil, ErrInvalidOTP
	}
	s.logInfo("user email verified")
	return &VerifyEmailResult{}, nil
}

type ResendOTPResult struct {
	AlreadyVerified bool
}

// ResendOTP replaces any outstanding code wholesale and dispatches the new
// one. Resending to a verified account is an idempotent no-op.
func (s *AuthService) ResendOTP(ctx context.Context, email string) (*ResendOTPResult, error) {
	email = helpers.NormalizeEmail(email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if u == nil {
		s.logWarn("otp resend for unknown user")
		return nil, ErrUserNotFound
	}
	if u.IsVerified {
		return &ResendOTPResult{AlreadyVerified: true}, nil
	}
	res := &ResendOTPResult{}
	if err := s.issueOTP(ctx, u); err != nil {
		return res, err
	}
	s.logInfo("otp resent")
	return res, nil
}

// ChangePassword replaces the password hash for an already authenticated
// user. The old password must verify and the new one must differ in
// plaintext before any hashing happens.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !auth.CheckPassword(u.Password, oldPassword) {
		s.logWarn("password change rejected: wrong current password")
		return ErrWrongPassword
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.logInfo("password changed")
	return nil
}

// GetUser resolves a user by ID, for token-authenticated request handling.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// issueOTP generates, digests and persists a fresh code, then dispatches it.
// Persist first: a dispatch failure leaves the stored pair valid so a resend
// can still succeed.
func (s *AuthService) issueOTP(ctx context.Context, u *entity.User) error {
	code, err := s.OTP.GenerateCode()
	if err != nil {
		return err
	}
	digest := s.OTP.DigestCode(code, u.Email)
	expiry := s.now().Add(s.OTPExpiry)
	if err := s.Repo.SetOTP(ctx, u.ID, digest, expiry); err != nil {
		return err
	}
	u.OTPDigest = &digest
	u.OTPExpiresAt = &expiry
	return s.dispatchOTP(ctx, u, code)
}

func (s *AuthService) dispatchOTP(ctx context.Context, u *entity.User, code string) error {
	if s.Dispatch == nil {
		return nil
	}
	if err := s.Dispatch.SendOTP(ctx, u.Email, u.Name, code); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("otp email dispatch failed")
		}
		return ErrOTPDispatchFailed
	}
	return nil
}

func (s *AuthService) logWarn(msg string) {
	if s.Logger != nil {
		s.Logger.Warn(msg)
	}
}

func (s *AuthService) logInfo(msg string) {
	if s.Logger != nil {
		s.Logger.Info(msg)
	}
}
