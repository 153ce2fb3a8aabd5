package application

import "errors"

// Closed set of auth outcomes. Handlers map these to HTTP statuses and stable
// string codes at the boundary; nothing below the handler layer knows about
// status codes.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrEmailAlreadyVerified = errors.New("email already verified")
	ErrUserNotFound         = errors.New("user not found")
	ErrNoOTP                = errors.New("no otp issued")
	ErrOTPExpired           = errors.New("otp expired")
	ErrInvalidOTP           = errors.New("invalid otp")
	ErrWrongPassword        = errors.New("wrong password")
	ErrSamePassword         = errors.New("new password matches current password")
	// ErrOTPDispatchFailed means the account mutation was committed but the
	// verification email could not be handed off. Resend is the recourse.
	ErrOTPDispatchFailed = errors.New("otp dispatch failed")
)
