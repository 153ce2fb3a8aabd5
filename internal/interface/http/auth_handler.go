package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/domain/entity"
	"github.com/pennyflow/backend/internal/interface/middleware"
	"github.com/pennyflow/backend/pkg/helpers"
	"github.com/pennyflow/backend/pkg/response"
	"github.com/pennyflow/backend/pkg/validation"
)

// AuthHandler maps the auth service's closed error set onto HTTP statuses and
// stable codes. Status decisions live here and nowhere deeper.
type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,pwd"`
	Name              string `json:"name" binding:"required"`
	Country           string `json:"country" binding:"required"`
	City              string `json:"city"`
	PreferredCurrency string `json:"preferred_currency" binding:"required,currency"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,otp"`
}

type resendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"user_id":            u.ID,
		"email":              u.Email,
		"name":               u.Name,
		"country":            u.Country,
		"city":               u.City,
		"preferred_currency": u.PreferredCurrency,
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:             req.Email,
		Password:          req.Password,
		Name:              req.Name,
		Country:           req.Country,
		City:              req.City,
		PreferredCurrency: req.PreferredCurrency,
	})
	switch {
	case errors.Is(err, application.ErrEmailAlreadyVerified):
		response.Error[any](c, http.StatusConflict, "EMAIL_ALREADY_VERIFIED", "email is already registered, please login", nil)
		return
	case errors.Is(err, application.ErrOTPDispatchFailed):
		// The account and code are committed; only delivery failed.
		response.Error[any](c, http.StatusBadGateway, "OTP_DISPATCH_FAILED", "account saved but the verification email could not be sent, please resend", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "registration failed", nil)
		return
	}

	if res.Pending {
		response.Success(c, http.StatusAccepted, "PENDING_VERIFICATION", gin.H{"email": res.User.Email}, "account already exists but is not verified")
		return
	}
	response.Success(c, http.StatusCreated, "VERIFICATION_PENDING", userPayload(res.User), "registered, verification pending")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
		return
	case errors.Is(err, application.ErrEmailNotVerified):
		response.Error[any](c, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "please verify your email before logging in", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}

	h.Cookies.SetAccessToken(c, token, exp)
	payload := userPayload(u)
	payload["access_token"] = token
	payload["expires_at"] = exp
	response.Success(c, http.StatusOK, "LOGIN_OK", payload, "login successful")
}

// VerifyEmailOTP POST /api/auth/verify-email-otp
func (h *AuthHandler) VerifyEmailOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.VerifyEmailOTP(c.Request.Context(), req.Email, req.OTP)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "USER_NOT_FOUND", "user is not registered yet", nil)
		return
	case errors.Is(err, application.ErrNoOTP):
		response.Error[any](c, http.StatusBadRequest, "NO_OTP", "no OTP found, please resend OTP", nil)
		return
	case errors.Is(err, application.ErrOTPExpired):
		response.Error[any](c, http.StatusBadRequest, "OTP_EXPIRED", "OTP expired, please resend OTP", nil)
		return
	case errors.Is(err, application.ErrInvalidOTP):
		response.Error[any](c, http.StatusBadRequest, "INVALID_OTP", "incorrect OTP", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "verification failed", nil)
		return
	}

	if res.AlreadyVerified {
		response.Success[any](c, http.StatusOK, "EMAIL_ALREADY_VERIFIED", nil, "email already verified")
		return
	}
	response.Success[any](c, http.StatusOK, "EMAIL_VERIFIED", nil, "email verified successfully, you can now login")
}

// ResendOTP POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req resendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.ResendOTP(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "USER_NOT_FOUND", "user is not registered yet", nil)
		return
	case errors.Is(err, application.ErrOTPDispatchFailed):
		response.Error[any](c, http.StatusBadGateway, "OTP_DISPATCH_FAILED", "a new code was saved but the email could not be sent, please retry", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "resend failed", nil)
		return
	}

	if res.AlreadyVerified {
		response.Success[any](c, http.StatusOK, "EMAIL_ALREADY_VERIFIED", nil, "email already verified")
		return
	}
	response.Success[any](c, http.StatusOK, "OTP_RESENT", nil, "OTP resent successfully")
}

// ChangePassword POST /api/auth/change-password (auth required)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, application.ErrWrongPassword):
		response.Error[any](c, http.StatusForbidden, "WRONG_PASSWORD", "current password is incorrect", nil)
		return
	case errors.Is(err, application.ErrSamePassword):
		response.Error[any](c, http.StatusBadRequest, "SAME_PASSWORD", "new password must differ from the current one", nil)
		return
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "password change failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, "PASSWORD_CHANGED", nil, "password changed successfully")
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, "LOGGED_OUT", nil, "logged out")
}
