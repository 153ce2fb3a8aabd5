package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/auth"
	"github.com/pennyflow/backend/internal/domain/entity"
	"github.com/pennyflow/backend/internal/domain/repository"
	"github.com/pennyflow/backend/internal/interface/middleware"
	"github.com/pennyflow/backend/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*entity.User)}
}

func (r *stubUserRepo) clone(u *entity.User) *entity.User {
	c := *u
	if u.OTPDigest != nil {
		d := *u.OTPDigest
		c.OTPDigest = &d
	}
	if u.OTPExpiresAt != nil {
		e := *u.OTPExpiresAt
		c.OTPExpiresAt = &e
	}
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = "u" + strconv.Itoa(r.nextID)
	r.users[u.ID] = r.clone(u)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return r.clone(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = u.Name
	stored.Country = u.Country
	stored.City = u.City
	stored.PreferredCurrency = u.PreferredCurrency
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (r *stubUserRepo) SetOTP(_ context.Context, id, digest string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.IsVerified {
		return repository.ErrNotFound
	}
	u.OTPDigest = &digest
	u.OTPExpiresAt = &expiresAt
	return nil
}

func (r *stubUserRepo) ConsumeOTP(_ context.Context, id, digest string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.IsVerified || u.OTPDigest == nil || *u.OTPDigest != digest {
		return false, nil
	}
	u.IsVerified = true
	u.OTPDigest = nil
	u.OTPExpiresAt = nil
	return true, nil
}

type stubDispatcher struct {
	mu       sync.Mutex
	lastCode string
	fail     bool
}

func (d *stubDispatcher) SendOTP(_ context.Context, _, _, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return assert.AnError
	}
	d.lastCode = code
	return nil
}

func (d *stubDispatcher) code() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastCode
}

type envelope struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   map[string]any `json:"error"`
}

type handlerFixture struct {
	router   *gin.Engine
	svc      *application.AuthService
	repo     *stubUserRepo
	dispatch *stubDispatcher
}

func newHandlerFixture() *handlerFixture {
	repo := newStubUserRepo()
	dispatch := &stubDispatcher{}
	svc := application.NewAuthService(
		repo,
		auth.NewOTPKit("handler-test-key", 6),
		auth.NewTokenIssuer("handler-test-secret", "HS256", 30*time.Minute),
		dispatch,
		nil,
		10*time.Minute,
		false,
	)
	h := NewAuthHandler(svc, nil, "", false)

	r := gin.New()
	api := r.Group("/api/auth")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/verify-email-otp", h.VerifyEmailOTP)
	api.POST("/resend-otp", h.ResendOTP)
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(svc.Tokens, svc))
	protected.POST("/change-password", h.ChangePassword)
	protected.POST("/logout", h.Logout)

	return &handlerFixture{router: r, svc: svc, repo: repo, dispatch: dispatch}
}

func (f *handlerFixture) post(t *testing.T, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func validRegisterBody() map[string]any {
	return map[string]any{
		"email":              "alice@x.com",
		"password":           "hunter2222",
		"name":               "Alice",
		"country":            "Canada",
		"preferred_currency": "CAD",
	}
}

func (f *handlerFixture) registerAndVerify(t *testing.T) {
	t.Helper()
	w, _ := f.post(t, "/api/auth/register", validRegisterBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = f.post(t, "/api/auth/verify-email-otp", map[string]any{
		"email": "alice@x.com",
		"otp":   f.dispatch.code(),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func (f *handlerFixture) loginToken(t *testing.T) string {
	t.Helper()
	w, env := f.post(t, "/api/auth/login", map[string]any{
		"email":    "alice@x.com",
		"password": "hunter2222",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := env.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()

	w, env := f.post(t, "/api/auth/register", validRegisterBody(), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "VERIFICATION_PENDING", env.Code)
	assert.Equal(t, "alice@x.com", env.Data["email"])
	assert.NotEmpty(t, f.dispatch.code())

	// Same pending email again: accepted, nothing re-dispatched.
	w, env = f.post(t, "/api/auth/register", validRegisterBody(), nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "PENDING_VERIFICATION", env.Code)

	// After verification the email is taken for good.
	f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "alice@x.com", "otp": f.dispatch.code()}, nil)
	w, env = f.post(t, "/api/auth/register", validRegisterBody(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_ALREADY_VERIFIED", env.Code)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()

	body := validRegisterBody()
	body["password"] = "short"
	body["preferred_currency"] = "CANADIAN"
	w, env := f.post(t, "/api/auth/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "INVALID_PAYLOAD", env.Code)
	assert.Contains(t, env.Error, "password")
	assert.Contains(t, env.Error, "preferred_currency")
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()

	w, _ := f.post(t, "/api/auth/register", validRegisterBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Unverified accounts are told apart from bad credentials.
	w, env := f.post(t, "/api/auth/login", map[string]any{"email": "alice@x.com", "password": "hunter2222"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", env.Code)

	f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "alice@x.com", "otp": f.dispatch.code()}, nil)

	w, env = f.post(t, "/api/auth/login", map[string]any{"email": "alice@x.com", "password": "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)

	w, env = f.post(t, "/api/auth/login", map[string]any{"email": "alice@x.com", "password": "hunter2222"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LOGIN_OK", env.Code)
	assert.NotEmpty(t, env.Data["access_token"])

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "access_token" {
			found = true
			assert.True(t, c.HttpOnly)
			assert.NotEmpty(t, c.Value)
		}
	}
	assert.True(t, found, "login must set the access_token cookie")
}

func TestVerifyEmailOTPEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()

	w, env := f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "ghost@x.com", "otp": "123456"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Code)

	f.post(t, "/api/auth/register", validRegisterBody(), nil)
	code := f.dispatch.code()

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	w, env = f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "alice@x.com", "otp": wrong}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OTP", env.Code)

	w, env = f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "alice@x.com", "otp": code}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EMAIL_VERIFIED", env.Code)

	// Replaying the consumed code reports the idempotent outcome.
	w, env = f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "alice@x.com", "otp": code}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EMAIL_ALREADY_VERIFIED", env.Code)
}

func TestResendOTPEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()

	f.post(t, "/api/auth/register", validRegisterBody(), nil)

	w, env := f.post(t, "/api/auth/resend-otp", map[string]any{"email": "alice@x.com"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OTP_RESENT", env.Code)

	// The resent code is the live one.
	w, env = f.post(t, "/api/auth/verify-email-otp", map[string]any{"email": "alice@x.com", "otp": f.dispatch.code()}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EMAIL_VERIFIED", env.Code)
}

func TestResendOTPEndpoint_DispatchFailure(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()

	f.post(t, "/api/auth/register", validRegisterBody(), nil)
	f.dispatch.fail = true

	w, env := f.post(t, "/api/auth/resend-otp", map[string]any{"email": "alice@x.com"}, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "OTP_DISPATCH_FAILED", env.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	f.registerAndVerify(t)
	token := f.loginToken(t)
	bearer := map[string]string{"Authorization": "Bearer " + token}

	// Unauthenticated request never reaches the handler.
	w, env := f.post(t, "/api/auth/change-password", map[string]any{"old_password": "hunter2222", "new_password": "newpassword1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", env.Code)

	w, env = f.post(t, "/api/auth/change-password", map[string]any{"old_password": "nope-nope-nope", "new_password": "newpassword1"}, bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "WRONG_PASSWORD", env.Code)

	w, env = f.post(t, "/api/auth/change-password", map[string]any{"old_password": "hunter2222", "new_password": "hunter2222"}, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SAME_PASSWORD", env.Code)

	w, env = f.post(t, "/api/auth/change-password", map[string]any{"old_password": "hunter2222", "new_password": "newpassword1"}, bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PASSWORD_CHANGED", env.Code)

	w, env = f.post(t, "/api/auth/login", map[string]any{"email": "alice@x.com", "password": "newpassword1"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LOGIN_OK", env.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	f.registerAndVerify(t)
	token := f.loginToken(t)

	w, env := f.post(t, "/api/auth/logout", map[string]any{}, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LOGGED_OUT", env.Code)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "access_token" {
			cleared = true
			assert.Empty(t, c.Value)
			assert.True(t, c.MaxAge < 0)
		}
	}
	assert.True(t, cleared, "logout must clear the access_token cookie")

	// Tampered tokens are rejected uniformly.
	w, env = f.post(t, "/api/auth/change-password", map[string]any{"old_password": "hunter2222", "new_password": "newpassword1"}, map[string]string{"Authorization": "Bearer " + token + "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", env.Code)
}
