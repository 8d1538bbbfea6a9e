package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/job-marketplace/internal/api/dto"
	"github.com/spec-kit/job-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/domain"
	"github.com/spec-kit/job-marketplace/internal/observability"
	"github.com/spec-kit/job-marketplace/internal/policy"
	"github.com/spec-kit/job-marketplace/internal/service"
)

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = strconv.Itoa(r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByVerificationCode(_ context.Context, code string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.VerificationCode != nil && *user.VerificationCode == code {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[username]
	return ok, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByPhoneNumber(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

type memRevokedStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemRevokedStore() *memRevokedStore {
	return &memRevokedStore{revoked: make(map[string]bool)}
}

func (s *memRevokedStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token], nil
}

func (s *memRevokedStore) Revoke(_ context.Context, token string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
	return nil
}

type identityFixture struct {
	app   *fiber.App
	users *memUserRepo
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()

	codec, err := auth.NewCodec("integration-test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	users := newMemUserRepo()
	revoked := newMemRevokedStore()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	tokens := service.NewTokenService(codec, users, revoked, nil)
	accounts := service.NewAccountService(users, bcrypt.MinCost, nil)
	gatekeeper := auth.NewGatekeeper(tokens, policy.IdentityTable(), logger, metrics, nil)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterIdentityRoutes(app, IdentityRouteConfig{
		Health:     handlers.NewHealthHandler("identity-test", "test", nil, nil),
		Auth:       handlers.NewAuthHandler(tokens, accounts),
		Metrics:    handlers.NewMetricsHandler(metrics),
		Gatekeeper: gatekeeper,
	})

	return &identityFixture{app: app, users: users}
}

func (f *identityFixture) seedVerifiedUser(t *testing.T, username, password string, roles ...domain.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Roles:        roles,
		Enabled:      true,
	}))
}

func (f *identityFixture) do(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestIdentityService_SessionLifecycle(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)
	fx.seedVerifiedUser(t, "alice", "secret1")

	// Login yields a token pair and the caller's profile.
	resp := fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)
	require.Equal(t, "alice", login.Profile.Username)
	require.Equal(t, "USER", login.Profile.Role)

	// The access token admits its bearer to the protected profile route.
	resp = fx.do(t, http.MethodGet, "/identity/auth/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), `"username":"alice"`)

	// Logout revokes the access token; the same request now fails.
	resp = fx.do(t, http.MethodPost, "/identity/auth/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = fx.do(t, http.MethodGet, "/identity/auth/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The refresh token was not touched by logout: rotation still works.
	resp = fx.do(t, http.MethodPost, "/identity/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rotated dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rotated))
	resp.Body.Close()
	require.NotEqual(t, login.AccessToken, rotated.AccessToken)

	// The consumed refresh token cannot be replayed.
	resp = fx.do(t, http.MethodPost, "/identity/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "Invalid or expired refresh token")

	// The freshly rotated access token is usable.
	resp = fx.do(t, http.MethodGet, "/identity/auth/profile", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestIdentityService_LoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)
	fx.seedVerifiedUser(t, "alice", "secret1")

	unknown := fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: "nobody", Password: "secret1"})
	wrongPass := fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: "alice", Password: "wrong"})

	require.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	require.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
	// Unknown username and wrong password are indistinguishable.
	require.Equal(t, readBody(t, unknown), readBody(t, wrongPass))
}

func TestIdentityService_ValidateEndpoint(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)
	fx.seedVerifiedUser(t, "alice", "secret1")

	resp := fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()

	resp = fx.do(t, http.MethodGet, "/identity/auth/validate?token="+login.AccessToken, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// The gateway matches the literal body, so it must be exactly "true".
	require.Equal(t, "true", readBody(t, resp))

	resp = fx.do(t, http.MethodGet, "/identity/auth/validate?token=not-a-token", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = fx.do(t, http.MethodGet, "/identity/auth/validate", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestIdentityService_SignupVerifyLogin(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)

	resp := fx.do(t, http.MethodPost, "/identity/auth/signup", "", dto.SignupRequest{
		Name:            "Bob",
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Unverified accounts cannot log in.
	resp = fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: "bob", Password: "hunter22"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	user, err := fx.users.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)

	resp = fx.do(t, http.MethodGet, "/identity/auth/verify?token="+*user.VerificationCode, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: "bob", Password: "hunter22"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestIdentityService_UniformGatekeeperRejection(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)

	missing := fx.do(t, http.MethodGet, "/identity/auth/profile", "", nil)
	garbage := fx.do(t, http.MethodGet, "/identity/auth/profile", "eyJ.garbage.token", nil)

	require.Equal(t, http.StatusUnauthorized, missing.StatusCode)
	require.Equal(t, http.StatusUnauthorized, garbage.StatusCode)
	// Missing and invalid tokens produce byte-identical responses.
	require.Equal(t, readBody(t, missing), readBody(t, garbage))
}

func TestIdentityService_SignupErrorCodes(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)
	fx.seedVerifiedUser(t, "alice", "secret1")

	// Taken username maps to a conflict.
	resp := fx.do(t, http.MethodPost, "/identity/auth/signup", "", dto.SignupRequest{
		Name:            "Alice Again",
		Username:        "alice",
		Email:           "alice2@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, readBody(t, resp), `"CONFLICT"`)

	// Mismatched passwords map to a validation failure.
	resp = fx.do(t, http.MethodPost, "/identity/auth/signup", "", dto.SignupRequest{
		Name:            "Bob",
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "different",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, readBody(t, resp), `"VALIDATION_FAILED"`)
}

func TestIdentityService_AdminMetricsGated(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)
	fx.seedVerifiedUser(t, "alice", "secret1")
	fx.seedVerifiedUser(t, "root", "secret2", domain.RoleAdmin, domain.RoleUser)

	login := func(username, password string) dto.LoginResponse {
		resp := fx.do(t, http.MethodPost, "/identity/auth/login", "", dto.LoginRequest{Username: username, Password: password})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out dto.LoginResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()
		return out
	}

	// Register a rejection so the counters have something to show.
	resp := fx.do(t, http.MethodGet, "/identity/auth/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A plain user is rejected by the admin role gate.
	user := login("alice", "secret1")
	resp = fx.do(t, http.MethodGet, "/identity/auth/admin/metrics", user.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// An admin reads the per-reason rejection counters.
	admin := login("root", "secret2")
	resp = fx.do(t, http.MethodGet, "/identity/auth/admin/metrics", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	require.Contains(t, body, `"authRejections"`)
	require.Contains(t, body, "missing bearer token")
}

func TestIdentityService_HealthIsPublic(t *testing.T) {
	t.Parallel()

	fx := newIdentityFixture(t)

	resp := fx.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), `"alive"`)
}
