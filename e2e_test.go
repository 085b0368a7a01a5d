package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitfeed/fitfeed/config"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/types"
)

// memoryAuthRepo keeps users and their refresh-token sets in memory, with the
// same conditional-update semantics the Postgres repo provides.
type memoryAuthRepo struct {
	mu    sync.Mutex
	users map[string]*types.UserAuth
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{users: make(map[string]*types.UserAuth)}
}

func (r *memoryAuthRepo) CreateUser(_ context.Context, params auth.CreateUserParams) (*types.UserAuth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == params.Email {
			return nil, types.ErrConflict
		}
	}
	user := &types.UserAuth{
		ID:            uuid.NewString(),
		Email:         params.Email,
		Password:      params.PasswordHash,
		Username:      params.Username,
		DisplayName:   params.DisplayName,
		AvatarURL:     params.AvatarURL,
		RefreshTokens: []string{},
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryAuthRepo) GetUserByEmail(_ context.Context, email string) (*types.UserAuth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, types.ErrNotFound
}

func (r *memoryAuthRepo) GetUserByID(_ context.Context, userID string) (*types.UserAuth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return nil, types.ErrNotFound
}

func (r *memoryAuthRepo) UsernameExists(_ context.Context, username string, _ bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAuthRepo) AppendRefreshToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return types.ErrNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (r *memoryAuthRepo) RotateRefreshToken(_ context.Context, userID, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	idx := slices.Index(u.RefreshTokens, oldToken)
	if idx < 0 {
		return false, nil
	}
	u.RefreshTokens[idx] = newToken
	return true, nil
}

func (r *memoryAuthRepo) RemoveRefreshToken(_ context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	idx := slices.Index(u.RefreshTokens, token)
	if idx < 0 {
		return false, nil
	}
	u.RefreshTokens = slices.Delete(u.RefreshTokens, idx, idx+1)
	return true, nil
}

func (r *memoryAuthRepo) ClearRefreshTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshTokens = []string{}
	}
	return nil
}

func (r *memoryAuthRepo) tokenCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return len(u.RefreshTokens)
	}
	return 0
}

func newAuthTestServer(t *testing.T, repo *memoryAuthRepo) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey:       "e2e-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "fitfeed",
	}
	cfg.Auth = config.AuthConfig{MinPasswordLength: 6, CaseInsensitiveUsernames: true}

	logger := slog.Default()
	tokens := auth.NewJWTTokenService(cfg.JWT)
	service := auth.NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, cfg, logger)
	handler := auth.NewAuthHandlerImpl(service, logger)

	r := chi.NewRouter()
	r.Post("/auth/register", handler.Register)
	r.Post("/auth/login", handler.Login)
	r.Post("/auth/refresh", handler.RefreshSession)
	r.Post("/auth/logout", handler.Logout)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func postAuth(t *testing.T, server *httptest.Server, path string, body any) (*http.Response, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

// TestRefreshRotationFlow drives the full session lifecycle over HTTP:
// login issues R0, refreshing R0 yields R1 and consumes R0, replaying R0 is
// rejected and kills every session, so R1 is dead too.
func TestRefreshRotationFlow(t *testing.T) {
	repo := newMemoryAuthRepo()
	server := newAuthTestServer(t, repo)

	resp, _ := postAuth(t, server, "/auth/register", map[string]string{
		"email":    "rotation@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postAuth(t, server, "/auth/login", map[string]string{
		"email":    "rotation@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	r0 := login.RefreshToken
	userID := login.UserID
	require.NotEmpty(t, r0)
	assert.Equal(t, 1, repo.tokenCount(userID))

	// Rotate R0 into R1.
	resp, body = postAuth(t, server, "/auth/refresh", map[string]string{"refresh_token": r0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed auth.LoginResponse
	require.NoError(t, json.Unmarshal(body, &refreshed))
	r1 := refreshed.RefreshToken
	assert.NotEqual(t, r0, r1)
	assert.Equal(t, 1, repo.tokenCount(userID))

	// Replaying the consumed R0 is reuse: rejected and the set is cleared.
	resp, _ = postAuth(t, server, "/auth/refresh", map[string]string{"refresh_token": r0})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, repo.tokenCount(userID))

	// R1 was collateral damage of the reuse detection.
	resp, _ = postAuth(t, server, "/auth/refresh", map[string]string{"refresh_token": r1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogoutFlow(t *testing.T) {
	repo := newMemoryAuthRepo()
	server := newAuthTestServer(t, repo)

	resp, _ := postAuth(t, server, "/auth/register", map[string]string{
		"email":    "logout@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Two logins simulate two devices holding separate refresh tokens.
	resp, body := postAuth(t, server, "/auth/login", map[string]string{
		"email":    "logout@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first auth.LoginResponse
	require.NoError(t, json.Unmarshal(body, &first))

	resp, body = postAuth(t, server, "/auth/login", map[string]string{
		"email":    "logout@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second auth.LoginResponse
	require.NoError(t, json.Unmarshal(body, &second))

	require.Equal(t, 2, repo.tokenCount(first.UserID))

	// Logging out one device leaves the other session intact.
	resp, _ = postAuth(t, server, "/auth/logout", map[string]string{"refresh_token": first.RefreshToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, repo.tokenCount(first.UserID))

	resp, _ = postAuth(t, server, "/auth/refresh", map[string]string{"refresh_token": second.RefreshToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The logged-out token cannot be used to refresh.
	resp, _ = postAuth(t, server, "/auth/refresh", map[string]string{"refresh_token": first.RefreshToken})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
