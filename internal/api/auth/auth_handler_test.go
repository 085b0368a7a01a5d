package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitfeed/fitfeed/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req RegisterRequest) (*types.UserAuth, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*types.TokenPair, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*types.TokenPair), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenPair, string, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*types.TokenPair), args.String(1), args.Error(2)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		user := &types.UserAuth{ID: "user123", Email: "new@example.com"}
		mockService.On("Register", mock.Anything, mock.AnythingOfType("RegisterRequest")).Return(user, nil).Once()

		rr := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "new@example.com",
			Password: "password123",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "password")
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		mockService.On("Register", mock.Anything, mock.AnythingOfType("RegisterRequest")).
			Return(nil, types.ErrValidation).Once()

		rr := postJSON(t, handler.Register, "/auth/register", RegisterRequest{Email: "bad"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		handler := NewAuthHandlerImpl(new(MockAuthService), slog.Default())

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
		rr := httptest.NewRecorder()
		handler.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		pair := &types.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
		mockService.On("Login", mock.Anything, "test@example.com", "password123").
			Return(pair, "user123", nil).Once()

		rr := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "test@example.com",
			Password: "password123",
		})

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "access", resp.AccessToken)
		assert.Equal(t, "refresh", resp.RefreshToken)
		assert.Equal(t, "user123", resp.UserID)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		mockService.On("Login", mock.Anything, "test@example.com", "wrong").
			Return(nil, "", types.ErrUnauthenticated).Once()

		rr := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "test@example.com",
			Password: "wrong",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid Username or Password")
	})

	t.Run("MissingConfig", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		mockService.On("Login", mock.Anything, "test@example.com", "password123").
			Return(nil, "", types.ErrMissingConfig).Once()

		rr := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "test@example.com",
			Password: "password123",
		})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing Configuration")
	})
}

func TestLogoutHandler(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{"Success", nil, http.StatusOK, "Logged Out"},
		{"MissingToken", types.ErrValidation, http.StatusBadRequest, "Missing Token"},
		{"InvalidToken", types.ErrInvalidToken, http.StatusForbidden, "Invalid Token"},
		{"UserNotFound", types.ErrNotFound, http.StatusNotFound, "User Not Found"},
		{"MissingConfig", types.ErrMissingConfig, http.StatusInternalServerError, "Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			handler := NewAuthHandlerImpl(mockService, slog.Default())

			mockService.On("Logout", mock.Anything, "some-token").Return(tc.serviceErr).Once()

			rr := postJSON(t, handler.Logout, "/auth/logout", RefreshTokenRequest{RefreshToken: "some-token"})

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestRefreshSessionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		pair := &types.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}
		mockService.On("RefreshSession", mock.Anything, "old-refresh").
			Return(pair, "user123", nil).Once()

		rr := postJSON(t, handler.RefreshSession, "/auth/refresh", RefreshTokenRequest{RefreshToken: "old-refresh"})

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("ReusedToken", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandlerImpl(mockService, slog.Default())

		mockService.On("RefreshSession", mock.Anything, "stale-refresh").
			Return(nil, "", types.ErrInvalidToken).Once()

		rr := postJSON(t, handler.RefreshSession, "/auth/refresh", RefreshTokenRequest{RefreshToken: "stale-refresh"})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid Token")
	})
}
