package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fitfeed/fitfeed/app/observability/metrics"
	"github.com/fitfeed/fitfeed/config"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication and
// session lifecycle operations.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*types.UserAuth, error)
	// Login verifies credentials and returns a fresh token pair plus the
	// user ID. The refresh token is appended to the user's set, so a user
	// may hold several valid refresh tokens at once (multi-device).
	Login(ctx context.Context, email, password string) (*types.TokenPair, string, error)
	// Logout consumes the submitted refresh token. Presenting a token that
	// is not in the user's set clears the whole set.
	Logout(ctx context.Context, refreshToken string) error
	// RefreshSession rotates the refresh token: the submitted token is
	// removed and a brand-new pair issued. Resubmitting an already-rotated
	// token is treated as a theft signal and invalidates every session.
	RefreshSession(ctx context.Context, refreshToken string) (*types.TokenPair, string, error)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	repo   AuthRepo
	hasher Hasher
	tokens TokenService
	cfg    *config.Config
	logger *slog.Logger

	// dummyHash keeps the unknown-email path as slow as a real bcrypt
	// compare, so login timing does not reveal whether the email exists.
	dummyHash string
}

func NewAuthService(repo AuthRepo, hasher Hasher, tokens TokenService, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	dummyHash, err := hasher.Hash("fitfeed-timing-pad")
	if err != nil {
		logger.Error("Failed to precompute dummy hash", slog.Any("error", err))
	}
	return &AuthServiceImpl{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		cfg:       cfg,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// Register validates input, hashes the password and creates the user with an
// empty refresh-token set. The returned user never carries the hash.
func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.UserAuth, error) {
	l := s.logger.With(slog.String("method", "Register"))

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", types.ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: %s is not a valid email address", types.ErrValidation, email)
	}
	if len(req.Password) < s.cfg.Auth.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", types.ErrValidation, s.cfg.Auth.MinPasswordLength)
	}

	if req.Username != "" {
		// Pre-check only. The unique index on lower(username) rejects
		// case-variant duplicates even when this check runs
		// case-sensitively; CreateUser surfaces that as a conflict.
		taken, err := s.repo.UsernameExists(ctx, req.Username, s.cfg.Auth.CaseInsensitiveUsernames)
		if err != nil {
			return nil, fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: username already taken", types.ErrConflict)
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return nil, fmt.Errorf("%w: email already exists", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID))
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.TokenPair, string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Burn a compare anyway so the two failure paths cost the same.
		s.hasher.Verify(password, s.dummyHash)
		metrics.Get().LoginFailureTotal.Add(ctx, 1)
		if errors.Is(err, types.ErrNotFound) {
			return nil, "", types.ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("error fetching user: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		metrics.Get().LoginFailureTotal.Add(ctx, 1)
		return nil, "", types.ErrUnauthenticated
	}

	pair, err := s.tokens.IssueTokenPair(user.ID)
	if err != nil {
		l.ErrorContext(ctx, "Token issuance failed", slog.Any("error", err))
		return nil, "", err
	}

	if err := s.repo.AppendRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, "", fmt.Errorf("error storing refresh token: %w", err)
	}

	metrics.Get().LoginSuccessTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Login successful", slog.String("userID", user.ID))
	return pair, user.ID, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(slog.String("method", "Logout"))

	if refreshToken == "" {
		return fmt.Errorf("%w: missing token", types.ErrValidation)
	}

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return err
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.ErrNotFound
		}
		return fmt.Errorf("error fetching user: %w", err)
	}

	removed, err := s.repo.RemoveRefreshToken(ctx, user.ID, refreshToken)
	if err != nil {
		return fmt.Errorf("error removing refresh token: %w", err)
	}
	if !removed {
		// A verified token we never stored (or already consumed) means
		// reuse or theft. Drop every session for this user.
		l.WarnContext(ctx, "Refresh token not in user's set, clearing all sessions", slog.String("userID", user.ID))
		metrics.Get().TokenReuseDetectedTotal.Add(ctx, 1)
		if clearErr := s.repo.ClearRefreshTokens(ctx, user.ID); clearErr != nil {
			l.ErrorContext(ctx, "Failed to clear refresh tokens", slog.Any("error", clearErr))
		}
		return types.ErrInvalidToken
	}

	l.InfoContext(ctx, "Logout successful", slog.String("userID", user.ID))
	return nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenPair, string, error) {
	l := s.logger.With(slog.String("method", "RefreshSession"))

	if refreshToken == "" {
		return nil, "", fmt.Errorf("%w: missing token", types.ErrValidation)
	}

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, "", types.ErrNotFound
		}
		return nil, "", fmt.Errorf("error fetching user: %w", err)
	}

	pair, err := s.tokens.IssueTokenPair(user.ID)
	if err != nil {
		// Cannot mint a replacement, so the submitted token must not stay
		// usable either.
		if clearErr := s.repo.ClearRefreshTokens(ctx, user.ID); clearErr != nil {
			l.ErrorContext(ctx, "Failed to clear refresh tokens", slog.Any("error", clearErr))
		}
		return nil, "", err
	}

	rotated, err := s.repo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("error rotating refresh token: %w", err)
	}
	if !rotated {
		// The token verified but is no longer in the set: it was already
		// rotated away once. Treat the resubmission as a compromise signal.
		l.WarnContext(ctx, "Rotated-away refresh token resubmitted, clearing all sessions", slog.String("userID", user.ID))
		metrics.Get().TokenReuseDetectedTotal.Add(ctx, 1)
		if clearErr := s.repo.ClearRefreshTokens(ctx, user.ID); clearErr != nil {
			l.ErrorContext(ctx, "Failed to clear refresh tokens", slog.Any("error", clearErr))
		}
		return nil, "", types.ErrInvalidToken
	}

	metrics.Get().TokenRotationsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Session refreshed", slog.String("userID", user.ID))
	return pair, user.ID, nil
}
