package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitfeed/fitfeed/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for profile operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*types.UserAuth, error)
	UpdateUserProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserAuth, error)
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *UserServiceImpl) GetUserProfile(ctx context.Context, userID string) (*types.UserAuth, error) {
	profile, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user profile: %w", err)
	}
	return profile, nil
}

func (s *UserServiceImpl) UpdateUserProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserAuth, error) {
	l := s.logger.With(slog.String("method", "UpdateUserProfile"), slog.String("userID", userID))

	user, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return nil, fmt.Errorf("%w: username already taken", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		return nil, fmt.Errorf("error updating user profile: %w", err)
	}

	l.InfoContext(ctx, "User profile updated")
	return user, nil
}
