package user

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitfeed/fitfeed/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserAuth, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func TestGetUserProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, slog.Default())

		mockRepo.On("GetUserByID", ctx, "user123").
			Return(&types.UserAuth{ID: "user123", Username: "tester"}, nil).Once()

		profile, err := service.GetUserProfile(ctx, "user123")

		require.NoError(t, err)
		assert.Equal(t, "tester", profile.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, slog.Default())

		mockRepo.On("GetUserByID", ctx, "ghost").Return(nil, types.ErrNotFound).Once()

		_, err := service.GetUserProfile(ctx, "ghost")

		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateUserProfile(t *testing.T) {
	ctx := context.Background()
	username := "newname"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, slog.Default())

		params := types.UpdateProfileParams{Username: &username}
		mockRepo.On("UpdateProfile", ctx, "user123", params).
			Return(&types.UserAuth{ID: "user123", Username: username}, nil).Once()

		user, err := service.UpdateUserProfile(ctx, "user123", params)

		require.NoError(t, err)
		assert.Equal(t, username, user.Username)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, slog.Default())

		mockRepo.On("UpdateProfile", ctx, "user123", mock.AnythingOfType("types.UpdateProfileParams")).
			Return(nil, types.ErrConflict).Once()

		_, err := service.UpdateUserProfile(ctx, "user123", types.UpdateProfileParams{Username: &username})

		assert.ErrorIs(t, err, types.ErrConflict)
	})
}
