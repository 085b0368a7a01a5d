package posts

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitfeed/fitfeed/internal/types"
)

// MockPostsRepo is a mock implementation of the PostsRepo interface
type MockPostsRepo struct {
	mock.Mock
}

func (m *MockPostsRepo) List(ctx context.Context, owner string) ([]types.Post, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func (m *MockPostsRepo) GetByID(ctx context.Context, id string) (*types.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostsRepo) Create(ctx context.Context, params CreatePostParams) (*types.Post, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostsRepo) Update(ctx context.Context, id string, params UpdatePostParams) (*types.Post, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostsRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		created := &types.Post{ID: "post1", Title: "Leg day", Owner: "user123"}
		mockRepo.On("Create", ctx, CreatePostParams{
			Title:   "Leg day",
			Content: "5x5 squats",
			Owner:   "user123",
		}).Return(created, nil).Once()

		post, err := service.Create(ctx, "user123", CreatePostRequest{
			Title:   "Leg day",
			Content: "5x5 squats",
		})

		require.NoError(t, err)
		assert.Equal(t, "post1", post.ID)
		assert.Equal(t, "user123", post.Owner)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		service := NewPostsService(new(MockPostsRepo), slog.Default())

		_, err := service.Create(ctx, "user123", CreatePostRequest{Title: "no content"})

		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		service := NewPostsService(new(MockPostsRepo), slog.Default())

		_, err := service.Create(ctx, "", CreatePostRequest{Title: "t", Content: "c"})

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	title := "Updated title"

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		existing := &types.Post{ID: "post1", Owner: "user123"}
		updated := &types.Post{ID: "post1", Owner: "user123", Title: title}
		mockRepo.On("GetByID", ctx, "post1").Return(existing, nil).Once()
		mockRepo.On("Update", ctx, "post1", UpdatePostParams{Title: &title}).Return(updated, nil).Once()

		post, err := service.Update(ctx, "user123", "post1", UpdatePostRequest{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, title, post.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		existing := &types.Post{ID: "post1", Owner: "user123"}
		mockRepo.On("GetByID", ctx, "post1").Return(existing, nil).Once()

		_, err := service.Update(ctx, "intruder", "post1", UpdatePostRequest{Title: &title})

		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, "missing").Return(nil, types.ErrNotFound).Once()

		_, err := service.Update(ctx, "user123", "missing", UpdatePostRequest{Title: &title})

		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		existing := &types.Post{ID: "post1", Owner: "user123"}
		mockRepo.On("GetByID", ctx, "post1").Return(existing, nil).Once()
		mockRepo.On("Delete", ctx, "post1").Return(nil).Once()

		err := service.Delete(ctx, "user123", "post1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		existing := &types.Post{ID: "post1", Owner: "user123"}
		mockRepo.On("GetByID", ctx, "post1").Return(existing, nil).Once()

		err := service.Delete(ctx, "intruder", "post1")

		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("AnonymousUnauthenticated", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		existing := &types.Post{ID: "post1", Owner: "user123"}
		mockRepo.On("GetByID", ctx, "post1").Return(existing, nil).Once()

		err := service.Delete(ctx, "", "post1")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("All", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		mockRepo.On("List", ctx, "").Return([]types.Post{{ID: "p1"}, {ID: "p2"}}, nil).Once()

		posts, err := service.List(ctx, "")

		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("FilteredByOwner", func(t *testing.T) {
		mockRepo := new(MockPostsRepo)
		service := NewPostsService(mockRepo, slog.Default())

		mockRepo.On("List", ctx, "user123").Return([]types.Post{{ID: "p1", Owner: "user123"}}, nil).Once()

		posts, err := service.List(ctx, "user123")

		require.NoError(t, err)
		assert.Len(t, posts, 1)
		mockRepo.AssertExpectations(t)
	})
}
