package router

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfeed/fitfeed/config"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/api/comments"
	"github.com/fitfeed/fitfeed/internal/api/likes"
	"github.com/fitfeed/fitfeed/internal/api/posts"
	"github.com/fitfeed/fitfeed/internal/types"
)

type stubPostsService struct{}

func (stubPostsService) List(_ context.Context, _ string) ([]types.Post, error) {
	return []types.Post{}, nil
}

func (stubPostsService) GetByID(_ context.Context, id string) (*types.Post, error) {
	return &types.Post{ID: id, Title: "Leg day", Content: "squats", Owner: "someone"}, nil
}

func (stubPostsService) Create(_ context.Context, actor string, _ posts.CreatePostRequest) (*types.Post, error) {
	return &types.Post{ID: "p1", Title: "Leg day", Content: "squats", Owner: actor}, nil
}

func (stubPostsService) Update(_ context.Context, actor, id string, _ posts.UpdatePostRequest) (*types.Post, error) {
	return &types.Post{ID: id, Owner: actor}, nil
}

func (stubPostsService) Delete(_ context.Context, _, _ string) error { return nil }

type stubCommentsService struct{}

func (stubCommentsService) List(_ context.Context, _ string) ([]types.Comment, error) {
	return []types.Comment{}, nil
}

func (stubCommentsService) GetByID(_ context.Context, id string) (*types.Comment, error) {
	return &types.Comment{ID: id, Comment: "nice", Owner: "someone"}, nil
}

func (stubCommentsService) Create(_ context.Context, actor string, _ comments.CreateCommentRequest) (*types.Comment, error) {
	return &types.Comment{ID: "c1", Owner: actor}, nil
}

func (stubCommentsService) Update(_ context.Context, actor, id string, _ comments.UpdateCommentRequest) (*types.Comment, error) {
	return &types.Comment{ID: id, Owner: actor}, nil
}

func (stubCommentsService) Delete(_ context.Context, _, _ string) error { return nil }

type stubLikesService struct{}

func (stubLikesService) Like(_ context.Context, actor, postID string) (*types.Like, error) {
	return &types.Like{ID: "l1", PostID: postID, Owner: actor}, nil
}

func (stubLikesService) Unlike(_ context.Context, _, _ string) error { return nil }

func (stubLikesService) CountForPost(_ context.Context, _ string) (int, error) { return 0, nil }

func newTestRouter(t *testing.T) (http.Handler, auth.TokenService) {
	t.Helper()

	logger := slog.Default()
	tokens := auth.NewJWTTokenService(config.JWTConfig{
		SecretKey:       "router-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "fitfeed",
	})

	r := SetupRouter(&Config{
		PostsHandler:           posts.NewHandlerImpl(stubPostsService{}, logger),
		CommentsHandler:        comments.NewHandlerImpl(stubCommentsService{}, logger),
		LikesHandler:           likes.NewHandlerImpl(stubLikesService{}, logger),
		AuthenticateMiddleware: auth.Authenticate(tokens, logger),
	})
	return r, tokens
}

func TestFeedReadsArePublic(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/posts",
		"/api/v1/posts/p1",
		"/api/v1/posts/p1/likes",
		"/api/v1/comments",
		"/api/v1/comments/c1",
	} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestMutationsRequireAuthentication(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodPut, "/api/v1/posts/p1"},
		{http.MethodDelete, "/api/v1/posts/p1"},
		{http.MethodPost, "/api/v1/comments"},
		{http.MethodPut, "/api/v1/comments/c1"},
		{http.MethodDelete, "/api/v1/comments/c1"},
		{http.MethodPost, "/api/v1/likes"},
		{http.MethodDelete, "/api/v1/likes"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticatedMutationPasses(t *testing.T) {
	r, tokens := newTestRouter(t)

	pair, err := tokens.IssueTokenPair("user123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts",
		strings.NewReader(`{"title":"Leg day","content":"squats"}`))
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
