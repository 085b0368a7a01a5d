package likes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitfeed/fitfeed/internal/types"
)

var _ LikesService = (*LikesServiceImpl)(nil)

type LikesService interface {
	Like(ctx context.Context, actor, postID string) (*types.Like, error)
	Unlike(ctx context.Context, actor, postID string) error
	CountForPost(ctx context.Context, postID string) (int, error)
}

// PostGetter is the slice of the posts repository needed to validate that the
// liked post exists.
type PostGetter interface {
	GetByID(ctx context.Context, id string) (*types.Post, error)
}

type LikesServiceImpl struct {
	repo   LikesRepo
	posts  PostGetter
	logger *slog.Logger
}

func NewLikesService(repo LikesRepo, posts PostGetter, logger *slog.Logger) *LikesServiceImpl {
	return &LikesServiceImpl{
		repo:   repo,
		posts:  posts,
		logger: logger,
	}
}

func (s *LikesServiceImpl) Like(ctx context.Context, actor, postID string) (*types.Like, error) {
	if actor == "" {
		return nil, types.ErrUnauthenticated
	}
	if postID == "" {
		return nil, fmt.Errorf("%w: post_id is required", types.ErrValidation)
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: post does not exist", types.ErrValidation)
		}
		return nil, fmt.Errorf("error checking post: %w", err)
	}

	like, err := s.repo.Create(ctx, postID, actor)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return nil, fmt.Errorf("%w: already liked", types.ErrConflict)
		}
		return nil, fmt.Errorf("error creating like: %w", err)
	}

	s.logger.InfoContext(ctx, "Post liked", slog.String("postID", postID), slog.String("owner", actor))
	return like, nil
}

func (s *LikesServiceImpl) Unlike(ctx context.Context, actor, postID string) error {
	if actor == "" {
		return types.ErrUnauthenticated
	}
	if postID == "" {
		return fmt.Errorf("%w: post_id is required", types.ErrValidation)
	}
	return s.repo.Delete(ctx, postID, actor)
}

func (s *LikesServiceImpl) CountForPost(ctx context.Context, postID string) (int, error) {
	return s.repo.CountForPost(ctx, postID)
}
