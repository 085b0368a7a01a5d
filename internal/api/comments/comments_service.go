package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitfeed/fitfeed/internal/api/scope"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ CommentsService = (*CommentsServiceImpl)(nil)

type CommentsService interface {
	List(ctx context.Context, postID string) ([]types.Comment, error)
	GetByID(ctx context.Context, id string) (*types.Comment, error)
	Create(ctx context.Context, actor string, req CreateCommentRequest) (*types.Comment, error)
	Update(ctx context.Context, actor, id string, req UpdateCommentRequest) (*types.Comment, error)
	Delete(ctx context.Context, actor, id string) error
}

// PostGetter is the slice of the posts repository the comments service needs
// to check that the commented post exists.
type PostGetter interface {
	GetByID(ctx context.Context, id string) (*types.Post, error)
}

type CommentsServiceImpl struct {
	repo   CommentsRepo
	posts  PostGetter
	read   scope.Policy
	mutate scope.Policy
	logger *slog.Logger
}

func NewCommentsService(repo CommentsRepo, posts PostGetter, logger *slog.Logger) *CommentsServiceImpl {
	return &CommentsServiceImpl{
		repo:   repo,
		posts:  posts,
		read:   scope.Public,
		mutate: scope.OwnerOnly,
		logger: logger,
	}
}

func (s *CommentsServiceImpl) List(ctx context.Context, postID string) ([]types.Comment, error) {
	comments, err := s.repo.List(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return comments, nil
}

func (s *CommentsServiceImpl) GetByID(ctx context.Context, id string) (*types.Comment, error) {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reads serve anonymous callers, so the actor is empty.
	if err := s.read(comment.Owner, ""); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentsServiceImpl) Create(ctx context.Context, actor string, req CreateCommentRequest) (*types.Comment, error) {
	if req.Comment == "" || req.PostID == "" || req.Username == "" {
		return nil, fmt.Errorf("%w: comment, post_id and username are required", types.ErrValidation)
	}
	if actor == "" {
		return nil, types.ErrUnauthenticated
	}

	if _, err := s.posts.GetByID(ctx, req.PostID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: post does not exist", types.ErrValidation)
		}
		return nil, fmt.Errorf("error checking post: %w", err)
	}

	comment, err := s.repo.Create(ctx, CreateCommentParams{
		Comment:  req.Comment,
		PostID:   req.PostID,
		Owner:    actor,
		Username: req.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	s.logger.InfoContext(ctx, "Comment created", slog.String("commentID", comment.ID), slog.String("postID", req.PostID))
	return comment, nil
}

func (s *CommentsServiceImpl) Update(ctx context.Context, actor, id string, req UpdateCommentRequest) (*types.Comment, error) {
	if req.Comment == "" {
		return nil, fmt.Errorf("%w: comment is required", types.ErrValidation)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.mutate(existing.Owner, actor); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, req.Comment)
}

func (s *CommentsServiceImpl) Delete(ctx context.Context, actor, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.mutate(existing.Owner, actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
