package posts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fitfeed/fitfeed/internal/api/scope"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ PostsService = (*PostsServiceImpl)(nil)

type PostsService interface {
	List(ctx context.Context, owner string) ([]types.Post, error)
	GetByID(ctx context.Context, id string) (*types.Post, error)
	Create(ctx context.Context, actor string, req CreatePostRequest) (*types.Post, error)
	Update(ctx context.Context, actor, id string, req UpdatePostRequest) (*types.Post, error)
	Delete(ctx context.Context, actor, id string) error
}

// PostsServiceImpl composes the repository with an owner-scoping policy:
// reads are public, mutations are owner-only.
type PostsServiceImpl struct {
	repo   PostsRepo
	read   scope.Policy
	mutate scope.Policy
	logger *slog.Logger
}

func NewPostsService(repo PostsRepo, logger *slog.Logger) *PostsServiceImpl {
	return &PostsServiceImpl{
		repo:   repo,
		read:   scope.Public,
		mutate: scope.OwnerOnly,
		logger: logger,
	}
}

func (s *PostsServiceImpl) List(ctx context.Context, owner string) ([]types.Post, error) {
	posts, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *PostsServiceImpl) GetByID(ctx context.Context, id string) (*types.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reads serve anonymous callers, so the actor is empty.
	if err := s.read(post.Owner, ""); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostsServiceImpl) Create(ctx context.Context, actor string, req CreatePostRequest) (*types.Post, error) {
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", types.ErrValidation)
	}
	if actor == "" {
		return nil, types.ErrUnauthenticated
	}

	post, err := s.repo.Create(ctx, CreatePostParams{
		Title:    req.Title,
		Content:  req.Content,
		Owner:    actor,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.logger.InfoContext(ctx, "Post created", slog.String("postID", post.ID), slog.String("owner", actor))
	return post, nil
}

func (s *PostsServiceImpl) Update(ctx context.Context, actor, id string, req UpdatePostRequest) (*types.Post, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.mutate(existing.Owner, actor); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, UpdatePostParams{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
}

func (s *PostsServiceImpl) Delete(ctx context.Context, actor, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.mutate(existing.Owner, actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	s.logger.InfoContext(ctx, "Post deleted", slog.String("postID", id))
	return nil
}
