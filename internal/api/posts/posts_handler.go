package posts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitfeed/fitfeed/internal/api"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	postsService PostsService
	logger       *slog.Logger
}

func NewHandlerImpl(postsService PostsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		postsService: postsService,
		logger:       logger,
	}
}

// List godoc
// @Summary      List posts
// @Description  Returns all posts, optionally filtered by owner.
// @Tags         Posts
// @Produce      json
// @Param        owner query string false "Filter by owner user ID"
// @Success      200 {array} types.Post
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /posts [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListPosts"))

	posts, err := h.postsService.List(ctx, r.URL.Query().Get("owner"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list posts", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list posts")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// GetByID godoc
// @Summary      Get a post
// @Tags         Posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} types.Post
// @Failure      404 {object} types.Response "Post not found"
// @Router       /posts/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPost"))

	post, err := h.postsService.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// Create godoc
// @Summary      Create a post
// @Description  Creates a post owned by the authenticated user.
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        body body CreatePostRequest true "Post"
// @Success      201 {object} types.Post
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /posts [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreatePost"))

	actor, ok := auth.GetUserIDFromContext(ctx)
	if !ok || actor == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postsService.Create(ctx, actor, req)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to create post")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, post)
}

// Update godoc
// @Summary      Update a post
// @Description  Updates one of the authenticated user's posts.
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        body body UpdatePostRequest true "Fields to change"
// @Success      200 {object} types.Post
// @Failure      403 {object} types.Response "Not the owner"
// @Failure      404 {object} types.Response "Post not found"
// @Security     BearerAuth
// @Router       /posts/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePost"))

	actor, _ := auth.GetUserIDFromContext(ctx)

	var req UpdatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postsService.Update(ctx, actor, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeMutationError(w, r, l, err, "update")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// Delete godoc
// @Summary      Delete a post
// @Description  Deletes one of the authenticated user's posts along with its comments and likes.
// @Tags         Posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} types.Response "Post deleted"
// @Failure      403 {object} types.Response "Not the owner"
// @Failure      404 {object} types.Response "Post not found"
// @Security     BearerAuth
// @Router       /posts/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeletePost"))

	actor, _ := auth.GetUserIDFromContext(ctx)

	if err := h.postsService.Delete(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.writeMutationError(w, r, l, err, "delete")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Post deleted successfully"})
}

func (h *HandlerImpl) writeMutationError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error, op string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
	case errors.Is(err, types.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, "You do not own this post")
	case errors.Is(err, types.ErrUnauthenticated):
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
	default:
		l.ErrorContext(r.Context(), "Post mutation failed", slog.String("op", op), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to "+op+" post")
	}
}
