package likes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitfeed/fitfeed/internal/api"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/types"
)

// LikeRequest identifies the post being liked or unliked.
type LikeRequest struct {
	PostID string `json:"post_id"`
}

type HandlerImpl struct {
	likesService LikesService
	logger       *slog.Logger
}

func NewHandlerImpl(likesService LikesService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		likesService: likesService,
		logger:       logger,
	}
}

// Like godoc
// @Summary      Like a post
// @Tags         Likes
// @Accept       json
// @Produce      json
// @Param        body body LikeRequest true "Post to like"
// @Success      201 {object} types.Like
// @Failure      400 {object} types.Response "Unknown post or already liked"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /likes [post]
func (h *HandlerImpl) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Like"))

	actor, ok := auth.GetUserIDFromContext(ctx)
	if !ok || actor == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req LikeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	like, err := h.likesService.Like(ctx, actor, req.PostID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to like post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to like post")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, like)
}

// Unlike godoc
// @Summary      Remove a like
// @Tags         Likes
// @Accept       json
// @Produce      json
// @Param        body body LikeRequest true "Post to unlike"
// @Success      200 {object} types.Response "Like deleted"
// @Failure      404 {object} types.Response "Like not found"
// @Security     BearerAuth
// @Router       /likes [delete]
func (h *HandlerImpl) Unlike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Unlike"))

	actor, ok := auth.GetUserIDFromContext(ctx)
	if !ok || actor == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req LikeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.likesService.Unlike(ctx, actor, req.PostID); err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Like not found")
		default:
			l.ErrorContext(ctx, "Failed to unlike post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to unlike post")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Like deleted successfully"})
}

// Count godoc
// @Summary      Count likes on a post
// @Tags         Likes
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} map[string]int "like count"
// @Router       /posts/{id}/likes [get]
func (h *HandlerImpl) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.likesService.CountForPost(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to count likes", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to count likes")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]int{"count": count})
}
