package comments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitfeed/fitfeed/internal/api"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/types"
)

type HandlerImpl struct {
	commentsService CommentsService
	logger          *slog.Logger
}

func NewHandlerImpl(commentsService CommentsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		commentsService: commentsService,
		logger:          logger,
	}
}

// List godoc
// @Summary      List comments
// @Description  Returns comments, optionally filtered by post.
// @Tags         Comments
// @Produce      json
// @Param        post query string false "Filter by post ID"
// @Success      200 {array} types.Comment
// @Router       /comments [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListComments"))

	comments, err := h.commentsService.List(ctx, r.URL.Query().Get("post"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list comments", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list comments")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, comments)
}

// GetByID godoc
// @Summary      Get a comment
// @Tags         Comments
// @Produce      json
// @Param        id path string true "Comment ID"
// @Success      200 {object} types.Comment
// @Failure      404 {object} types.Response "Comment not found"
// @Router       /comments/{id} [get]
func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.commentsService.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Comment not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get comment", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get comment")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, comment)
}

// Create godoc
// @Summary      Comment on a post
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        body body CreateCommentRequest true "Comment"
// @Success      201 {object} types.Comment
// @Failure      400 {object} types.Response "Invalid input or unknown post"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /comments [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateComment"))

	actor, ok := auth.GetUserIDFromContext(ctx)
	if !ok || actor == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.commentsService.Create(ctx, actor, req)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create comment", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to create comment")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, comment)
}

// Update godoc
// @Summary      Edit a comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Comment ID"
// @Param        body body UpdateCommentRequest true "New text"
// @Success      200 {object} types.Comment
// @Failure      403 {object} types.Response "Not the owner"
// @Failure      404 {object} types.Response "Comment not found"
// @Security     BearerAuth
// @Router       /comments/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateComment"))

	actor, _ := auth.GetUserIDFromContext(ctx)

	var req UpdateCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.commentsService.Update(ctx, actor, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeMutationError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, comment)
}

// Delete godoc
// @Summary      Delete a comment
// @Tags         Comments
// @Produce      json
// @Param        id path string true "Comment ID"
// @Success      200 {object} types.Response "Comment deleted"
// @Failure      403 {object} types.Response "Not the owner"
// @Failure      404 {object} types.Response "Comment not found"
// @Security     BearerAuth
// @Router       /comments/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteComment"))

	actor, _ := auth.GetUserIDFromContext(ctx)

	if err := h.commentsService.Delete(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.writeMutationError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Comment deleted successfully"})
}

func (h *HandlerImpl) writeMutationError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Comment not found")
	case errors.Is(err, types.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, "You do not own this comment")
	case errors.Is(err, types.ErrUnauthenticated):
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
	default:
		l.ErrorContext(r.Context(), "Comment mutation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Comment operation failed")
	}
}
