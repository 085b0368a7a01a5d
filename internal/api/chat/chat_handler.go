package chat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitfeed/fitfeed/internal/api"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/types"
)

type HandlerImpl struct {
	chatService ChatService
	logger      *slog.Logger
}

func NewHandlerImpl(chatService ChatService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		chatService: chatService,
		logger:      logger,
	}
}

// History godoc
// @Summary      Chat history
// @Description  Returns the authenticated user's conversation with the assistant.
// @Tags         Chat
// @Produce      json
// @Success      200 {array} types.ChatMessage
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /chat [get]
func (h *HandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ChatHistory"))

	actor, ok := auth.GetUserIDFromContext(ctx)
	if !ok || actor == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	messages, err := h.chatService.History(ctx, actor)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch chat history", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, messages)
}

// SendMessage godoc
// @Summary      Send a message to the assistant
// @Description  Stores the user's message, generates an assistant reply and returns both turns.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        body body SendMessageRequest true "Message"
// @Success      201 {array} types.ChatMessage "User turn and assistant turn"
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      503 {object} types.Response "Assistant not configured"
// @Security     BearerAuth
// @Router       /chat [post]
func (h *HandlerImpl) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SendMessage"))

	actor, ok := auth.GetUserIDFromContext(ctx)
	if !ok || actor == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SendMessageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.chatService.SendMessage(ctx, actor, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrMissingConfig):
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Assistant is not available")
		default:
			l.ErrorContext(ctx, "Chat turn failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Chat turn failed")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, messages)
}
