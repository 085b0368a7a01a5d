package chat

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fitfeed/fitfeed/internal/types"
)

var _ ChatService = (*ChatServiceImpl)(nil)

type ChatService interface {
	History(ctx context.Context, owner string) ([]types.ChatMessage, error)
	// SendMessage stores the user's turn, generates the assistant's reply
	// and stores that too. Both turns are returned in order.
	SendMessage(ctx context.Context, actor string, req SendMessageRequest) ([]types.ChatMessage, error)
}

// SendMessageRequest represents the chat request body.
type SendMessageRequest struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

type ChatServiceImpl struct {
	repo      ChatRepo
	assistant Assistant // nil when no API key is configured
	logger    *slog.Logger
}

func NewChatService(repo ChatRepo, assistant Assistant, logger *slog.Logger) *ChatServiceImpl {
	return &ChatServiceImpl{
		repo:      repo,
		assistant: assistant,
		logger:    logger,
	}
}

func (s *ChatServiceImpl) History(ctx context.Context, owner string) ([]types.ChatMessage, error) {
	messages, err := s.repo.ListForOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error fetching chat history: %w", err)
	}
	return messages, nil
}

func (s *ChatServiceImpl) SendMessage(ctx context.Context, actor string, req SendMessageRequest) ([]types.ChatMessage, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "SendMessage", trace.WithAttributes(
		attribute.String("user.id", actor),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SendMessage"), slog.String("userID", actor))

	if req.Content == "" {
		return nil, fmt.Errorf("%w: content is required", types.ErrValidation)
	}
	if actor == "" {
		return nil, types.ErrUnauthenticated
	}
	if s.assistant == nil {
		return nil, fmt.Errorf("%w: assistant is not configured", types.ErrMissingConfig)
	}

	userMsg, err := s.repo.Create(ctx, CreateMessageParams{
		Content:  req.Content,
		Owner:    actor,
		Username: req.Username,
		Role:     "user",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store user message")
		return nil, fmt.Errorf("error storing message: %w", err)
	}

	reply, err := s.assistant.GenerateReply(ctx, req.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Assistant reply failed")
		l.ErrorContext(ctx, "Assistant reply failed", slog.Any("error", err))
		return nil, fmt.Errorf("error generating reply: %w", err)
	}

	assistantMsg, err := s.repo.Create(ctx, CreateMessageParams{
		Content: reply,
		Owner:   actor,
		Role:    "assistant",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store assistant message")
		return nil, fmt.Errorf("error storing reply: %w", err)
	}

	span.SetStatus(codes.Ok, "Chat turn completed")
	return []types.ChatMessage{*userMsg, *assistantMsg}, nil
}
