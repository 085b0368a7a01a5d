package chat

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/fitfeed/fitfeed/config"
)

var _ Assistant = (*GeminiAssistant)(nil)

// Assistant produces the reply turn for a user's chat message.
type Assistant interface {
	GenerateReply(ctx context.Context, message string) (string, error)
}

// GeminiAssistant talks to the Gemini API. Prompting is deliberately thin:
// the user's message goes through with a single framing line.
type GeminiAssistant struct {
	client *genai.Client
	model  string
}

func NewGeminiAssistant(ctx context.Context, cfg config.AIConfig) (*GeminiAssistant, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAssistant{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (a *GeminiAssistant) GenerateReply(ctx context.Context, message string) (string, error) {
	prompt := "You are a friendly fitness assistant. Answer briefly.\n\n" + message

	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return result.Text(), nil
}
