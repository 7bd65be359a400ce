package companion

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini generates replies through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Model = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("new companion model: api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("new companion model: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Reply seeds the exchange with the persona as a prior model turn, then
// asks for the next turn.
func (g *Gemini) Reply(ctx context.Context, persona, message string) (string, error) {
	history := []*genai.Content{
		genai.NewContentFromText(persona, genai.RoleModel),
		genai.NewContentFromText(message, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, history, nil)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
