package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"marvin/internal/logging"
)

// GeminiClient talks to Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the conversation to Gemini and returns the reply text.
func (g *GeminiClient) Generate(ctx context.Context, system string, messages []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	logging.LLMDebug("Generating with %s (%d messages)", g.model, len(messages))

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	logging.LLM("Generated %d chars with %s", len(text), g.model)
	return text, nil
}

// Name identifies the provider and model.
func (g *GeminiClient) Name() string {
	return fmt.Sprintf("gemini:%s", g.model)
}

// Close closes the underlying client.
func (g *GeminiClient) Close() error {
	// genai.Client has no Close method; nothing to release.
	return nil
}
