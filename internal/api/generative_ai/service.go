package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/S-yujin/Gildam/internal/types"
)

// Preference order for automatic model selection, newest first.
var preferredModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Hard default when discovery fails entirely.
const fallbackModel = "gemini-1.5-flash"

// Client is the text-completion boundary used by the itinerary service.
// Kept as an interface so service tests can substitute a mock.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

type AIClient struct {
	client *genai.Client
	logger *slog.Logger
	model  string
}

var _ Client = (*AIClient)(nil)

// NewAIClient connects to the Gemini API using GOOGLE_GEMINI_API_KEY and
// resolves the model to use via ListModels.
func NewAIClient(ctx context.Context, logger *slog.Logger) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	ai := &AIClient{client: client, logger: logger}
	ai.model = ai.pickModel(ctx)
	logger.Info("generative AI client ready", slog.String("model", ai.model))
	return ai, nil
}

// pickModel lists the available models and returns the most preferred one
// that supports content generation. Falls back to the first generation-capable
// model, then to a fixed default.
func (ai *AIClient) pickModel(ctx context.Context) string {
	available := make(map[string]bool)
	var first string

	for model, err := range ai.client.Models.All(ctx) {
		if err != nil {
			ai.logger.Warn("listing models failed, using default",
				slog.String("model", fallbackModel), slog.Any("error", err))
			return fallbackModel
		}
		if !supportsGeneration(model) {
			continue
		}
		name := strings.TrimPrefix(model.Name, "models/")
		if first == "" {
			first = name
		}
		available[name] = true
	}

	for _, preferred := range preferredModels {
		if available[preferred] {
			return preferred
		}
	}
	if first != "" {
		ai.logger.Warn("no preferred model available", slog.String("using", first))
		return first
	}
	return fallbackModel
}

func supportsGeneration(m *genai.Model) bool {
	for _, action := range m.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}

// GenerateContent sends the prompt and returns the response text. Rate
// limiting surfaces as types.ErrRateLimited, everything else as
// types.ErrCompletionService.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED") {
			return "", fmt.Errorf("%w: %w", types.ErrRateLimited, err)
		}
		return "", fmt.Errorf("%w: %w", types.ErrCompletionService, err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response text", types.ErrCompletionService)
	}
	return text, nil
}
