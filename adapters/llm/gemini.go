package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

const defaultModel = "gemini-2.0-flash"

// GeminiLanguageModel implements the LanguageModel port using Google's
// Gemini API. It is the alternate completion backend next to Groq.
type GeminiLanguageModel struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

var _ repositories.LanguageModel = (*GeminiLanguageModel)(nil)

// NewGeminiLanguageModel creates a Gemini-backed language model
func NewGeminiLanguageModel(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiLanguageModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiLanguageModel{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Complete implements repositories.LanguageModel
func (g *GeminiLanguageModel) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), config)
	if err != nil {
		return "", &domain.RemoteServiceError{
			Service: "gemini",
			Message: err.Error(),
			Err:     err,
		}
	}

	reply := resp.Text()
	g.logger.Debug("Completion received",
		zap.String("model", g.model),
		zap.Int("chars", len(reply)))

	return reply, nil
}
