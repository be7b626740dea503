package clipdrop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://clipdrop-api.co"
	defaultTimeout    = 90 * time.Second
)

// Config holds configuration for the Clipdrop adapter.
// Required fields:
// - APIKey: Your Clipdrop API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Clipdrop API (default: "https://clipdrop-api.co")
// - Timeout: HTTP client timeout (default: 90s; image synthesis is slow)
type Config struct {
	APIKey     string
	APIBaseURL string
	Timeout    time.Duration
}

// ImageSynthesizer implements the ImageSynthesizer port using the
// Clipdrop text-to-image API
type ImageSynthesizer struct {
	apiKey     string
	apiBaseURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure ImageSynthesizer implements the port
var _ repositories.ImageSynthesizer = (*ImageSynthesizer)(nil)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// NewImageSynthesizer creates a new Clipdrop adapter
func NewImageSynthesizer(config Config, logger *zap.Logger) (*ImageSynthesizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("clipdrop API key is required")
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &ImageSynthesizer{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Generate renders an illustration for the prompt. Any non-success
// status from the service is surfaced verbatim, status code and body,
// as a RemoteServiceError.
func (s *ImageSynthesizer) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", domain.ErrInvalidInput)
	}

	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-image/v1", s.apiBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	s.logger.Debug("Requesting dream illustration", zap.Int("promptChars", len(prompt)))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &domain.RemoteServiceError{
			Service: "clipdrop",
			Message: err.Error(),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		return nil, &domain.RemoteServiceError{
			Service: "clipdrop",
			Status:  resp.StatusCode,
			Message: string(errorBody),
		}
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image bytes: %w", err)
	}

	s.logger.Info("Dream illustration generated", zap.Int("bytes", len(image)))
	return image, nil
}
