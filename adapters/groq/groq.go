package groq

import (
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

const (
	defaultAPIBaseURL        = "https://api.groq.com/openai/v1"
	defaultWhisperModel      = "whisper-large-v3"
	defaultChatModel         = "mistral-saba-24b"
	defaultTranscriptionHint = "Transcris le rêve le plus fidèlement possible."
	translationTemperature   = 0.3
)

// Config holds configuration for the Groq adapter.
// Required fields:
// - APIKey: Your Groq API key
// Optional fields with defaults:
// - APIBaseURL: OpenAI-compatible base URL (default: "https://api.groq.com/openai/v1")
// - WhisperModel: speech recognition model (default: "whisper-large-v3")
// - ChatModel: completion model (default: "mistral-saba-24b")
// - TranscriptionHint: prompt steering the transcription
type Config struct {
	APIKey            string
	APIBaseURL        string
	WhisperModel      string
	ChatModel         string
	TranscriptionHint string
}

// Client talks to the Groq API through its OpenAI-compatible surface and
// serves three capability ports at once: speech recognition, text
// completion, and translation.
type Client struct {
	api    openai.Client
	config Config
	logger *zap.Logger
}

// The one Groq client backs all three remote text capabilities.
var (
	_ repositories.SpeechRecognizer = (*Client)(nil)
	_ repositories.LanguageModel    = (*Client)(nil)
	_ repositories.Translator       = (*Client)(nil)
)

// NewClient creates a Groq client from config
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("groq API key is required")
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = defaultAPIBaseURL
	}
	if config.WhisperModel == "" {
		config.WhisperModel = defaultWhisperModel
	}
	if config.ChatModel == "" {
		config.ChatModel = defaultChatModel
	}
	if config.TranscriptionHint == "" {
		config.TranscriptionHint = defaultTranscriptionHint
	}

	api := openai.NewClient(
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.APIBaseURL),
	)

	return &Client{
		api:    api,
		config: config,
		logger: logger,
	}, nil
}

// remoteErr maps a client error onto the shared taxonomy, keeping the
// provider's status and message visible to operators.
func remoteErr(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &domain.RemoteServiceError{
			Service: "groq",
			Status:  apierr.StatusCode,
			Message: apierr.Message,
			Err:     err,
		}
	}
	return &domain.RemoteServiceError{
		Service: "groq",
		Message: err.Error(),
		Err:     err,
	}
}
