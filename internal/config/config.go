package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port string

	// Provider selection
	STTProvider    string // "groq" (default) or "google"
	LLMProvider    string // "groq" (default) or "gemini"
	HistoryBackend string // "file" (default) or "mongo"

	// Groq
	GroqAPIKey       string
	GroqBaseURL      string
	GroqWhisperModel string
	GroqChatModel    string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Clipdrop
	ClipdropAPIKey string

	// History backends
	HistoryPath   string
	MongoURI      string
	MongoDatabase string

	// Pipeline
	ImageDir    string
	RubricPath  string
	StepTimeout time.Duration
}

// Load reads a .env file when present, then the environment.
func Load(logger *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		STTProvider:      getEnv("STT_PROVIDER", "groq"),
		LLMProvider:      getEnv("LLM_PROVIDER", "groq"),
		HistoryBackend:   getEnv("HISTORY_BACKEND", "file"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:      os.Getenv("GROQ_BASE_URL"),
		GroqWhisperModel: os.Getenv("GROQ_WHISPER_MODEL"),
		GroqChatModel:    os.Getenv("GROQ_CHAT_MODEL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_MODEL"),
		ClipdropAPIKey:   os.Getenv("CLIPDROP_API_KEY"),
		HistoryPath:      getEnv("HISTORY_FILE", "history.json"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    os.Getenv("MONGODB_DATABASE"),
		ImageDir:         getEnv("IMAGE_DIR", "images"),
		RubricPath:       getEnv("EMOTION_RUBRIC_PATH", "context_analysis.txt"),
		StepTimeout:      getDuration("STEP_TIMEOUT", 60*time.Second, logger),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, logger *zap.Logger) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Warn("Ignoring invalid duration", zap.String("key", key), zap.String("value", v))
		return fallback
	}
	return d
}
