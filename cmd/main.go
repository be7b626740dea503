package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/adapters/clipdrop"
	"github.com/Tagaingne/dream-synthesizer/adapters/groq"
	"github.com/Tagaingne/dream-synthesizer/adapters/history"
	"github.com/Tagaingne/dream-synthesizer/adapters/llm"
	gmongo "github.com/Tagaingne/dream-synthesizer/adapters/mongo"
	"github.com/Tagaingne/dream-synthesizer/adapters/stt"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
	"github.com/Tagaingne/dream-synthesizer/internal/api"
	"github.com/Tagaingne/dream-synthesizer/internal/config"
	"github.com/Tagaingne/dream-synthesizer/internal/websocket"
	"github.com/Tagaingne/dream-synthesizer/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load(logger)

	// Groq backs speech recognition, completion and translation unless
	// an alternate provider is selected.
	groqClient, err := groq.NewClient(groq.Config{
		APIKey:       cfg.GroqAPIKey,
		APIBaseURL:   cfg.GroqBaseURL,
		WhisperModel: cfg.GroqWhisperModel,
		ChatModel:    cfg.GroqChatModel,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize groq client", zap.Error(err))
	}

	var recognizer repositories.SpeechRecognizer = groqClient
	if cfg.STTProvider == "google" {
		recognizer = stt.NewGoogleSpeechRecognizer(logger)
	}

	var languageModel repositories.LanguageModel = groqClient
	if cfg.LLMProvider == "gemini" {
		gemini, err := llm.NewGeminiLanguageModel(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Fatal("failed to initialize gemini client", zap.Error(err))
		}
		languageModel = gemini
	}

	synthesizer, err := clipdrop.NewImageSynthesizer(clipdrop.Config{
		APIKey:  cfg.ClipdropAPIKey,
		Timeout: cfg.StepTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize clipdrop client", zap.Error(err))
	}

	var dreamHistory repositories.DreamHistory = history.NewFileStore(cfg.HistoryPath, logger)
	var mongoClient *gmongo.Client
	if cfg.HistoryBackend == "mongo" {
		mongoClient, err = gmongo.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		dreamHistory = gmongo.NewHistoryRepository(mongoClient.Database)
	}

	classifier := usecase.NewEmotionClassifier(languageModel, cfg.RubricPath, logger)
	pipeline := usecase.NewDreamPipeline(
		recognizer,
		classifier,
		synthesizer,
		groqClient,
		dreamHistory,
		usecase.PipelineConfig{
			ImageDir:    cfg.ImageDir,
			StepTimeout: cfg.StepTimeout,
		},
		logger,
	)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Generated illustrations are served straight from the image dir so
	// persisted image paths stay browsable.
	e.Static("/images", cfg.ImageDir)

	// Initialize WebSocket hub for live recording sessions
	hub := websocket.NewHub(pipeline, logger)
	go hub.Run()

	// Initialize API routes
	api.InitRoutes(e, pipeline, dreamHistory, hub, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Dream synthesizer started",
		zap.String("port", cfg.Port),
		zap.String("sttProvider", cfg.STTProvider),
		zap.String("llmProvider", cfg.LLMProvider),
		zap.String("historyBackend", cfg.HistoryBackend))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Error("Failed to close mongodb connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
