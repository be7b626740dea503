package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
	"github.com/Tagaingne/dream-synthesizer/internal/websocket"
	"github.com/Tagaingne/dream-synthesizer/usecase"
)

type handler struct {
	pipeline *usecase.DreamPipeline
	history  repositories.DreamHistory
	logger   *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, pipeline *usecase.DreamPipeline, history repositories.DreamHistory, hub *websocket.Hub, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "dream-synthesizer",
		})
	})

	h := &handler{pipeline: pipeline, history: history, logger: logger}

	v1 := e.Group("/api/v1")
	v1.POST("/dreams/analyze", h.analyzeDream)
	v1.POST("/dreams", h.saveDream)
	v1.GET("/dreams", h.listDreams)
	v1.POST("/translate", h.translateDream)

	// Live recording endpoint
	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(hub, c, logger)
	})
}

// analyzeDream runs one pipeline analysis from either an uploaded audio
// clip (multipart field "audio") or a JSON body with dream text.
// Analysis never persists anything; saving is a separate call.
func (h *handler) analyzeDream(c echo.Context) error {
	ctx := c.Request().Context()
	var input usecase.DreamInput

	if file, err := c.FormFile("audio"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_upload",
				Message: err.Error(),
			})
		}
		defer src.Close()

		audio, err := io.ReadAll(src)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_upload",
				Message: err.Error(),
			})
		}

		input.Audio = audio
		input.AudioConfig = repositories.AudioConfig{
			Format:   strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), ".")),
			Language: c.FormValue("language"),
		}
	} else {
		var req AnalyzeTextRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "expected an audio upload or a JSON body with text",
			})
		}
		input.Text = req.Text
	}

	analysis, err := h.pipeline.Analyze(ctx, input)
	if err != nil {
		h.logger.Error("Dream analysis failed", zap.Error(err))
		status := statusForError(err)
		if analysis != nil {
			// Partial result: text and emotions survived an image failure.
			return c.JSON(status, AnalyzeResponse{DreamAnalysis: analysis, Error: err.Error()})
		}
		return c.JSON(status, ErrorResponse{Error: "analysis_failed", Message: err.Error()})
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{DreamAnalysis: analysis})
}

// saveDream commits a previously computed analysis to history. The
// explicit trigger is deliberate: analyzing a dream and keeping it are
// different decisions.
func (h *handler) saveDream(c echo.Context) error {
	var analysis usecase.DreamAnalysis
	if err := c.Bind(&analysis); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}

	record, err := h.pipeline.Save(c.Request().Context(), &analysis)
	if err != nil {
		h.logger.Error("Failed to save dream", zap.Error(err))
		return c.JSON(statusForError(err), ErrorResponse{
			Error:   "save_failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, record)
}

func (h *handler) listDreams(c echo.Context) error {
	records, err := h.history.ListAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list dream history", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "history_unavailable",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, records)
}

func (h *handler) translateDream(c echo.Context) error {
	var req TranslateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}
	if req.TargetLanguage == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "target_language is required",
		})
	}

	translated, err := h.pipeline.Translate(c.Request().Context(), req.Text, req.TargetLanguage)
	if err != nil {
		h.logger.Error("Translation failed", zap.Error(err))
		return c.JSON(statusForError(err), ErrorResponse{
			Error:   "translation_failed",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, TranslateResponse{TranslatedText: translated})
}

// statusForError maps the domain error taxonomy onto HTTP statuses
func statusForError(err error) int {
	var rse *domain.RemoteServiceError
	switch {
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &rse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
