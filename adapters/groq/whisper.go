package groq

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

// audioContentTypes maps the formats the shell accepts onto MIME types
// for the multipart upload. Anything else is unsupported.
var audioContentTypes = map[string]string{
	"wav": "audio/wav",
	"mp3": "audio/mpeg",
	"mp4": "audio/mp4",
	"m4a": "audio/mp4",
}

// Transcribe implements repositories.SpeechRecognizer using Whisper on
// Groq. The call runs at temperature 0 with a fixed transcription hint.
func (c *Client) Transcribe(ctx context.Context, audio []byte, config repositories.AudioConfig) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio clip", domain.ErrInvalidInput)
	}

	contentType, ok := audioContentTypes[config.Format]
	if !ok {
		return "", fmt.Errorf("%w: audio format %q", domain.ErrUnsupported, config.Format)
	}

	language := config.Language
	if language == "" {
		language = "fr"
	}

	params := openai.AudioTranscriptionNewParams{
		File:        openai.File(bytes.NewReader(audio), "dream."+config.Format, contentType),
		Model:       openai.AudioModel(c.config.WhisperModel),
		Language:    openai.String(language),
		Prompt:      openai.String(c.config.TranscriptionHint),
		Temperature: openai.Float(0),
	}

	transcription, err := c.api.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", remoteErr(err)
	}

	c.logger.Info("Audio transcribed",
		zap.String("format", config.Format),
		zap.String("language", language),
		zap.Int("chars", len(transcription.Text)))

	return transcription.Text, nil
}
