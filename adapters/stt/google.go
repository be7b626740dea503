package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

// GoogleSpeechRecognizer implements SpeechRecognizer for Google Cloud.
// Dream clips are short, so the synchronous Recognize call is enough; no
// streaming session is kept open.
type GoogleSpeechRecognizer struct {
	logger *zap.Logger
}

var _ repositories.SpeechRecognizer = (*GoogleSpeechRecognizer)(nil)

// NewGoogleSpeechRecognizer creates a recognizer using application
// default credentials
func NewGoogleSpeechRecognizer(logger *zap.Logger) *GoogleSpeechRecognizer {
	return &GoogleSpeechRecognizer{logger: logger}
}

// Transcribe converts an audio clip to text using Google Cloud
// Speech-to-Text
func (g *GoogleSpeechRecognizer) Transcribe(ctx context.Context, audio []byte, config repositories.AudioConfig) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio clip", domain.ErrInvalidInput)
	}

	encoding, err := audioEncoding(config.Format)
	if err != nil {
		return "", err
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(config.SampleRate),
			LanguageCode:    languageCode(config.Language),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", &domain.RemoteServiceError{
			Service: "google-speech",
			Message: err.Error(),
			Err:     err,
		}
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcript.WriteString(result.Alternatives[0].Transcript)
		}
	}
	if transcript.Len() == 0 {
		return "", fmt.Errorf("no speech detected in audio")
	}

	g.logger.Info("Audio transcribed",
		zap.String("format", config.Format),
		zap.Int("chars", transcript.Len()))

	return transcript.String(), nil
}

// audioEncoding converts the clip format hint to a Google Speech API
// enum. Container formats the API cannot decode (mp4, m4a) are
// unsupported on this backend.
func audioEncoding(format string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch format {
	case "wav", "linear16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "flac":
		return speechpb.RecognitionConfig_FLAC, nil
	case "mp3":
		return speechpb.RecognitionConfig_MP3, nil
	case "ogg":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
			fmt.Errorf("%w: audio format %q for google speech", domain.ErrUnsupported, format)
	}
}

// languageCode widens an ISO 639-1 hint into the BCP-47 code the API
// expects
func languageCode(language string) string {
	switch language {
	case "", "fr":
		return "fr-FR"
	case "en":
		return "en-US"
	default:
		if len(language) == 2 {
			return language + "-" + strings.ToUpper(language)
		}
		return language
	}
}
