package repositories

import "context"

// SpeechRecognizer abstracts speech recognition services
type SpeechRecognizer interface {
	// Transcribe converts a complete audio clip to best-effort plain text
	Transcribe(ctx context.Context, audio []byte, config AudioConfig) (string, error)
}

// AudioConfig carries the hints a recognizer needs about a clip
type AudioConfig struct {
	// Format is the container/codec hint, e.g. "wav", "mp3", "mp4", "m4a"
	Format string `json:"format"`
	// SampleRate in Hz; zero lets the service infer it
	SampleRate int `json:"sample_rate"`
	// Language is an ISO 639-1 hint, e.g. "fr"
	Language string `json:"language"`
}
