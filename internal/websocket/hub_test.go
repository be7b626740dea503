package websocket

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain/entities"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
	"github.com/Tagaingne/dream-synthesizer/internal/recorder"
	"github.com/Tagaingne/dream-synthesizer/usecase"
)

type fakeRecognizer struct {
	text      string
	lastAudio []byte
	calls     int
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, audio []byte, config repositories.AudioConfig) (string, error) {
	f.calls++
	f.lastAudio = audio
	return f.text, nil
}

type fakeLanguageModel struct{ reply string }

func (f *fakeLanguageModel) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	return f.reply, nil
}

type fakeSynthesizer struct{}

func (f *fakeSynthesizer) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return []byte("png-bytes"), nil
}

type fakeTranslator struct{}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return text, nil
}

type fakeHistory struct{ records []entities.DreamRecord }

func (f *fakeHistory) Append(ctx context.Context, record *entities.DreamRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeHistory) ListAll(ctx context.Context) ([]entities.DreamRecord, error) {
	return f.records, nil
}

func newTestClient(t *testing.T, recognizer *fakeRecognizer) *Client {
	t.Helper()

	rubric := filepath.Join(t.TempDir(), "context_analysis.txt")
	if err := os.WriteFile(rubric, []byte("Score the emotions of the dream as JSON."), 0o644); err != nil {
		t.Fatalf("Failed to write rubric: %v", err)
	}

	logger := zap.NewNop()
	classifier := usecase.NewEmotionClassifier(&fakeLanguageModel{reply: `{"joy": 1.0}`}, rubric, logger)
	pipeline := usecase.NewDreamPipeline(
		recognizer,
		classifier,
		&fakeSynthesizer{},
		&fakeTranslator{},
		&fakeHistory{},
		usecase.PipelineConfig{ImageDir: t.TempDir()},
		logger,
	)

	return &Client{
		hub:       NewHub(pipeline, logger),
		send:      make(chan WriteData, 256),
		sessionID: "test-session",
		logger:    logger,
		buffer:    recorder.NewBuffer(),
	}
}

// nextMessage pops one outbound message and decodes its envelope.
func nextMessage(t *testing.T, c *Client) (BaseMessage, []byte) {
	t.Helper()
	select {
	case msg := <-c.send:
		var base BaseMessage
		if err := json.Unmarshal(msg.Payload, &base); err != nil {
			t.Fatalf("Outbound message is not JSON: %v", err)
		}
		return base, msg.Payload
	default:
		t.Fatal("Expected an outbound message")
		return BaseMessage{}, nil
	}
}

func TestRecordingSession(t *testing.T) {
	recognizer := &fakeRecognizer{text: "I dreamt of a glass city"}
	c := newTestClient(t, recognizer)

	c.processMessage([]byte(`{"type": "recording_start", "sample_rate": 16000, "language": "fr"}`))

	base, _ := nextMessage(t, c)
	if base.Type != MessageTypeRecordingState {
		t.Fatalf("Expected recording_state ack, got %q", base.Type)
	}

	c.processAudioFrame([]byte{0x01, 0x02, 0x03, 0x04})
	c.processAudioFrame([]byte{0x05, 0x06})
	if c.buffer.Len() != 6 {
		t.Fatalf("Expected 6 buffered bytes, got %d", c.buffer.Len())
	}

	c.processMessage([]byte(`{"type": "recording_stop"}`))

	base, payload := nextMessage(t, c)
	if base.Type != MessageTypeAnalysis {
		t.Fatalf("Expected analysis message, got %q: %s", base.Type, payload)
	}

	var analysis AnalysisMessage
	if err := json.Unmarshal(payload, &analysis); err != nil {
		t.Fatalf("Failed to decode analysis: %v", err)
	}
	if analysis.Text != "I dreamt of a glass city" {
		t.Errorf("Unexpected transcription %q", analysis.Text)
	}
	if analysis.DominantEmotion != "joy" {
		t.Errorf("Expected dominant emotion joy, got %q", analysis.DominantEmotion)
	}
	if analysis.ImagePath == "" {
		t.Error("Expected an image path")
	}

	if recognizer.calls != 1 {
		t.Errorf("Expected exactly one transcription, got %d", recognizer.calls)
	}
	// The recognizer sees a WAV clip, not bare PCM.
	if len(recognizer.lastAudio) != 44+6 {
		t.Errorf("Expected 50-byte WAV clip, got %d bytes", len(recognizer.lastAudio))
	}

	if c.buffer.Len() != 0 {
		t.Errorf("Expected buffer drained after stop, got %d bytes", c.buffer.Len())
	}
}

func TestStopWithoutStart(t *testing.T) {
	c := newTestClient(t, &fakeRecognizer{})

	c.processMessage([]byte(`{"type": "recording_stop"}`))

	base, payload := nextMessage(t, c)
	if base.Type != MessageTypeError {
		t.Fatalf("Expected error message, got %q", base.Type)
	}
	var errMsg ErrorMessage
	if err := json.Unmarshal(payload, &errMsg); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if errMsg.Code != "not_recording" {
		t.Errorf("Expected not_recording, got %q", errMsg.Code)
	}
}

func TestStopWithNoAudio(t *testing.T) {
	c := newTestClient(t, &fakeRecognizer{})

	c.processMessage([]byte(`{"type": "recording_start", "sample_rate": 16000}`))
	<-c.send // discard the ack

	c.processMessage([]byte(`{"type": "recording_stop"}`))

	base, payload := nextMessage(t, c)
	if base.Type != MessageTypeError {
		t.Fatalf("Expected error message, got %q", base.Type)
	}
	var errMsg ErrorMessage
	if err := json.Unmarshal(payload, &errMsg); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if errMsg.Code != "no_audio" {
		t.Errorf("Expected no_audio, got %q", errMsg.Code)
	}
}

func TestFramesOutsideSessionAreDropped(t *testing.T) {
	c := newTestClient(t, &fakeRecognizer{})

	c.processAudioFrame([]byte{0x01, 0x02})
	if c.buffer.Len() != 0 {
		t.Errorf("Expected frame outside a session to be dropped, buffered %d bytes", c.buffer.Len())
	}
}

func TestRestartDiscardsStaleAudio(t *testing.T) {
	recognizer := &fakeRecognizer{text: "only the second take"}
	c := newTestClient(t, recognizer)

	c.processMessage([]byte(`{"type": "recording_start", "sample_rate": 16000}`))
	<-c.send
	c.processAudioFrame([]byte{0xAA, 0xBB, 0xCC, 0xDD})

	// A new start without a stop abandons the first take entirely.
	c.processMessage([]byte(`{"type": "recording_start", "sample_rate": 16000}`))
	<-c.send
	c.processAudioFrame([]byte{0x01, 0x02})

	c.processMessage([]byte(`{"type": "recording_stop"}`))
	base, _ := nextMessage(t, c)
	if base.Type != MessageTypeAnalysis {
		t.Fatalf("Expected analysis, got %q", base.Type)
	}

	if len(recognizer.lastAudio) != 44+2 {
		t.Errorf("Expected only the second take (46-byte WAV), got %d bytes", len(recognizer.lastAudio))
	}
}

func TestInvalidControlMessage(t *testing.T) {
	c := newTestClient(t, &fakeRecognizer{})

	c.processMessage([]byte(`not json at all`))

	base, _ := nextMessage(t, c)
	if base.Type != MessageTypeError {
		t.Errorf("Expected error for invalid JSON, got %q", base.Type)
	}
}
