package clipdrop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain"
)

func TestGenerate(t *testing.T) {
	var gotKey, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		body, _ := io.ReadAll(r.Body)
		var req generateRequest
		json.Unmarshal(body, &req)
		gotPrompt = req.Prompt
		w.Write([]byte("fake-png-bytes"))
	}))
	defer server.Close()

	synth, err := NewImageSynthesizer(Config{APIKey: "test-key", APIBaseURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewImageSynthesizer returned error: %v", err)
	}

	image, err := synth.Generate(context.Background(), "a glass maze at dusk")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if string(image) != "fake-png-bytes" {
		t.Errorf("Unexpected image bytes: %q", image)
	}
	if gotKey != "test-key" {
		t.Errorf("API key header not sent, got %q", gotKey)
	}
	if gotPrompt != "a glass maze at dusk" {
		t.Errorf("Unexpected prompt: %q", gotPrompt)
	}
}

func TestGenerateRemoteErrorSurfacesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte("credits exhausted"))
	}))
	defer server.Close()

	synth, err := NewImageSynthesizer(Config{APIKey: "test-key", APIBaseURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewImageSynthesizer returned error: %v", err)
	}

	_, err = synth.Generate(context.Background(), "a dream")
	if err == nil {
		t.Fatal("Expected error for non-success status")
	}

	var rse *domain.RemoteServiceError
	if !errors.As(err, &rse) {
		t.Fatalf("Expected RemoteServiceError, got %v", err)
	}
	if rse.Status != http.StatusPaymentRequired {
		t.Errorf("Expected status 402, got %d", rse.Status)
	}
	if rse.Message != "credits exhausted" {
		t.Errorf("Expected verbatim body, got %q", rse.Message)
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	synth, err := NewImageSynthesizer(Config{APIKey: "test-key"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewImageSynthesizer returned error: %v", err)
	}
	if _, err := synth.Generate(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestNewImageSynthesizerRequiresKey(t *testing.T) {
	if _, err := NewImageSynthesizer(Config{}, zap.NewNop()); err == nil {
		t.Error("Expected error for missing API key")
	}
}
