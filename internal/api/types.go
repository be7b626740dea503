package api

import "github.com/Tagaingne/dream-synthesizer/usecase"

// AnalyzeTextRequest carries an already-transcribed dream, skipping the
// speech recognition step
type AnalyzeTextRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// AnalyzeResponse mirrors the pipeline result. Error is set when the
// image step failed but the partial text/emotion results are still
// worth showing.
type AnalyzeResponse struct {
	*usecase.DreamAnalysis
	Error string `json:"error,omitempty"`
}

// TranslateRequest asks for a display-only translation of dream text
type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

// TranslateResponse carries the translated text
type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
