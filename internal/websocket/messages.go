package websocket

import (
	"github.com/Tagaingne/dream-synthesizer/domain/entities"
)

// MessageType defines the type of WebSocket control message
type MessageType string

// Supported message types
const (
	MessageTypeRecordingStart MessageType = "recording_start"
	MessageTypeRecordingStop  MessageType = "recording_stop"
	MessageTypeRecordingState MessageType = "recording_state"
	MessageTypeAnalysis       MessageType = "analysis"
	MessageTypeError          MessageType = "error"
)

// BaseMessage defines the common structure for all control messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// RecordingStartMessage opens a fresh capture session. Binary frames
// received after this message are buffered until a stop.
type RecordingStartMessage struct {
	BaseMessage
	SampleRate int    `json:"sample_rate"`
	Language   string `json:"language,omitempty"`
}

// RecordingStateMessage reports capture progress back to the client
type RecordingStateMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	Frames    int    `json:"frames"`
	Bytes     int    `json:"bytes"`
}

// AnalysisMessage carries the pipeline result for a stopped recording
type AnalysisMessage struct {
	BaseMessage
	SessionID           string                       `json:"session_id"`
	Text                string                       `json:"text"`
	Emotions            entities.EmotionDistribution `json:"emotions"`
	EmotionsUnavailable bool                         `json:"emotions_unavailable"`
	DominantEmotion     string                       `json:"dominant_emotion,omitempty"`
	ImagePath           string                       `json:"image_path"`
}

// ErrorMessage reports a failed stage to the client
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}
