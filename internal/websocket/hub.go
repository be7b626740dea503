package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
	"github.com/Tagaingne/dream-synthesizer/internal/recorder"
	"github.com/Tagaingne/dream-synthesizer/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio frames

	defaultSampleRate = 16000
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Single-user local tool; every origin may record.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active recording clients.
type Hub struct {
	// Registered clients keyed by session ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	pipeline *usecase.DreamPipeline

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub over the dream pipeline
func NewHub(pipeline *usecase.DreamPipeline, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		pipeline:   pipeline,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.sessionID] = client
			h.mu.Unlock()
			h.logger.Info("Recording client registered", zap.String("sessionID", client.sessionID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.sessionID]; ok {
				delete(h.clients, client.sessionID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Recording client unregistered", zap.String("sessionID", client.sessionID))
		}
	}
}

type WriteData struct {
	// Type is the websocket message type.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between one websocket connection and the hub.
// It owns the capture buffer for its recording session: the read pump is
// the only writer, the stop handler is the only drainer.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Session ID for this client
	sessionID string

	// Logger
	logger *zap.Logger

	// Capture session state
	buffer     *recorder.Buffer
	sampleRate int
	language   string
	recording  bool

	mutex sync.Mutex
}

// HandleWebSocket handles websocket requests from the peer.
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan WriteData, 256),
		sessionID: uuid.NewString(),
		logger:    logger,
		buffer:    recorder.NewBuffer(),
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			// Control messages: start/stop the recording session
			c.processMessage(message)
		case websocket.BinaryMessage:
			// Raw PCM audio frames
			c.processAudioFrame(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage processes incoming control messages
func (c *Client) processMessage(message []byte) {
	var base BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		c.logger.Error("Failed to parse message", zap.Error(err))
		c.sendError("invalid_message", "message is not valid JSON")
		return
	}

	switch base.Type {
	case MessageTypeRecordingStart:
		var msg RecordingStartMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid_message", "malformed recording_start")
			return
		}
		c.handleRecordingStart(msg)
	case MessageTypeRecordingStop:
		c.handleRecordingStop()
	default:
		c.logger.Warn("Unknown message type", zap.String("type", string(base.Type)))
		c.sendError("unknown_message", string(base.Type))
	}
}

// processAudioFrame buffers one binary audio frame
func (c *Client) processAudioFrame(data []byte) {
	c.mutex.Lock()
	recording := c.recording
	c.mutex.Unlock()

	if !recording {
		c.logger.Warn("Dropping audio frame outside a recording session",
			zap.String("sessionID", c.sessionID),
			zap.Int("size", len(data)))
		return
	}

	c.buffer.Write(data)

	c.logger.Debug("Buffered audio frame",
		zap.String("sessionID", c.sessionID),
		zap.Int("frames", c.buffer.FrameCount()),
		zap.Int("bytes", c.buffer.Len()))
}

// handleRecordingStart opens a fresh capture session. Any leftover audio
// from an aborted previous session is discarded first.
func (c *Client) handleRecordingStart(msg RecordingStartMessage) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if discarded := c.buffer.Drain(); len(discarded) > 0 {
		c.logger.Warn("Discarded stale audio from previous session",
			zap.String("sessionID", c.sessionID),
			zap.Int("bytes", len(discarded)))
	}

	c.sampleRate = msg.SampleRate
	if c.sampleRate == 0 {
		c.sampleRate = defaultSampleRate
	}
	c.language = msg.Language
	c.recording = true

	c.logger.Info("Recording started",
		zap.String("sessionID", c.sessionID),
		zap.Int("sampleRate", c.sampleRate))

	c.sendJSON(RecordingStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeRecordingState, Timestamp: time.Now().Format(time.RFC3339)},
		SessionID:   c.sessionID,
	})
}

// handleRecordingStop drains the capture buffer exactly once, encodes
// the audio as WAV and runs the dream pipeline on it. The buffer is
// empty afterwards regardless of the outcome.
func (c *Client) handleRecordingStop() {
	c.mutex.Lock()
	if !c.recording {
		c.mutex.Unlock()
		c.sendError("not_recording", "no recording session to stop")
		return
	}
	c.recording = false
	sampleRate := c.sampleRate
	language := c.language
	c.mutex.Unlock()

	pcm := c.buffer.Drain()

	wav, err := recorder.EncodeWAV(pcm, sampleRate)
	if err != nil {
		c.logger.Warn("Nothing to analyze after stop", zap.Error(err))
		c.sendError("no_audio", "no audio captured in this session")
		return
	}

	c.logger.Info("Recording stopped",
		zap.String("sessionID", c.sessionID),
		zap.Int("bytes", len(pcm)))

	analysis, err := c.hub.pipeline.Analyze(context.Background(), usecase.DreamInput{
		Audio: wav,
		AudioConfig: repositories.AudioConfig{
			Format:     "wav",
			SampleRate: sampleRate,
			Language:   language,
		},
	})
	if err != nil {
		c.logger.Error("Dream analysis failed", zap.String("sessionID", c.sessionID), zap.Error(err))
		c.sendError("analysis_failed", err.Error())
		if analysis == nil {
			return
		}
		// Image failed; text and emotions still follow below.
	}

	c.sendJSON(AnalysisMessage{
		BaseMessage:         BaseMessage{Type: MessageTypeAnalysis, Timestamp: time.Now().Format(time.RFC3339)},
		SessionID:           c.sessionID,
		Text:                analysis.Text,
		Emotions:            analysis.Emotions,
		EmotionsUnavailable: analysis.EmotionsUnavailable,
		DominantEmotion:     analysis.Emotions.Dominant(),
		ImagePath:           analysis.ImagePath,
	})
}

func (c *Client) sendError(code, message string) {
	c.sendJSON(ErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeError, Timestamp: time.Now().Format(time.RFC3339)},
		Code:        code,
		Message:     message,
	})
}

func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Dropping outbound message, send buffer full",
			zap.String("sessionID", c.sessionID))
	}
}
