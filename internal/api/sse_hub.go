package api

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"marketviz/domain/playback"
)

// PlaybackEvent is one frame notification pushed to the browser while a
// session is playing (or after any control input). The client re-renders the
// map and charts for the new day when it arrives.
type PlaybackEvent struct {
	SessionID string    `json:"session_id"`
	Day       int       `json:"day"`
	Playing   bool      `json:"playing"`
	StepDays  int       `json:"step_days"`
	FPS       int       `json:"fps"`
	LoopMode  string    `json:"loop_mode"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPlaybackEvent builds an event from a playback state snapshot.
func NewPlaybackEvent(sessionID string, s playback.State) PlaybackEvent {
	return PlaybackEvent{
		SessionID: sessionID,
		Day:       s.Day,
		Playing:   s.Playing,
		StepDays:  s.StepDays,
		FPS:       s.FPS,
		LoopMode:  s.Loop.String(),
		Timestamp: time.Now(),
	}
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	SessionID string
	Channel   chan PlaybackEvent
}

// SSEHub manages Server-Sent Events for real-time playback updates
type SSEHub struct {
	clients    map[string]map[chan PlaybackEvent]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan PlaybackEvent
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[string]map[chan PlaybackEvent]bool),
		register:   make(chan SSEClient, 10),
		unregister: make(chan SSEClient, 10),
		broadcast:  make(chan PlaybackEvent, 100),
	}

	go hub.run()
	return hub
}

// run processes SSE hub operations
func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.SessionID] == nil {
				h.clients[client.SessionID] = make(map[chan PlaybackEvent]bool)
			}
			h.clients[client.SessionID][client.Channel] = true
			log.Printf("[SSE] Client registered for session %s (total clients: %d)",
				client.SessionID, len(h.clients[client.SessionID]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.SessionID]; exists {
				delete(clients, client.Channel)
				close(client.Channel)
				if len(clients) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			if clients, exists := h.clients[event.SessionID]; exists {
				for clientChan := range clients {
					select {
					case clientChan <- event:
						// Event sent successfully
					default:
						// Client channel is full, skip
						log.Printf("[SSE] Client channel full for session %s, skipping event",
							event.SessionID)
					}
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Broadcast sends an event to all clients listening to a session
func (h *SSEHub) Broadcast(event PlaybackEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping event for session %s", event.SessionID)
	}
}

// HandleSSE handles the Server-Sent Events endpoint
func (h *SSEHub) HandleSSE(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(400, gin.H{"error": "session parameter required"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	client := SSEClient{
		SessionID: sessionID,
		Channel:   make(chan PlaybackEvent, 32),
	}
	h.register <- client
	defer func() { h.unregister <- client }()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-client.Channel:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("frame", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
