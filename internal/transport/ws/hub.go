package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection is one subscriber to a session's events
type Connection struct {
	SessionID string
	Send      chan []byte
}

// NewConnection creates a subscriber with a buffered send queue
func NewConnection(sessionID string) *Connection {
	return &Connection{SessionID: sessionID, Send: make(chan []byte, 256)}
}

type broadcastMessage struct {
	sessionID string
	data      []byte
}

// Hub fans session events out to websocket subscribers. All maps are owned
// by the Run goroutine.
type Hub struct {
	conns map[string]map[*Connection]struct{} // sessionID -> subscribers

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
	done       chan struct{}

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub. Call Run to start it.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
		done:       make(chan struct{}),
		logger:     logger.Named("ws"),
	}
}

// Run serves the hub until ctx is cancelled, then closes every subscriber
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, subs := range h.conns {
				for conn := range subs {
					close(conn.Send)
				}
			}
			h.conns = map[string]map[*Connection]struct{}{}
			return nil

		case conn := <-h.register:
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.logger.Debug("subscriber connected", zap.String("sessionId", conn.SessionID))

		case conn := <-h.unregister:
			subs, ok := h.conns[conn.SessionID]
			if !ok {
				continue
			}
			if _, ok := subs[conn]; ok {
				delete(subs, conn)
				close(conn.Send)
				h.logger.Debug("subscriber disconnected", zap.String("sessionId", conn.SessionID))
			}
			if len(subs) == 0 {
				delete(h.conns, conn.SessionID)
			}

		case msg := <-h.broadcast:
			for conn := range h.conns[msg.sessionID] {
				select {
				case conn.Send <- msg.data:
				default:
					// Drop message if buffer full
				}
			}
		}
	}
}

// Register adds a connection. It reports false once the hub has stopped.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish sends an event to every subscriber of a session (implements service.Publisher)
func (h *Hub) Publish(sessionID string, event string, payload interface{}) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Warn("encode event", zap.String("event", event), zap.Error(err))
			return
		}
		raw = data
	}
	data, _ := json.Marshal(&Message{Type: event, Payload: raw})

	select {
	case h.broadcast <- &broadcastMessage{sessionID: sessionID, data: data}:
	case <-h.done:
	}
}
