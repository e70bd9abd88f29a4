package ws

import (
	"net/http"
	"strings"
	"time"

	"heartquiz/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Handler upgrades session event subscriptions
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	upgrader websocket.Upgrader
	origins  []string
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler. All origins are accepted
// until SetAllowedOrigins narrows them.
func NewHandler(hub *Hub, authSvc *service.AuthService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		hub:     hub,
		authSvc: authSvc,
		origins: []string{"*"},
		logger:  logger.Named("ws"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetAllowedOrigins takes the same comma separated list as the CORS header
func (h *Handler) SetAllowedOrigins(list string) {
	var origins []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	h.origins = origins
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// SessionWS handles GET /api/ws/session?token=
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Subscribe before the handshake so nothing published after it is missed
	conn := NewConnection(claims.SessionID)
	if !h.hub.Register(conn) {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unregister(conn)
		h.logger.Warn("upgrade failed", zap.String("session", claims.SessionID), zap.Error(err))
		return
	}

	p := &peer{ws: wsConn, conn: conn, hub: h.hub, logger: h.logger.With(zap.String("session", claims.SessionID))}
	p.logger.Debug("subscriber connected")

	go p.writeLoop()
	go p.readLoop()
}

// peer couples one websocket with its hub subscription
type peer struct {
	ws     *websocket.Conn
	conn   *Connection
	hub    *Hub
	logger *zap.Logger
}

// readLoop only services control frames; subscribers never send events
func (p *peer) readLoop() {
	defer func() {
		p.hub.Unregister(p.conn)
		p.ws.Close()
	}()

	p.ws.SetReadLimit(maxMessageSize)
	p.ws.SetReadDeadline(time.Now().Add(pongWait))
	p.ws.SetPongHandler(func(string) error {
		return p.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := p.ws.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Debug("subscriber dropped", zap.Error(err))
			}
			return
		}
	}
}

// writeLoop drains the subscription queue until the hub closes it
func (p *peer) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.ws.Close()
	}()

	for {
		select {
		case data, ok := <-p.conn.Send:
			p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := p.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				p.logger.Debug("write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
