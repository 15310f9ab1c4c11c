package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

const maxMessageSize = 4096

// Server upgrades HTTP requests and pumps frames between sockets and the hub.
type Server struct {
	hub       *Hub
	logg      *logger.Logger
	upgrader  websocket.Upgrader
	buffer    int
	writeWait time.Duration
	pongWait  time.Duration
}

// NewServer accepts connections from allowedOrigins; an empty list or "*" allows any origin.
func NewServer(hub *Hub, cfg config.RealtimeConfig, logg *logger.Logger, allowedOrigins ...string) *Server {
	s := &Server{
		hub:       hub,
		logg:      logg,
		buffer:    cfg.SendBuffer,
		writeWait: cfg.WriteWait,
		pongWait:  cfg.PongWait,
	}
	if s.writeWait <= 0 {
		s.writeWait = 10 * time.Second
	}
	if s.pongWait <= 0 {
		s.pongWait = 60 * time.Second
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// ServeHTTP handles GET /ws.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(r.Context(), "realtime.upgrade_failed")
		}
		return
	}

	client := NewClient(s.buffer)
	s.hub.Register(client)

	ctx := context.Background()
	if s.logg != nil {
		ctx = s.logg.WithField(ctx, "client_id", client.ID)
		s.logg.Info(ctx, "realtime.client_connected")
	}

	go s.writePump(client, conn)
	go s.readPump(ctx, client, conn)
}

func (s *Server) readPump(ctx context.Context, client *Client, conn *websocket.Conn) {
	defer func() {
		s.hub.Unregister(client)
		_ = conn.Close()
		if s.logg != nil {
			s.logg.Info(ctx, "realtime.client_disconnected")
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		s.handle(ctx, client, msg)
	}
}

func (s *Server) handle(ctx context.Context, client *Client, msg ClientMessage) {
	switch msg.Event {
	case ActionJoinCity:
		s.hub.Join(client, msg.City)
	case ActionLeaveCity:
		if !s.hub.Leave(client, msg.City) {
			return
		}
	default:
		return
	}
	if s.logg != nil {
		s.logg.Debug(s.logg.WithCity(ctx, msg.City), "realtime."+msg.Event)
	}
}

func (s *Server) writePump(client *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(s.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
