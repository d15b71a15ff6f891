// Package stream exposes live simulation snapshots over websockets.
//
// A broadcaster goroutine samples the coordinator at a fixed interval and
// fans the JSON-encoded frame out to every connected client. Clients are
// read-only consumers; anything they send is discarded, and a failed write
// drops the connection.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/perihelion-dev/astrosim/internal/body"
)

// Source is the snapshot surface the server consumes.
type Source interface {
	Bodies() []body.Body
	Speed() float32
	TotalEnergy() float64
}

// Frame is one broadcast snapshot.
type Frame struct {
	Timestamp   time.Time   `json:"timestamp"`
	Speed       float32     `json:"speed"`
	TotalEnergy float64     `json:"total_energy"`
	Bodies      []FrameBody `json:"bodies"`
}

type FrameBody struct {
	Name     string     `json:"name,omitempty"`
	Mass     float64    `json:"mass"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

type Server struct {
	source   Source
	interval time.Duration
	logger   *slog.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	httpServer *http.Server
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewServer returns a server broadcasting src snapshots every interval.
func NewServer(src Source, interval time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Server{
		source:   src,
		interval: interval,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ListenAndServe blocks serving websocket clients on addr at /ws until
// Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.broadcast(ctx)

	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the broadcaster, closes every client, and shuts down the
// HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("client connected", "clients", n)

	// Drain the read side so control frames are processed; drop the
	// connection on any read error.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcast(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if len(s.clients) == 0 {
			s.mu.Unlock()
			continue
		}
		conns := make([]*websocket.Conn, 0, len(s.clients))
		for conn := range s.clients {
			conns = append(conns, conn)
		}
		s.mu.Unlock()

		data, err := json.Marshal(s.frame())
		if err != nil {
			s.logger.Error("frame encode failed", "err", err)
			continue
		}

		for _, conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(conn)
			}
		}
	}
}

func (s *Server) frame() Frame {
	bodies := s.source.Bodies()
	frame := Frame{
		Timestamp:   time.Now(),
		Speed:       s.source.Speed(),
		TotalEnergy: s.source.TotalEnergy(),
		Bodies:      make([]FrameBody, len(bodies)),
	}
	for i, b := range bodies {
		frame.Bodies[i] = FrameBody{
			Name:     b.Name,
			Mass:     b.Mass,
			Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
		}
	}
	return frame
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	_, present := s.clients[conn]
	delete(s.clients, conn)
	n := len(s.clients)
	s.mu.Unlock()

	conn.Close()
	if present {
		s.logger.Info("client disconnected", "clients", n)
	}
}

// ClientCount reports the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
