package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"amoro_server/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Options carry the transport timeouts from config.
type Options struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

// Server upgrades HTTP requests to websocket connections and runs one
// Session per connection.
type Server struct {
	registry *Registry
	messages services.MessageStore
	verifier TokenVerifier
	upgrader websocket.Upgrader
	opts     Options
	logger   *zap.SugaredLogger
}

func NewServer(registry *Registry, messages services.MessageStore, verifier TokenVerifier, opts Options, logger *zap.SugaredLogger) *Server {
	return &Server{
		registry: registry,
		messages: messages,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		opts:   opts,
		logger: logger,
	}
}

// Registry exposes the session registry for wiring into the delivery
// router.
func (s *Server) Registry() *Registry {
	return s.registry
}

// HandleWS is the websocket endpoint. The credential travels in the
// handshake (token query parameter, Authorization header as fallback)
// and is verified before any event is accepted.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	cl := newClient(conn, s.opts.WriteWait, s.opts.PingPeriod)
	go cl.writePump()

	sess := NewSession(s.registry, s.messages, s.verifier, cl, s.logger)
	defer func() {
		sess.Close()
		_ = cl.Close()
	}()

	if token == "" {
		s.logger.Info("❌ socket rejected: no token provided")
		return
	}
	if err := sess.Authenticate(r.Context(), token); err != nil {
		s.logger.Infow("❌ socket rejected: authentication failed", "error", err)
		return
	}

	s.readLoop(r.Context(), conn, sess)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sess *Session) {
	conn.SetReadLimit(s.opts.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Infow("malformed event dropped", "error", err)
			continue
		}
		sess.HandleEvent(ctx, ev)
	}
}
