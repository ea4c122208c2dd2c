package socket

import (
	"context"

	"amoro_server/services"

	"go.uber.org/zap"
)

// Connection states. Every connection walks Connecting -> Authenticating
// -> Ready -> Closed; a bad credential short-circuits straight to Closed
// without ever touching the registry.
type sessionState int

const (
	stateConnecting sessionState = iota
	stateAuthenticating
	stateReady
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateAuthenticating:
		return "authenticating"
	case stateReady:
		return "ready"
	case stateClosed:
		return "closed"
	}
	return "unknown"
}

// Inbound event names accepted once a session is ready.
const (
	EventStartInteraction = "startInteraction"
	EventStopInteraction  = "stopInteraction"
	EventMessageSeen      = "messageSeen"
)

// inboundEvent is the wire envelope for client events. UserID carries
// the peer for startInteraction and messageSeen.
type inboundEvent struct {
	Event  string `json:"event"`
	UserID string `json:"userId,omitempty"`
}

// TokenVerifier is the identity collaborator: an opaque fallible check
// turning a handshake credential into a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Session is one connection's presence state machine. It is driven by a
// single reader goroutine, so the state field needs no lock.
type Session struct {
	registry *Registry
	messages services.MessageStore
	verifier TokenVerifier
	handle   Handle
	logger   *zap.SugaredLogger

	state  sessionState
	userID string
}

func NewSession(registry *Registry, messages services.MessageStore, verifier TokenVerifier, handle Handle, logger *zap.SugaredLogger) *Session {
	return &Session{
		registry: registry,
		messages: messages,
		verifier: verifier,
		handle:   handle,
		logger:   logger,
		state:    stateConnecting,
	}
}

// Authenticate verifies the handshake credential and, on success,
// registers the session and catches up the user's inbox (every message
// still "sent" to them becomes "received"). On failure the session is
// closed with no registry mutation.
func (s *Session) Authenticate(ctx context.Context, token string) error {
	if s.state != stateConnecting {
		s.logger.Warnw("authenticate in unexpected state", "state", s.state.String())
		return ErrNotConnected
	}
	s.state = stateAuthenticating

	userID, err := s.verifier.Verify(token)
	if err != nil {
		s.state = stateClosed
		return err
	}

	s.userID = userID
	s.registry.Register(userID, s.handle)
	s.state = stateReady
	s.logger.Infow("✅ socket ready", "user", userID)

	// Offline catch-up. Failure is transient: it retries on the next
	// connect and never reaches the peer.
	if n, err := s.messages.MarkReceivedForReceiver(ctx, userID); err != nil {
		s.logger.Warnw("inbox catch-up incomplete", "user", userID, "updated", n, "error", err)
	} else if n > 0 {
		s.logger.Infow("inbox caught up", "user", userID, "updated", n)
	}
	return nil
}

// HandleEvent processes one inbound event. Events before Ready are
// dropped and logged; they must not mutate a not-yet-registered session.
func (s *Session) HandleEvent(ctx context.Context, ev inboundEvent) {
	if s.state != stateReady {
		s.logger.Infow("event before ready dropped", "event", ev.Event, "state", s.state.String())
		return
	}

	switch ev.Event {
	case EventStartInteraction:
		if ev.UserID == "" {
			s.logger.Infow("startInteraction without peer", "user", s.userID)
			return
		}
		s.registry.SetInteraction(s.userID, ev.UserID)

	case EventStopInteraction:
		s.registry.SetInteraction(s.userID, "")

	case EventMessageSeen:
		if ev.UserID == "" {
			s.logger.Infow("messageSeen without peer", "user", s.userID)
			return
		}
		// Only the receiving side can advance messages to seen.
		if n, err := s.messages.MarkSeen(ctx, ev.UserID, s.userID); err != nil {
			s.logger.Warnw("seen update incomplete", "user", s.userID, "peer", ev.UserID, "updated", n, "error", err)
		} else if n > 0 {
			s.logger.Infow("messages marked seen", "user", s.userID, "peer", ev.UserID, "updated", n)
		}

	default:
		s.logger.Infow("unknown event dropped", "event", ev.Event, "user", s.userID)
	}
}

// Close tears the session down. Unregistration is handle-guarded, and
// the whole call is a no-op if registration never completed.
func (s *Session) Close() {
	if s.state == stateReady {
		s.registry.Unregister(s.userID, s.handle)
	}
	s.state = stateClosed
}
