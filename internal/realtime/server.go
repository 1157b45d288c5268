package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/redact"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
)

// AccessTokenCookie is the cookie consulted when no token query parameter is given.
const AccessTokenCookie = "access_token"

// TokenValidator verifies the credential presented at handshake.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

type connectedData struct {
	ChannelID string    `json:"channelId"`
	UserID    uuid.UUID `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Server authenticates WebSocket handshakes and runs each accepted channel.
type Server struct {
	registry   *Registry
	dispatcher *Dispatcher
	tokens     TokenValidator
	upgrader   websocket.Upgrader
	opts       ChannelOptions
	now        func() time.Time
	logger     *slog.Logger
}

// NewServer creates a Server. An empty AllowedOrigins list accepts only
// same-origin browsers; "*" accepts any origin.
func NewServer(
	registry *Registry,
	dispatcher *Dispatcher,
	tokens TokenValidator,
	cfg config.RealtimeConfig,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		registry:   registry,
		dispatcher: dispatcher,
		tokens:     tokens,
		opts: ChannelOptions{
			SendBuffer:      cfg.SendBuffer,
			WriteWait:       cfg.WriteWait(),
			PongWait:        cfg.PongWait(),
			MaxMessageBytes: cfg.MaxMessageBytes,
		}.withDefaults(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "realtime_server")),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// extractToken looks in the token query parameter, then the access_token
// cookie, then an Authorization bearer header.
func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.registry.Closed() {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Server shutting down")
		return
	}

	token := extractToken(r)
	if token == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	claims, err := s.tokens.ValidateToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
		default:
			s.logger.Debug("handshake rejected", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		}
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		s.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	ch := newWSChannel(conn, claims.UserID, s.opts, s.logger)
	ch.advance(StateAuthenticated)
	s.run(ch)
}

// run registers ch, serves it until the connection ends and unregisters it.
func (s *Server) run(ch *wsChannel) {
	ctx := logger.WithLogger(context.Background(), ch.logger)

	if !s.registry.Register(ch.UserID(), ch) {
		ch.logger.Info("registry closed, dropping channel")
		_ = ch.conn.Close()
		return
	}
	s.registry.Join(UserRoom(ch.UserID()), ch)
	defer func() {
		_ = ch.Close()
		s.registry.Unregister(ch)
		ch.logger.Info("channel disconnected")
	}()

	go ch.writePump()

	if err := ch.Send(EventConnected, connectedData{
		ChannelID: ch.ID(),
		UserID:    ch.UserID(),
		Timestamp: s.now(),
	}); err != nil {
		ch.logger.Warn("failed to send connected ack", slog.String("error", err.Error()))
		return
	}
	ch.advance(StateActive)
	ch.logger.Info("channel connected")

	ch.readPump(func(frame []byte) {
		s.dispatcher.Dispatch(ctx, ch, frame)
	})
}
