package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// DefaultMaxBodyBytes caps a delivery body when no limit is configured.
const DefaultMaxBodyBytes int64 = 10 << 20

// Response is the body of a successful delivery.
type Response struct {
	Success   bool   `json:"success"`
	EventType string `json:"eventType"`
	Handled   bool   `json:"handled"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status             string   `json:"status"`
	RegisteredHandlers []string `json:"registeredHandlers"`
}

// Handler exposes an Ingress over HTTP.
type Handler struct {
	ingress  *Ingress
	registry *Registry
	maxBody  int64
	logger   *slog.Logger
}

// NewHandler creates a Handler. A non-positive maxBody uses DefaultMaxBodyBytes.
func NewHandler(ingress *Ingress, registry *Registry, maxBody int64, logger *slog.Logger) *Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ingress:  ingress,
		registry: registry,
		maxBody:  maxBody,
		logger:   logger.With(slog.String("component", "webhook_handler")),
	}
}

// Routes returns the webhook router, meant to be mounted at /webhooks.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Post("/{source}", h.Receive)
	return r
}

// Health reports the registered event types.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:             "ok",
		RegisteredHandlers: h.registry.RegisteredEventTypes(),
	})
}

// Receive handles POST /{source}.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	source := strings.ToLower(chi.URLParam(r, "source"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Payload too large", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Could not read request body", err)
		return
	}

	result, err := h.ingress.Handle(r.Context(), Request{
		Source:     source,
		Body:       body,
		Header:     r.Header,
		RemoteAddr: clientIP(r.RemoteAddr),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		status, message := statusFor(err)
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Response{
		Success:   true,
		EventType: result.EventType,
		Handled:   result.Handled,
	})
}

func statusFor(err error) (int, string) {
	var handlerErr *HandlerError
	switch {
	case errors.Is(err, ErrMalformedPayload):
		return http.StatusBadRequest, "Invalid JSON payload"
	case errors.Is(err, ErrMissingSignature):
		return http.StatusUnauthorized, "Missing signature"
	case errors.Is(err, ErrSecretNotConfigured), errors.Is(err, ErrInvalidSignature):
		return http.StatusUnauthorized, "Invalid signature"
	case errors.As(err, &handlerErr):
		return http.StatusInternalServerError, "Webhook processing failed"
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}

func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
