package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/redact"
)

var (
	// ErrMalformedPayload means the body is not a JSON object.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrMissingSignature means enforcement is on and the delivery carries no signature.
	ErrMissingSignature = errors.New("missing webhook signature")

	// ErrSecretNotConfigured means enforcement is on and no secret exists for the source.
	ErrSecretNotConfigured = errors.New("webhook secret not configured")

	// ErrInvalidSignature means the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// HandlerError wraps a failure raised by a registered handler.
type HandlerError struct {
	EventType string
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("webhook handler for %q failed: %v", e.EventType, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Request is one inbound delivery.
type Request struct {
	Source     string
	Body       []byte
	Header     http.Header
	RemoteAddr string
	UserAgent  string
}

// Metadata describes a delivery to its handler.
type Metadata struct {
	Source    string
	Headers   http.Header
	Signature string
	IP        string
	UserAgent string
	// Timestamp is the receipt time in RFC 3339.
	Timestamp string
}

// Result reports how a delivery was processed.
type Result struct {
	EventType string
	Handled   bool
}

// Ingress verifies deliveries and routes them to registered handlers.
type Ingress struct {
	registry *Registry
	secrets  SecretSource
	enforce  bool
	now      func() time.Time
	logger   *slog.Logger
}

// NewIngress creates an Ingress. With enforce false, signatures are not checked.
func NewIngress(registry *Registry, secrets SecretSource, enforce bool, logger *slog.Logger) *Ingress {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingress{
		registry: registry,
		secrets:  secrets,
		enforce:  enforce,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "webhook_ingress")),
	}
}

// Handle processes one delivery. An event type without a handler is not an
// error; it yields a Result with Handled false.
func (i *Ingress) Handle(ctx context.Context, req Request) (*Result, error) {
	receivedAt := i.now().UTC()
	log := logger.FromContextOrDefault(ctx, i.logger).With(slog.String("source", req.Source))

	var payload map[string]any
	if err := json.Unmarshal(req.Body, &payload); err != nil || payload == nil {
		log.Debug("rejecting malformed webhook payload")
		return nil, ErrMalformedPayload
	}

	header := req.Header
	if header == nil {
		header = http.Header{}
	}
	scheme := SchemeFor(req.Source)
	signature := scheme.Signature(header)

	if i.enforce {
		secret, ok := i.secrets.Resolve(req.Source)
		if !ok {
			log.Error("webhook secret not configured; rejecting delivery",
				slog.String("env_var", EnvVarFor(req.Source)))
			return nil, ErrSecretNotConfigured
		}
		if signature == "" {
			log.Warn("webhook delivery without signature")
			return nil, ErrMissingSignature
		}
		if !scheme.Verify(req.Body, signature, secret, receivedAt) {
			log.Warn("webhook signature verification failed",
				slog.String("scheme", scheme.Name()),
				slog.String("remote_addr", req.RemoteAddr))
			return nil, ErrInvalidSignature
		}
	}

	eventType := scheme.EventType(header, payload)
	log = log.With(slog.String("event_type", eventType))

	handler, ok := i.registry.Handler(eventType)
	if !ok {
		log.Info("no handler registered for webhook event")
		return &Result{EventType: eventType, Handled: false}, nil
	}

	meta := Metadata{
		Source:    req.Source,
		Headers:   header.Clone(),
		Signature: signature,
		IP:        req.RemoteAddr,
		UserAgent: req.UserAgent,
		Timestamp: receivedAt.Format(time.RFC3339),
	}
	if err := invoke(ctx, handler, payload, meta); err != nil {
		log.Error("webhook handler failed", slog.String("error", redact.Error(err)))
		return nil, &HandlerError{EventType: eventType, Err: err}
	}

	log.Info("webhook processed")
	return &Result{EventType: eventType, Handled: true}, nil
}

func invoke(ctx context.Context, handler HandlerFunc, payload map[string]any, meta Metadata) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webhook handler panicked: %v", r)
		}
	}()
	return handler(ctx, payload, meta)
}
