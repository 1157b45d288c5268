package webhook

import (
	"net/http"
	"strings"
	"time"
)

// UnknownEvent is the event type used when a delivery does not name one.
const UnknownEvent = "unknown"

// Source names with a dedicated scheme. Any other source uses the generic scheme.
const (
	SourceGitHub  = "github"
	SourceStripe  = "stripe"
	SourceGeneric = "generic"
)

// Scheme captures how one kind of sender signs and labels its deliveries.
type Scheme interface {
	Name() string
	// Signature extracts the raw signature from the request headers.
	Signature(header http.Header) string
	Verify(body []byte, signature, secret string, now time.Time) bool
	// EventType classifies the delivery, returning UnknownEvent when it cannot.
	EventType(header http.Header, payload map[string]any) string
}

// SchemeFor returns the scheme for source.
func SchemeFor(source string) Scheme {
	switch strings.ToLower(source) {
	case SourceGitHub:
		return githubScheme{}
	case SourceStripe:
		return stripeScheme{}
	default:
		return genericScheme{}
	}
}

type githubScheme struct{}

func (githubScheme) Name() string { return SourceGitHub }

func (githubScheme) Signature(header http.Header) string {
	if sig := header.Get("X-Hub-Signature-256"); sig != "" {
		return sig
	}
	return header.Get("X-Hub-Signature")
}

// Verify accepts the sha1 form sent in the legacy header as well.
func (githubScheme) Verify(body []byte, signature, secret string, _ time.Time) bool {
	if strings.HasPrefix(signature, string(SHA1)+"=") {
		return VerifyHMAC(body, signature, secret, SHA1)
	}
	return VerifyHMAC(body, signature, secret, SHA256)
}

func (githubScheme) EventType(header http.Header, payload map[string]any) string {
	if event := header.Get("X-GitHub-Event"); event != "" {
		return event
	}
	return firstString(payload, "action")
}

type stripeScheme struct{}

func (stripeScheme) Name() string { return SourceStripe }

func (stripeScheme) Signature(header http.Header) string {
	return header.Get("Stripe-Signature")
}

func (stripeScheme) Verify(body []byte, signature, secret string, now time.Time) bool {
	return VerifyStripe(body, signature, secret, now)
}

func (stripeScheme) EventType(_ http.Header, payload map[string]any) string {
	return firstString(payload, "type")
}

type genericScheme struct{}

func (genericScheme) Name() string { return SourceGeneric }

func (genericScheme) Signature(header http.Header) string {
	if sig := header.Get("X-Webhook-Signature"); sig != "" {
		return sig
	}
	return header.Get("X-Signature")
}

func (genericScheme) Verify(body []byte, signature, secret string, _ time.Time) bool {
	return VerifyHMAC(body, signature, secret, SHA256)
}

func (genericScheme) EventType(header http.Header, payload map[string]any) string {
	for _, name := range []string{"X-Event-Type", "X-Webhook-Event"} {
		if event := header.Get(name); event != "" {
			return event
		}
	}
	return firstString(payload, "event", "type")
}

// firstString returns the first non-empty string value among keys.
func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return UnknownEvent
}
