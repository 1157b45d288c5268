package webhook

import (
	"os"
	"strings"

	"github.com/phrazzld/taskhub-api/internal/config"
)

// SecretSource resolves the signing secret for a source.
type SecretSource interface {
	Resolve(source string) (string, bool)
}

// SecretResolver looks up a source's secret in this order: the configured
// per-source secret, WEBHOOK_SECRET_<SOURCE>, WEBHOOK_SECRET, the configured
// default.
type SecretResolver struct {
	secrets       map[string]string
	defaultSecret string
	lookupEnv     func(string) (string, bool)
}

var _ SecretSource = (*SecretResolver)(nil)

// NewSecretResolver creates a SecretResolver reading the process environment.
func NewSecretResolver(cfg config.WebhookConfig) *SecretResolver {
	secrets := make(map[string]string, len(cfg.Secrets))
	for source, secret := range cfg.Secrets {
		secrets[strings.ToLower(source)] = secret
	}
	return &SecretResolver{
		secrets:       secrets,
		defaultSecret: cfg.DefaultSecret,
		lookupEnv:     os.LookupEnv,
	}
}

// Resolve returns the secret for source and whether one was found.
func (r *SecretResolver) Resolve(source string) (string, bool) {
	if secret := r.secrets[strings.ToLower(source)]; secret != "" {
		return secret, true
	}
	if secret, ok := r.lookupEnv(EnvVarFor(source)); ok && secret != "" {
		return secret, true
	}
	if secret, ok := r.lookupEnv("WEBHOOK_SECRET"); ok && secret != "" {
		return secret, true
	}
	if r.defaultSecret != "" {
		return r.defaultSecret, true
	}
	return "", false
}

// EnvVarFor returns the per-source environment variable name,
// e.g. WEBHOOK_SECRET_GITHUB.
func EnvVarFor(source string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, source)
	return "WEBHOOK_SECRET_" + name
}
