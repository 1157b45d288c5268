package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Webhook  WebhookConfig  `mapstructure:"webhook" validate:"required"`
	Realtime RealtimeConfig `mapstructure:"realtime" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1"`
}

// RedisConfig configures the optional membership cache. An empty URL
// disables caching and membership checks go straight to the database.
type RedisConfig struct {
	URL                  string `mapstructure:"url" validate:"omitempty,url"`
	MembershipTTLSeconds int    `mapstructure:"membership_ttl_seconds" validate:"gte=1"`
}

// MembershipTTL returns how long a cached membership answer stays valid.
func (c RedisConfig) MembershipTTL() time.Duration {
	return time.Duration(c.MembershipTTLSeconds) * time.Second
}

// WebhookConfig contains webhook ingress settings.
type WebhookConfig struct {
	// EnforceSignature rejects unsigned or badly signed deliveries when true.
	EnforceSignature bool `mapstructure:"enforce_signature"`
	// DefaultSecret is the last fallback after the per-source secret and
	// the WEBHOOK_SECRET_<SOURCE> / WEBHOOK_SECRET environment variables.
	DefaultSecret string `mapstructure:"default_secret"`
	// Secrets maps a source name (github, stripe, ...) to its secret.
	Secrets      map[string]string `mapstructure:"secrets"`
	MaxBodyBytes int64             `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// RealtimeConfig contains WebSocket transport settings.
type RealtimeConfig struct {
	SendBuffer       int      `mapstructure:"send_buffer" validate:"gte=1"`
	WriteWaitSeconds int      `mapstructure:"write_wait_seconds" validate:"gte=1"`
	PongWaitSeconds  int      `mapstructure:"pong_wait_seconds" validate:"gte=2"`
	MaxMessageBytes  int64    `mapstructure:"max_message_bytes" validate:"gt=0"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
}

// WriteWait returns the deadline for a single outbound frame.
func (c RealtimeConfig) WriteWait() time.Duration {
	return time.Duration(c.WriteWaitSeconds) * time.Second
}

// PongWait returns how long a channel may stay silent before it is closed.
func (c RealtimeConfig) PongWait() time.Duration {
	return time.Duration(c.PongWaitSeconds) * time.Second
}
