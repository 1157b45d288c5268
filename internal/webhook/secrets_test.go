package webhook

import (
	"testing"

	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSecretResolverPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.WebhookConfig
		env        map[string]string
		wantSecret string
		wantOK     bool
	}{
		{
			name: "configured per source wins",
			cfg:  config.WebhookConfig{Secrets: map[string]string{"GitHub": "cfg"}, DefaultSecret: "default"},
			env:  map[string]string{"WEBHOOK_SECRET_GITHUB": "env-source", "WEBHOOK_SECRET": "env-global"},
			wantSecret: "cfg", wantOK: true,
		},
		{
			name:       "per source env var",
			cfg:        config.WebhookConfig{DefaultSecret: "default"},
			env:        map[string]string{"WEBHOOK_SECRET_GITHUB": "env-source", "WEBHOOK_SECRET": "env-global"},
			wantSecret: "env-source", wantOK: true,
		},
		{
			name:       "global env var",
			cfg:        config.WebhookConfig{DefaultSecret: "default"},
			env:        map[string]string{"WEBHOOK_SECRET": "env-global", "WEBHOOK_SECRET_STRIPE": "other"},
			wantSecret: "env-global", wantOK: true,
		},
		{
			name:       "configured default",
			cfg:        config.WebhookConfig{DefaultSecret: "default"},
			wantSecret: "default", wantOK: true,
		},
		{
			name:   "nothing configured",
			env:    map[string]string{"WEBHOOK_SECRET_GITHUB": ""},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewSecretResolver(tc.cfg)
			r.lookupEnv = func(key string) (string, bool) {
				v, ok := tc.env[key]
				return v, ok
			}

			secret, ok := r.Resolve("github")

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantSecret, secret)
		})
	}
}

func TestEnvVarFor(t *testing.T) {
	assert.Equal(t, "WEBHOOK_SECRET_GITHUB", EnvVarFor("github"))
	assert.Equal(t, "WEBHOOK_SECRET_MY_CRM_2", EnvVarFor("my-crm.2"))
}

func TestSecretResolverReadsProcessEnv(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET_ACME", "from-env")

	secret, ok := NewSecretResolver(config.WebhookConfig{}).Resolve("acme")

	assert.True(t, ok)
	assert.Equal(t, "from-env", secret)
}
