package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// managedEnv lists every variable New reads so tests start from a clean slate
var managedEnv = []string{
	"ENVIRONMENT", "SERVER_HOST", "PORT", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_REQUEST_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"CORS_ALLOWED_ORIGINS", "PROVIDER_ORDER",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_PRICING_MODEL", "OPENAI_TIMEOUT",
	"GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_MODEL", "GEMINI_PRICING_MODEL", "GEMINI_TIMEOUT",
	"OPENAI_HEADERS", "GEMINI_HEADERS",
	"LOG_LEVEL", "LOG_FORMAT",
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
		check   func(*testing.T, *Config)
	}{
		{
			name: "defaults with openai key",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.True(t, cfg.IsDevelopment())
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0:3000", cfg.Server.Address())
				assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, []string{ProviderOpenAI, ProviderGemini}, cfg.Providers.Order)
				assert.Equal(t, []string{ProviderOpenAI}, cfg.Providers.Enabled())
				assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.Model)
				assert.Equal(t, "gemini-2.5-flash", cfg.Providers.Gemini.Model)
				assert.Equal(t, 30*time.Second, cfg.Providers.OpenAI.Timeout)
				assert.Equal(t, "info", cfg.Observability.LogLevel)
				assert.Equal(t, "console", cfg.Observability.LogFormat)
				assert.Nil(t, cfg.Providers.OpenAI.Headers)
			},
		},
		{
			name: "production with both providers",
			envVars: map[string]string{
				"ENVIRONMENT":          "production",
				"PORT":                 "8080",
				"OPENAI_API_KEY":       "sk-test",
				"GEMINI_API_KEY":       "gem-test",
				"GEMINI_MODEL":         "gemini-3-flash-preview",
				"GEMINI_PRICING_MODEL": "gemini-3-flash",
				"GEMINI_TIMEOUT":       "45s",
				"PROVIDER_ORDER":       " Gemini , openai ",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.IsDevelopment())
				assert.Equal(t, "json", cfg.Observability.LogFormat)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, []string{ProviderGemini, ProviderOpenAI}, cfg.Providers.Enabled())
				assert.Equal(t, "gemini-3-flash", cfg.Providers.Gemini.PricingModel)
				assert.Equal(t, 45*time.Second, cfg.Providers.Gemini.Timeout)
			},
		},
		{
			name: "PORT takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"PORT":           "4000",
				"SERVER_PORT":    "5000",
				"GEMINI_API_KEY": "gem-test",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4000, cfg.Server.Port)
			},
		},
		{
			name: "explicit log format wins in development",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"LOG_FORMAT":     "json",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "json", cfg.Observability.LogFormat)
			},
		},
		{
			name: "backend headers",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"OPENAI_HEADERS": "OpenAI-Organization=org-123, OpenAI-Project = proj_9 ,broken,=nameless",
				"GEMINI_HEADERS": "X-Goog-User-Project=triage",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, map[string]string{
					"OpenAI-Organization": "org-123",
					"OpenAI-Project":      "proj_9",
				}, cfg.Providers.OpenAI.Headers)
				assert.Equal(t, map[string]string{"X-Goog-User-Project": "triage"}, cfg.Providers.Gemini.Headers)
			},
		},
		{
			name: "invalid duration falls back to default",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"OPENAI_TIMEOUT": "soon",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.Providers.OpenAI.Timeout)
			},
		},
		{
			name:    "no providers configured",
			envVars: map[string]string{},
			wantErr: "no LLM providers configured",
		},
		{
			name: "unknown provider in order",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"PROVIDER_ORDER": "openai,anthropic",
			},
			wantErr: `unknown provider "anthropic"`,
		},
		{
			name: "duplicate provider in order",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"PROVIDER_ORDER": "openai,openai",
			},
			wantErr: "listed more than once",
		},
		{
			name: "order excludes the only configured provider",
			envVars: map[string]string{
				"GEMINI_API_KEY": "gem-test",
				"PROVIDER_ORDER": "openai",
			},
			wantErr: "no LLM providers configured",
		},
		{
			name: "port out of range",
			envVars: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"PORT":           "70000",
			},
			wantErr: "invalid server port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range managedEnv {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := New(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestProvidersConfig_Get(t *testing.T) {
	p := ProvidersConfig{
		OpenAI: ProviderConfig{Model: "gpt-4o-mini"},
		Gemini: ProviderConfig{Model: "gemini-2.5-flash"},
	}

	pc, ok := p.Get(ProviderOpenAI)
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", pc.Model)

	pc, ok = p.Get(ProviderGemini)
	assert.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash", pc.Model)

	_, ok = p.Get("mistral")
	assert.False(t, ok)
}

func TestValidate_LogLevelRequired(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 3000},
		Providers: ProvidersConfig{Order: []string{ProviderOpenAI}, OpenAI: ProviderConfig{APIKey: "k"}},
	}
	assert.EqualError(t, cfg.Validate(), "log level is required")

	cfg.Observability.LogLevel = "debug"
	assert.NoError(t, cfg.Validate())
}
