package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted in PROVIDER_ORDER
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Providers     ProvidersConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// ProvidersConfig holds LLM provider configurations
type ProvidersConfig struct {
	// Order is the fallback order; unconfigured providers are skipped
	Order  []string
	OpenAI ProviderConfig
	Gemini ProviderConfig
}

// ProviderConfig holds the settings of one backend
type ProviderConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	PricingModel string
	Timeout      time.Duration
	// Headers are sent with every backend request
	Headers map[string]string
}

// Enabled reports whether the provider has credentials
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*", "https://*"}),
		},
		Providers: ProvidersConfig{
			Order: getEnvAsList("PROVIDER_ORDER", []string{ProviderOpenAI, ProviderGemini}),
			OpenAI: ProviderConfig{
				APIKey:       getEnv("OPENAI_API_KEY", ""),
				BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
				PricingModel: getEnv("OPENAI_PRICING_MODEL", ""),
				Timeout:      getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
				Headers:      getEnvAsHeaders("OPENAI_HEADERS"),
			},
			Gemini: ProviderConfig{
				APIKey:       getEnv("GEMINI_API_KEY", ""),
				BaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
				Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
				PricingModel: getEnv("GEMINI_PRICING_MODEL", ""),
				Timeout:      getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
				Headers:      getEnvAsHeaders("GEMINI_HEADERS"),
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", ""),
		},
	}

	// Console logs by default while developing, JSON everywhere else
	if cfg.Observability.LogFormat == "" {
		cfg.Observability.LogFormat = "json"
		if cfg.IsDevelopment() {
			cfg.Observability.LogFormat = "console"
		}
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	// Provider validation
	seen := make(map[string]bool, len(c.Providers.Order))
	for _, name := range c.Providers.Order {
		if _, ok := c.Providers.Get(name); !ok {
			return fmt.Errorf("unknown provider %q in provider order", name)
		}
		if seen[name] {
			return fmt.Errorf("provider %q listed more than once in provider order", name)
		}
		seen[name] = true
	}
	if len(c.Providers.Enabled()) == 0 {
		return fmt.Errorf("no LLM providers configured: set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// Get returns the configuration of a named provider
func (p *ProvidersConfig) Get(name string) (ProviderConfig, bool) {
	switch name {
	case ProviderOpenAI:
		return p.OpenAI, true
	case ProviderGemini:
		return p.Gemini, true
	default:
		return ProviderConfig{}, false
	}
}

// Enabled returns the configured provider names in fallback order
func (p *ProvidersConfig) Enabled() []string {
	names := make([]string, 0, len(p.Order))
	for _, name := range p.Order {
		if pc, ok := p.Get(name); ok && pc.Enabled() {
			names = append(names, name)
		}
	}
	return names
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 3000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 3000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// getEnvAsHeaders parses "Name=value,Other=value" pairs; malformed pairs are skipped
func getEnvAsHeaders(key string) map[string]string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(valueStr, ",") {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
