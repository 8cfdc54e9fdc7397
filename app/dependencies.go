package app

import (
	"context"
	"fmt"

	"github.com/upb/ticket-triage/config"
	"github.com/upb/ticket-triage/services/providers"
	"github.com/upb/ticket-triage/services/providers/gemini"
	"github.com/upb/ticket-triage/services/providers/openai"
	"github.com/upb/ticket-triage/services/triage"
	"go.uber.org/zap"
)

// ProviderDescriptor is one configured backend in fallback order.
// Built once at startup and never mutated.
type ProviderDescriptor struct {
	Name         string
	Model        string
	PricingModel string
	Adapter      providers.Triager
}

// BackendBuilder creates a backend from its configuration
type BackendBuilder func(cfg providers.ProviderConfig) providers.Backend

// backendBuilders maps provider names to their constructors
var backendBuilders = map[string]BackendBuilder{
	config.ProviderOpenAI: func(cfg providers.ProviderConfig) providers.Backend {
		return openai.NewOpenAIAdapter(cfg)
	},
	config.ProviderGemini: func(cfg providers.ProviderConfig) providers.Backend {
		return gemini.NewGeminiAdapter(cfg)
	},
}

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Providers in fallback order
	Providers []ProviderDescriptor

	// Chain composes Providers behind the shared triage contract
	Chain *providers.FallbackChain

	// TriageService is the entry point used by the transport layer
	TriageService *triage.TriageService
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	descriptors, err := BuildProviders(cfg.Providers, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	if err := deps.initTriage(descriptors); err != nil {
		return nil, fmt.Errorf("failed to initialize triage service: %w", err)
	}

	logger.Info("all dependencies initialized successfully",
		zap.Strings("providers", deps.ProviderNames()))
	return deps, nil
}

// NewDependenciesWithProviders wires the triage service over already-built providers
func NewDependenciesWithProviders(cfg *config.Config, logger *zap.Logger, descriptors []ProviderDescriptor) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	if err := deps.initTriage(descriptors); err != nil {
		return nil, fmt.Errorf("failed to initialize triage service: %w", err)
	}
	return deps, nil
}

// initTriage builds the fallback chain and the triage service
func (d *Dependencies) initTriage(descriptors []ProviderDescriptor) error {
	adapters := make([]providers.Triager, len(descriptors))
	for i, desc := range descriptors {
		adapters[i] = desc.Adapter
	}

	chain, err := providers.NewFallbackChain(adapters, d.Logger)
	if err != nil {
		return err
	}

	d.Providers = descriptors
	d.Chain = chain
	d.TriageService = triage.NewTriageService(chain, d.Logger)
	return nil
}

// BuildProviders creates an adapter for every configured provider, in fallback order.
// Providers without credentials are skipped with a warning.
func BuildProviders(cfg config.ProvidersConfig, logger *zap.Logger) ([]ProviderDescriptor, error) {
	var descriptors []ProviderDescriptor

	for _, name := range cfg.Order {
		pc, ok := cfg.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		if !pc.Enabled() {
			logger.Warn("provider API key not found in environment, skipping",
				zap.String("provider", name))
			continue
		}

		build, ok := backendBuilders[name]
		if !ok {
			return nil, fmt.Errorf("no backend registered for provider %q", name)
		}

		pricingModel := pc.PricingModel
		if pricingModel == "" {
			pricingModel = pc.Model
		}

		backend := build(providers.ProviderConfig{
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			Model:        pc.Model,
			PricingModel: pricingModel,
			Timeout:      pc.Timeout,
			Headers:      pc.Headers,
		})

		descriptors = append(descriptors, ProviderDescriptor{
			Name:         name,
			Model:        pc.Model,
			PricingModel: pricingModel,
			Adapter:      providers.NewAdapter(backend, pricingModel, logger),
		})
		logger.Info("registered provider",
			zap.String("provider", name),
			zap.String("model", pc.Model),
			zap.String("pricing_model", pricingModel))
	}

	if len(descriptors) == 0 {
		return nil, providers.ErrNoProviders
	}
	return descriptors, nil
}

// ProviderNames returns the configured provider names in fallback order
func (d *Dependencies) ProviderNames() []string {
	names := make([]string, len(d.Providers))
	for i, p := range d.Providers {
		names[i] = p.Name
	}
	return names
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	if d.Logger == nil {
		return nil
	}

	d.Logger.Info("shutting down dependencies")
	_ = d.Logger.Sync()

	return nil
}
