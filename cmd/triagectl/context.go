package main

import (
	"context"
	"fmt"

	"github.com/upb/ticket-triage/app"
	"github.com/upb/ticket-triage/config"
	"github.com/upb/ticket-triage/internal/observability"
)

// commandContext lazily builds the dependencies shared by subcommands
type commandContext struct {
	logLevel *string

	// loadDeps is replaced in tests
	loadDeps func(ctx context.Context) (*app.Dependencies, error)
	deps     *app.Dependencies
}

func newCommandContext(logLevel *string) *commandContext {
	c := &commandContext{logLevel: logLevel}
	c.loadDeps = c.loadFromEnvironment
	return c
}

func (c *commandContext) dependencies(ctx context.Context) (*app.Dependencies, error) {
	if c.deps != nil {
		return c.deps, nil
	}
	deps, err := c.loadDeps(ctx)
	if err != nil {
		return nil, err
	}
	c.deps = deps
	return deps, nil
}

func (c *commandContext) loadFromEnvironment(ctx context.Context) (*app.Dependencies, error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, err
	}

	level := cfg.Observability.LogLevel
	if c.logLevel != nil && *c.logLevel != "" {
		level = *c.logLevel
	}
	logger, err := observability.NewLogger(level, "console")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return deps, nil
}

func (c *commandContext) close(ctx context.Context) {
	if c.deps != nil && c.deps.Logger != nil {
		_ = c.deps.Close(ctx)
		c.deps = nil
	}
}
