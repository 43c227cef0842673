package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/engine"
	"github.com/vk/scriptassoc/internal/envexpand"
	"github.com/vk/scriptassoc/internal/eventlog"
	"github.com/vk/scriptassoc/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	store     *store.Store
	registry  *engine.Registry
	overrides envexpand.Overrides
	sink      eventlog.Sink
}

// NewApp opens the project store, registers engines and parses the
// environment overrides. With no modules given the core modules are used.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, modules ...engine.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	overrides, err := loadOverrides(cfg)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	reg := engine.NewRegistry()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Engine modules registered.", "count", len(modules))

	manifests, err := engine.LoadManifests(ctx, cfg.EnginesPath)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to load engine manifests: %w", err)}
	}
	for _, m := range manifests {
		if err := reg.Register(m.Registration(outW)); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("engine manifest %s: %w", m.Source, err)}
		}
	}
	logger.Debug("Engines ready.", "engines", reg.Len())

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	var sink eventlog.Sink = &eventlog.WriterSink{W: outW}
	if cfg.LogFormat == "json" {
		sink = &eventlog.SlogSink{Logger: logger}
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		store:     st,
		registry:  reg,
		overrides: overrides,
		sink:      sink,
	}, nil
}

func loadOverrides(cfg *Config) (envexpand.Overrides, error) {
	overrides := envexpand.Overrides{}
	if cfg.EnvFile != "" {
		fromFile, err := envexpand.ReadOverridesFile(cfg.EnvFile)
		if err != nil {
			return nil, err
		}
		overrides = overrides.Merge(fromFile)
	}
	for _, kv := range cfg.Env {
		parsed, err := envexpand.ParseOverrides(kv)
		if err != nil {
			return nil, err
		}
		overrides = overrides.Merge(parsed)
	}
	return overrides, nil
}

// Close releases the project store.
func (a *App) Close() error {
	return a.store.Close()
}

// Registry returns the application's engine registry. This is primarily for testing.
func (a *App) Registry() *engine.Registry {
	return a.registry
}

// Store returns the project store.
func (a *App) Store() *store.Store {
	return a.store
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
