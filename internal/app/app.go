package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/verapi/internal/catalog"
	"github.com/vk/verapi/internal/config"
	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	ctx        context.Context
	logger     *slog.Logger
	cfg        *Config
	model      *config.Model
	catalog    *catalog.Catalog
	registry   *registry.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the
// configuration, installs modules into a fresh catalog and initializes the
// registry. With no modules given, the compiled-in core modules are used.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...catalog.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "files", model.Files)

	cat := catalog.New(ctx, model.Namespace)
	if len(modules) == 0 {
		modules = coreModules(logger)
	}
	cat.Install(modules...)
	logger.Debug("Go modules installed.", "count", len(modules))

	for _, mod := range model.Modules {
		if err := cat.ProvideStatic(mod.Name, mod.Version, mod.Attributes); err != nil {
			return nil, fmt.Errorf("static module from %s: %w", mod.File, err)
		}
	}
	logger.Debug("Static modules installed.", "count", len(model.Modules))

	reg, err := registry.Initialize(ctx, registry.Declaration{
		Product:    model.Product,
		SDKVersion: model.SDKVersion,
		Namespace:  model.Namespace,
		Versions:   model.Versions,
		Names:      model.APIs,
	}, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		cfg:      cfg,
		model:    model,
		catalog:  cat,
		registry: reg,
	}, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Catalog returns the module source the registry was built from.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Model returns the loaded configuration.
func (a *App) Model() *config.Model {
	return a.model
}
