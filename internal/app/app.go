package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/smarr/graal-jvmci-9/internal/bridge"
	"github.com/smarr/graal-jvmci-9/internal/catalog"
	"github.com/smarr/graal-jvmci-9/internal/ctxlog"
	"github.com/smarr/graal-jvmci-9/internal/discovery"
	"github.com/smarr/graal-jvmci-9/internal/hostenv"
	"github.com/smarr/graal-jvmci-9/internal/mode"
	"github.com/smarr/graal-jvmci-9/internal/scope"
	"github.com/smarr/graal-jvmci-9/internal/snapshot"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	flags   mode.Flags
	store   *snapshot.Store
	catalog *catalog.Catalog
	bridge  *bridge.Bridge
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, catalog, and
// provider bridge. When no modules are given, the compiled-in core modules
// are registered.
func NewApp(outW io.Writer, appConfig *Config, source hostenv.Source, modules ...catalog.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	flags, err := mode.Resolve(appConfig.Mode)
	if err != nil {
		// An unresolvable mode is a fatal startup error.
		panic(fmt.Errorf("failed to resolve execution mode: %w", err))
	}
	logger.Debug("Execution mode resolved.", "mode", flags.String())

	cat := catalog.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(cat)
	}
	logger.Debug("All provider modules registered.", "count", len(modules))

	store := snapshot.New(flags, source)
	br := bridge.New(flags, store, cat, discovery.NewCatalogDiscoverer(cat))

	return &App{
		outW:    outW,
		logger:  logger,
		flags:   flags,
		store:   store,
		catalog: cat,
		bridge:  br,
	}
}

// Run executes the requested operations based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.ManifestsPath != "" {
		if err := a.catalog.LoadManifests(ctx, appConfig.ManifestsPath); err != nil {
			return fmt.Errorf("failed to load provider manifests: %w", err)
		}
		if err := a.catalog.Validate(ctx); err != nil {
			return err
		}
	}

	if a.flags.InImage && appConfig.SnapshotPath != "" {
		data, err := os.ReadFile(appConfig.SnapshotPath)
		if err != nil {
			return fmt.Errorf("failed to read snapshot file: %w", err)
		}
		if err := a.store.Supply(data); err != nil {
			return fmt.Errorf("failed to install snapshot from %s: %w", appConfig.SnapshotPath, err)
		}
		a.logger.Info("Environment snapshot installed.", "path", appConfig.SnapshotPath, "bytes", len(data))
	}

	if appConfig.EncodePath != "" {
		data, err := a.store.Marshal()
		if err != nil {
			return fmt.Errorf("failed to serialize environment snapshot: %w", err)
		}
		if err := os.WriteFile(appConfig.EncodePath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot file: %w", err)
		}
		a.logger.Info("Environment snapshot written.", "path", appConfig.EncodePath, "bytes", len(data))
	}

	if appConfig.Contract != "" {
		providers, err := a.bridge.LoadAll(ctx, scope.Contract(appConfig.Contract))
		if err != nil {
			return err
		}
		if len(providers) == 0 {
			fmt.Fprintf(a.outW, "no providers found for contract %s\n", appConfig.Contract)
		}
		for _, p := range providers {
			fmt.Fprintf(a.outW, "%s\t%T\n", appConfig.Contract, p)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Bridge returns the application's provider bridge. This is primarily for testing.
func (a *App) Bridge() *bridge.Bridge {
	return a.bridge
}

// Snapshot returns the application's environment snapshot store. This is
// primarily for testing.
func (a *App) Snapshot() *snapshot.Store {
	return a.store
}

// Catalog returns the application's catalog. This is primarily for testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}
