// Package container provides dependency injection for the engine using
// uber-fx.
//
// The container owns construction order for the Configuration Resolver,
// Plugin Locator, Manifest Loader, Directory Discoverer, Fingerprint
// Cache, Per-Directory Executor, Concurrency Coordinator, and Event
// Dispatcher, so that cmd/han and internal/cli never construct these
// by hand.
//
// Example usage:
//
//	var d *dispatch.Dispatcher
//	c, err := container.New(container.Populate(&d))
//	if err != nil {
//	    return err
//	}
//
//	return c.Run(ctx, func() error {
//	    return rootCmd.Execute()
//	})
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
)

// Container wraps uber-fx and provides lifecycle management for the
// engine.
type Container struct {
	app *fx.App
}

// New creates a dependency injection container with the given options.
//
// The container automatically provides the Logger, Shell Executor,
// Configuration Resolver and resolved Config, Plugin Locator, Manifest
// Loader, Directory Discoverer, Fingerprint Cache, Concurrency
// Coordinator, and Event Dispatcher. Options can override any default
// provider, primarily for tests.
func New(opts ...fx.Option) (*Container, error) {
	allOpts := append(
		[]fx.Option{
			fx.Provide(
				provideLogger,
				provideShellExecutor,
				provideConfigResolver,
				provideConfig,
				provideLocator,
				provideManifestLoader,
				provideDiscoverer,
				provideFingerprintCache,
				provideCoordinator,
				provideDispatcher,
			),

			fx.Invoke(registerLifecycleHooks),

			// Suppress fx's own debug logging; the engine's logger speaks
			// for the container instead.
			fx.NopLogger,
		},
		opts...,
	)

	app := fx.New(allOpts...)
	if app.Err() != nil {
		return nil, fmt.Errorf("failed to create container: %w", app.Err())
	}

	return &Container{app: app}, nil
}

// Start runs every registered OnStart hook, in dependency order.
func (c *Container) Start(ctx context.Context) error {
	if err := c.app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

// Stop runs every registered OnStop hook, in reverse dependency order.
func (c *Container) Stop(ctx context.Context) error {
	if err := c.app.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Run starts the container, executes fn, and stops the container
// afterward even if fn panics or returns an error. The shutdown
// timeout is 10 seconds.
func (c *Container) Run(ctx context.Context, fn func() error) error {
	if err := c.Start(ctx); err != nil {
		return err
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = c.Stop(stopCtx)
	}()

	return fn()
}

// Populate returns an fx.Option that extracts dependencies into
// targets as the container is built. Pass it to New alongside any
// other options:
//
//	var d *dispatch.Dispatcher
//	c, err := container.New(container.Populate(&d))
func Populate(targets ...interface{}) fx.Option {
	return fx.Populate(targets...)
}
