package container

import (
	"os"

	"go.uber.org/fx"

	"github.com/thebushidocollective/han/internal/cache"
	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/internal/discovery"
	"github.com/thebushidocollective/han/internal/dispatch"
	"github.com/thebushidocollective/han/internal/manifest"
	"github.com/thebushidocollective/han/internal/marketplace"
	"github.com/thebushidocollective/han/internal/run"
	"github.com/thebushidocollective/han/internal/shell"
	"github.com/thebushidocollective/han/pkg/logging"
)

// Provider functions create and configure the engine's dependencies.
// They are called by uber-fx in dependency order.

// provideLogger creates the application logger, configured from
// HAN_LOG_LEVEL/HAN_LOG_FORMAT/HAN_DEBUG (see pkg/logging.FromEnv).
func provideLogger() *logging.Logger {
	return logging.New(logging.FromEnv())
}

// provideShellExecutor creates the per-directory command executor.
// Verbose echoing of each invoked command is controlled by HAN_VERBOSE.
func provideShellExecutor(logger *logging.Logger) *shell.Executor {
	verbose := isTruthy(os.Getenv("HAN_VERBOSE"))
	logger.Debug("creating shell executor", logging.Bool("verbose", verbose))
	return shell.NewExecutor(verbose)
}

// provideConfigResolver creates the layered configuration resolver.
func provideConfigResolver(logger *logging.Logger) *config.Resolver {
	return config.NewResolver(logger)
}

// provideConfig resolves the merged configuration once per process.
func provideConfig(resolver *config.Resolver) *config.Config {
	return resolver.Resolve()
}

// provideLocator creates the plugin locator over the resolved
// configuration's marketplace map.
func provideLocator(cfg *config.Config, logger *logging.Logger) *marketplace.Locator {
	return marketplace.NewLocator(cfg, logger)
}

// provideManifestLoader creates the plugin manifest loader.
func provideManifestLoader(logger *logging.Logger) *manifest.Loader {
	return manifest.NewLoader(logger)
}

// provideDiscoverer creates the directory discoverer, reusing the
// shell executor for its testDir probes.
func provideDiscoverer(executor *shell.Executor, logger *logging.Logger) *discovery.Discoverer {
	return discovery.NewDiscoverer(executor, logger)
}

// provideFingerprintCache creates the fingerprint cache rooted at the
// user-scoped cache directory.
func provideFingerprintCache(logger *logging.Logger) *cache.FingerprintCache {
	return cache.NewFingerprintCache(cache.DefaultRoot(), logger)
}

// provideCoordinator creates the concurrency coordinator.
func provideCoordinator(executor *shell.Executor, fc *cache.FingerprintCache, logger *logging.Logger) *run.Coordinator {
	return run.NewCoordinator(executor, fc, logger)
}

// DispatcherParams groups the dispatcher's dependencies.
type DispatcherParams struct {
	fx.In

	Resolver    *config.Resolver
	Loader      *manifest.Loader
	Discoverer  *discovery.Discoverer
	Coordinator *run.Coordinator
	Logger      *logging.Logger
}

// provideDispatcher creates the lifecycle-event dispatcher.
func provideDispatcher(params DispatcherParams) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(params.Resolver, params.Loader, params.Discoverer, params.Coordinator, params.Logger)
}

func isTruthy(v string) bool {
	return v == "1" || v == "true" || v == "TRUE" || v == "True"
}
