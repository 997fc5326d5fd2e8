package container

import (
	"go.uber.org/fx"

	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/pkg/logging"
)

// Option is a functional option for configuring the container.
// Typically used in tests to override default providers.
type Option = fx.Option

// WithLogger overrides the logger provider.
func WithLogger(logger *logging.Logger) Option {
	return fx.Replace(logger)
}

// WithConfig overrides the resolved configuration, bypassing A's
// layered file reads entirely.
func WithConfig(cfg *config.Config) Option {
	return fx.Replace(cfg)
}

// WithoutLifecycle adds a no-op invoke; the startup/shutdown log hooks
// registered by New stay in place.
func WithoutLifecycle() Option {
	return fx.Options(
		fx.Invoke(func() {}),
	)
}
