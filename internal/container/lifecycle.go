package container

import (
	"context"

	"go.uber.org/fx"

	"github.com/thebushidocollective/han/pkg/logging"
)

// LifecycleParams groups the components that need lifecycle
// management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *logging.Logger
}

// registerLifecycleHooks registers startup and shutdown hooks. Called
// automatically by uber-fx when the container is created.
func registerLifecycleHooks(params LifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Debug("starting han engine")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Debug("shutting down han engine")
			return nil
		},
	})
}
