package cli

import (
	"github.com/spf13/cobra"

	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/internal/discovery"
	"github.com/thebushidocollective/han/internal/dispatch"
	"github.com/thebushidocollective/han/internal/manifest"
	"github.com/thebushidocollective/han/internal/run"
	"github.com/thebushidocollective/han/pkg/logging"
)

// NewRootCommand builds the han cobra root command, wiring the two
// hard commands from §6: `han hook dispatch` and `han hook run`.
func NewRootCommand(
	dispatcher *dispatch.Dispatcher,
	resolver *config.Resolver,
	loader *manifest.Loader,
	discoverer *discovery.Discoverer,
	coordinator *run.Coordinator,
	logger *logging.Logger,
) *cobra.Command {
	root := &cobra.Command{
		Use:           "han",
		Short:         "Hook dispatch and validation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Lifecycle hook commands",
	}
	hookCmd.AddCommand(newDispatchCommand(dispatcher))
	hookCmd.AddCommand(newRunCommand(resolver, loader, discoverer, coordinator, logger))

	root.AddCommand(hookCmd)
	return root
}
