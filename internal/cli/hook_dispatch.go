package cli

import (
	"github.com/spf13/cobra"

	"github.com/thebushidocollective/han/internal/dispatch"
	"github.com/thebushidocollective/han/pkg/errors"
)

// newDispatchCommand builds `han hook dispatch <eventName>` (§6): reads
// the trigger payload from stdin once, hands it to the Event Dispatcher,
// and relays the aggregated child output to the command's own streams.
func newDispatchCommand(dispatcher *dispatch.Dispatcher) *cobra.Command {
	var all, noCache, noCheckpoints bool

	cmd := &cobra.Command{
		Use:   "dispatch <eventName>",
		Short: "Dispatch a lifecycle event to registered hook actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event := args[0]
			stdin := readStdinIfPiped(cmd.InOrStdin())

			agg := dispatcher.Dispatch(cmd.Context(), event, stdin, dispatch.Options{
				All:           all,
				NoCache:       noCache,
				NoCheckpoints: noCheckpoints,
			})

			if _, err := cmd.OutOrStdout().Write(agg.Stdout); err != nil {
				return errors.Wrap(err, "failed to write dispatch output")
			}
			if _, err := cmd.ErrOrStderr().Write(agg.Stderr); err != nil {
				return errors.Wrap(err, "failed to write dispatch output")
			}

			if agg.ExitCode != 0 {
				return errors.New(errors.TypeUnknown, "one or more hook actions failed",
					errors.WithExitCode(agg.ExitCode))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include plugins disabled in configuration")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the fingerprint cache")
	cmd.Flags().BoolVar(&noCheckpoints, "no-checkpoints", false, "suppress checkpoint environment variables")

	return cmd
}
