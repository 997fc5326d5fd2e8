package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/internal/discovery"
	"github.com/thebushidocollective/han/internal/dispatch"
	"github.com/thebushidocollective/han/internal/manifest"
	"github.com/thebushidocollective/han/internal/marketplace"
	"github.com/thebushidocollective/han/internal/run"
	"github.com/thebushidocollective/han/internal/shell"
	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

// newRunCommand builds `han hook run`, which has two forms (§6, §9):
//
//   - new form: `han hook run <plugin>[@marketplace]:<action>` resolves
//     a registered action directly, bypassing event dispatch entirely.
//   - legacy form: `han hook run --dirs-with <file> -- <command...>`
//     synthesizes a single ad-hoc action from the command line, for
//     invoking han's concurrency coordinator without a plugin manifest.
func newRunCommand(
	resolver *config.Resolver,
	loader *manifest.Loader,
	discoverer *discovery.Discoverer,
	coordinator *run.Coordinator,
	logger *logging.Logger,
) *cobra.Command {
	var dirsWith, testDir string
	var ifChanged []string
	var failFast, cacheEnabled, forwardStdin bool
	var timeoutMs int

	cmd := &cobra.Command{
		Use:   "run <hookName> | --dirs-with <file> -- <command...>",
		Short: "Run a single hook action directly",
		Args: func(cmd *cobra.Command, args []string) error {
			if cmd.ArgsLenAtDash() >= 0 {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dashAt := cmd.ArgsLenAtDash()
			var stdin []byte
			if forwardStdin {
				stdin = readStdinIfPiped(cmd.InOrStdin())
			}
			cwd := projectDir()

			var opts run.Options
			var targets []string

			if dashAt >= 0 {
				command := shell.JoinArgs(args[dashAt:])
				args = args[:dashAt]
				if command == "" {
					return errors.New(errors.TypeInvalid, "no command given after \"--\"", errors.WithExitCode(1))
				}

				targets = discoverer.Discover(cwd, dirsWith, testDir)
				opts = run.Options{
					Action:          "run",
					CommandTemplate: command,
					Env:             []string{"CLAUDE_PROJECT_DIR=" + cwd},
					Timeout:         manifest.DefaultTimeout,
					Stdin:           stdin,
					FailFast:        failFast,
					CacheEnabled:    cacheEnabled,
					IfChanged:       ifChanged,
				}
				if timeoutMs > 0 {
					opts.Timeout = timeoutMsToDuration(timeoutMs)
				}
			} else {
				if len(args) != 1 {
					return errors.New(errors.TypeInvalid, "hook name required", errors.WithExitCode(64))
				}

				cfg := resolver.Resolve()
				locator := marketplace.NewLocator(cfg, logger)
				action, pluginName, pluginRoot, err := dispatch.ResolveAction(cfg, locator, loader, args[0])
				if err != nil {
					return err
				}

				command := action.CommandTemplate
				if pluginRoot != "" {
					command = shell.ExpandPluginRoot(command, pluginRoot)
				}
				targets = discoverer.Discover(cwd, action.DirsWith, action.TestDir)
				env := []string{"CLAUDE_PROJECT_DIR=" + cwd}
				if pluginRoot != "" {
					env = append(env, "CLAUDE_PLUGIN_ROOT="+pluginRoot)
				}
				opts = run.Options{
					Plugin:          pluginName,
					Action:          action.Name,
					CommandTemplate: command,
					Env:             env,
					Timeout:         action.Timeout(),
					Stdin:           stdin,
					FailFast:        action.FailFast || failFast,
					CacheEnabled:    cacheEnabled,
					IfChanged:       action.IfChanged,
				}
			}

			result := coordinator.Run(cmd.Context(), targets, opts)
			for _, outcome := range result.Outcomes {
				_, _ = cmd.OutOrStdout().Write(outcome.Stdout)
				_, _ = cmd.ErrOrStderr().Write(outcome.Stderr)
			}
			if result.ExitCode != 0 {
				return errors.New(errors.TypeUnknown, "hook action failed", errors.WithExitCode(result.ExitCode))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dirsWith, "dirs-with", "", "run once per directory containing this file (legacy form)")
	cmd.Flags().StringVar(&testDir, "test-dir", "", "run once per directory where this probe command exits 0 (legacy form)")
	cmd.Flags().StringArrayVar(&ifChanged, "if-changed", nil, "fingerprint these globs for cache skipping")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "cancel remaining targets on first failure")
	cmd.Flags().BoolVar(&cacheEnabled, "cache", false, "enable the fingerprint cache")
	cmd.Flags().BoolVar(&forwardStdin, "stdin", false, "forward the caller's stdin to every child")
	cmd.Flags().IntVar(&timeoutMs, "timeout-ms", 0, "per-target timeout in milliseconds (legacy form)")

	return cmd
}

func timeoutMsToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
