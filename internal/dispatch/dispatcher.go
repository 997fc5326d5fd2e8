package dispatch

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/internal/discovery"
	"github.com/thebushidocollective/han/internal/manifest"
	"github.com/thebushidocollective/han/internal/marketplace"
	"github.com/thebushidocollective/han/internal/run"
	"github.com/thebushidocollective/han/internal/shell"
	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

// Options controls one Dispatch invocation, mapping directly to the
// `han hook dispatch` flags (§6).
type Options struct {
	All           bool
	NoCache       bool
	NoCheckpoints bool
}

// Aggregate is the session-level result of dispatching one lifecycle
// event: the concatenated stdout/stderr of every action, in work-list
// order (plugins sorted by qualified name, actions in manifest order,
// then inline actions), and the combined exit code (§4.H step 6-8).
type Aggregate struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Dispatcher is the entry point for a lifecycle event (§4.H): it
// resolves enabled plugins and inline settings actions, filters to the
// ones bound to the event, runs each through the coordinator, and
// aggregates the results.
type Dispatcher struct {
	resolver    *config.Resolver
	loader      *manifest.Loader
	discoverer  *discovery.Discoverer
	coordinator *run.Coordinator
	logger      *logging.Logger
}

// NewDispatcher wires a Dispatcher from its collaborators.
func NewDispatcher(resolver *config.Resolver, loader *manifest.Loader, discoverer *discovery.Discoverer, coordinator *run.Coordinator, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{resolver: resolver, loader: loader, discoverer: discoverer, coordinator: coordinator, logger: logger}
}

// workItem is one action selected for a dispatch, together with the
// plugin context needed to build its environment.
type workItem struct {
	plugin     string
	pluginRoot string
	action     *manifest.Action
}

// HooksDisabled reports whether HAN_DISABLE_HOOKS is set to a truthy
// value, short-circuiting Dispatch to an empty work list (§4.H).
func HooksDisabled() bool {
	v := strings.ToLower(os.Getenv("HAN_DISABLE_HOOKS"))
	return v == "true" || v == "1"
}

// Dispatch runs every action bound to event and returns the aggregate
// outcome. stdin is the trigger's standard input, already read to
// completion by the caller (nil when the caller's stdin was a
// terminal); the same bytes are forwarded verbatim to every child
// (§4.I).
func (d *Dispatcher) Dispatch(ctx context.Context, event string, stdin []byte, opts Options) *Aggregate {
	if HooksDisabled() {
		d.logger.Warn("HAN_DISABLE_HOOKS set, skipping dispatch")
		return &Aggregate{ExitCode: 0}
	}

	dispatchID := uuid.New().String()
	log := d.logger.With("dispatchId", dispatchID, "event", event)

	payload := ParsePayload(stdin)
	cfg := d.resolver.Resolve()
	items := d.workList(cfg, event, opts)

	log.Info("dispatch starting", logging.Int("actions", len(items)))

	agg := &Aggregate{}
	exitCodes := make([]int, 0, len(items))
	for _, item := range items {
		result := d.runAction(ctx, item, event, dispatchID, payload, stdin, opts)
		for _, outcome := range result.Outcomes {
			agg.Stdout = append(agg.Stdout, outcome.Stdout...)
			agg.Stderr = append(agg.Stderr, outcome.Stderr...)
		}
		exitCodes = append(exitCodes, result.ExitCode)
	}

	agg.ExitCode = aggregateExitCodes(exitCodes)
	log.Info("dispatch finished", logging.Int("exitCode", agg.ExitCode))
	return agg
}

// workList resolves cfg into the ordered set of actions bound to
// event: plugin-registered actions first (plugins in sorted
// qualified-name order, actions within a plugin in manifest
// declaration order), then inline settings actions for the event
// (§4.H step 2-3).
func (d *Dispatcher) workList(cfg *config.Config, event string, opts Options) []workItem {
	var items []workItem

	names := make([]string, 0, len(cfg.EnabledPlugins))
	for name := range cfg.EnabledPlugins {
		names = append(names, name)
	}
	sort.Strings(names)

	locator := marketplace.NewLocator(cfg, d.logger)
	for _, qualified := range names {
		if !opts.All && !cfg.EnabledPlugins[qualified] {
			continue
		}

		pluginName, marketplaceName := splitQualified(qualified)
		root, err := locator.Locate(pluginName, marketplaceName)
		if err != nil {
			d.logger.Warn("skipping unresolvable plugin", logging.String("plugin", qualified), logging.Err(err))
			continue
		}

		for _, action := range d.loader.Load(root, pluginName) {
			if action.BindsTo(event) {
				items = append(items, workItem{plugin: pluginName, pluginRoot: root, action: action})
			}
		}
	}

	for _, inline := range cfg.Hooks[event] {
		items = append(items, workItem{action: inlineToAction(inline)})
	}

	return items
}

func inlineToAction(ia config.InlineAction) *manifest.Action {
	return &manifest.Action{
		Name:            ia.Name,
		CommandTemplate: ia.Command,
		DirsWith:        ia.DirsWith,
		TestDir:         ia.TestDir,
		IfChanged:       ia.IfChanged,
		FailFast:        ia.FailFast,
		TimeoutMs:       ia.TimeoutMs,
	}
}

// splitQualified splits a "<plugin>@<marketplace>" name. An
// unqualified name returns an empty marketplace, trying every known
// marketplace in turn (§4.B).
func splitQualified(qualified string) (plugin, marketplaceName string) {
	if i := strings.IndexByte(qualified, '@'); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return qualified, ""
}

func (d *Dispatcher) runAction(ctx context.Context, item workItem, event, dispatchID string, payload TriggerPayload, stdin []byte, opts Options) *run.Result {
	action := item.action

	command := action.CommandTemplate
	if item.pluginRoot != "" {
		command = shell.ExpandPluginRoot(command, item.pluginRoot)
	}

	cwd := projectDir()
	targets := d.discoverer.Discover(cwd, action.DirsWith, action.TestDir)

	env := []string{
		"HAN_HOOK_EVENT=" + event,
		"HAN_DISPATCH_ID=" + dispatchID,
		"CLAUDE_PROJECT_DIR=" + cwd,
	}
	if item.pluginRoot != "" {
		env = append(env, "CLAUDE_PLUGIN_ROOT="+item.pluginRoot)
	}
	if !opts.NoCheckpoints {
		if checkpointType, checkpointID, ok := checkpointFor(event, payload); ok {
			env = append(env, "HAN_CHECKPOINT_TYPE="+checkpointType, "HAN_CHECKPOINT_ID="+checkpointID)
		}
	}

	return d.coordinator.Run(ctx, targets, run.Options{
		Plugin:          item.plugin,
		Action:          action.Name,
		CommandTemplate: command,
		Env:             env,
		Stdin:           stdin,
		Timeout:         action.Timeout(),
		FailFast:        action.FailFast,
		CacheEnabled:    !opts.NoCache,
		IfChanged:       action.IfChanged,
	})
}

// checkpointFor reports the checkpoint variables for the Stop and
// SubagentStop events (§4.F, §6).
func checkpointFor(event string, payload TriggerPayload) (checkpointType, checkpointID string, ok bool) {
	switch event {
	case "Stop":
		return "session", payload.SessionID, true
	case "SubagentStop":
		return "agent", payload.AgentID, true
	}
	return "", "", false
}

// projectDir returns CLAUDE_PROJECT_DIR, or the current working
// directory if unset (§6).
func projectDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// aggregateExitCodes applies G's exit-code rule across actions
// (§4.H step 6): since actions always run to completion in
// declaration order (dispatch has no cross-action fail-fast), this is
// the fail-fast-disabled case of §4.G's rule: 0 if every action
// exited 0, else the numerically highest non-zero code observed,
// ties broken by declaration order.
func aggregateExitCodes(codes []int) int {
	max := 0
	for _, c := range codes {
		if c > max {
			max = c
		}
	}
	return max
}

// ResolveAction resolves a single hook name of the form
// "<plugin>[@marketplace]:<action>" to its manifest Action and plugin
// root, for the `han hook run <hookName>` new form (§6).
func ResolveAction(cfg *config.Config, locator *marketplace.Locator, loader *manifest.Loader, hookName string) (action *manifest.Action, pluginName, pluginRoot string, err error) {
	qualified, actionName, ok := strings.Cut(hookName, ":")
	if !ok {
		return nil, "", "", errors.NewUserError("hook name must be \"<plugin>:<action>\"", "e.g. han hook run eslint:lint")
	}

	pluginName, marketplaceName := splitQualified(qualified)
	pluginRoot, err = locator.Locate(pluginName, marketplaceName)
	if err != nil {
		return nil, "", "", err
	}

	action, ok = loader.Resolve(pluginRoot, pluginName, actionName)
	if !ok {
		return nil, "", "", errors.NewManifestError(pluginName, actionName, "action not found in plugin manifest")
	}

	return action, pluginName, pluginRoot, nil
}
