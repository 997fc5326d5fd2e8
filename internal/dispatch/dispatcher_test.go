package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebushidocollective/han/internal/cache"
	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/internal/discovery"
	"github.com/thebushidocollective/han/internal/manifest"
	"github.com/thebushidocollective/han/internal/run"
	"github.com/thebushidocollective/han/internal/shell"
	"github.com/thebushidocollective/han/pkg/logging"
)

type fixture struct {
	dispatcher  *Dispatcher
	configDir   string
	projectDir  string
	marketplace string
}

func newFixture(t *testing.T) *fixture {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	marketplaceDir := t.TempDir()

	t.Setenv("HAN_CONFIG_DIR", configDir)
	t.Setenv("CLAUDE_PROJECT_DIR", projectDir)
	t.Setenv("HAN_DISABLE_HOOKS", "")

	logger := logging.New(logging.DefaultConfig())
	resolver := config.NewResolver(logger)
	loader := manifest.NewLoader(logger)
	discoverer := discovery.NewDiscoverer(shell.NewExecutor(false), logger)
	fc := cache.NewFingerprintCache(t.TempDir(), logger)
	coordinator := run.NewCoordinator(shell.NewExecutor(false), fc, logger)

	return &fixture{
		dispatcher:  NewDispatcher(resolver, loader, discoverer, coordinator, logger),
		configDir:   configDir,
		projectDir:  projectDir,
		marketplace: marketplaceDir,
	}
}

func (f *fixture) writeConfig(t *testing.T, yaml string) {
	require.NoError(t, os.WriteFile(filepath.Join(f.configDir, "config.yml"), []byte(yaml), 0o644))
}

func (f *fixture) writeProjectSettings(t *testing.T, yaml string) {
	require.NoError(t, os.WriteFile(filepath.Join(f.projectDir, ".han.yml"), []byte(yaml), 0o644))
}

func (f *fixture) writeManifest(t *testing.T, plugin, yaml string) {
	dir := filepath.Join(f.marketplace, plugin)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.Filename), []byte(yaml), 0o644))
}

func TestDispatch_RunsPluginAndInlineActionsForEvent(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: greet\n    events: [\"Stop\"]\n    command: \"exit 0\"\n")
	f.writeProjectSettings(t, "hooks:\n  Stop:\n    - name: inline-check\n      command: \"exit 0\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", nil, Options{})

	assert.Equal(t, 0, agg.ExitCode)
}

func TestDispatch_FiltersActionsByEvent(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: greet\n    events: [\"PreToolUse\"]\n    command: \"exit 9\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", nil, Options{})

	assert.Equal(t, 0, agg.ExitCode, "action bound to a different event must not run")
}

func TestDispatch_DisabledPluginIsSkippedByDefault(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "plugins:\n  demo@mkt: false\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: greet\n    events: [\"Stop\"]\n    command: \"exit 9\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", nil, Options{})

	assert.Equal(t, 0, agg.ExitCode)
}

func TestDispatch_AllFlagIncludesDisabledPlugins(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "plugins:\n  demo@mkt: false\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: greet\n    events: [\"Stop\"]\n    command: \"exit 5\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", nil, Options{All: true})

	assert.Equal(t, 5, agg.ExitCode)
}

func TestDispatch_AggregatesHighestNonZeroExit(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: a\n    events: [\"Stop\"]\n    command: \"exit 2\"\n  - name: b\n    events: [\"Stop\"]\n    command: \"exit 5\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", nil, Options{})

	assert.Equal(t, 5, agg.ExitCode)
}

func TestDispatch_HooksDisabledEnvShortCircuits(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: a\n    events: [\"Stop\"]\n    command: \"exit 9\"\n")
	t.Setenv("HAN_DISABLE_HOOKS", "true")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", nil, Options{})

	assert.Equal(t, 0, agg.ExitCode)
}

func TestDispatch_InjectsCheckpointVariablesOnStop(t *testing.T) {
	f := newFixture(t)
	marker := filepath.Join(f.projectDir, "checkpoint.txt")
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: a\n    events: [\"Stop\"]\n    command: \"echo -n $HAN_CHECKPOINT_TYPE:$HAN_CHECKPOINT_ID > '"+marker+"'\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", []byte(`{"session_id":"sess-1","hook_event_name":"Stop"}`), Options{})

	require.Equal(t, 0, agg.ExitCode)
	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "session:sess-1", string(content))
}

func TestDispatch_NoCheckpointsSuppressesVariables(t *testing.T) {
	f := newFixture(t)
	marker := filepath.Join(f.projectDir, "checkpoint.txt")
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: a\n    events: [\"Stop\"]\n    command: \"echo -n $HAN_CHECKPOINT_TYPE > '"+marker+"'\"\n")

	agg := f.dispatcher.Dispatch(context.Background(), "Stop", []byte(`{"session_id":"sess-1"}`), Options{NoCheckpoints: true})

	require.Equal(t, 0, agg.ExitCode)
	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Empty(t, string(content))
}

func TestDispatch_ForwardsStdinVerbatimToChildren(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.projectDir, "stdin.txt")
	f.writeConfig(t, "plugins:\n  demo@mkt: true\nmarketplaces:\n  mkt: "+f.marketplace+"\n")
	f.writeManifest(t, "demo", "actions:\n  - name: a\n    events: [\"Stop\"]\n    command: \"cat > '"+out+"'\"\n")

	payload := []byte(`{"session_id":"sess-1"}`)
	agg := f.dispatcher.Dispatch(context.Background(), "Stop", payload, Options{})

	require.Equal(t, 0, agg.ExitCode)
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestParsePayload_MalformedJSONYieldsZeroValue(t *testing.T) {
	payload := ParsePayload([]byte("not json"))
	assert.Empty(t, payload.SessionID)
	assert.Equal(t, []byte("not json"), payload.Raw)
}

func TestSplitQualified(t *testing.T) {
	plugin, mkt := splitQualified("eslint@core")
	assert.Equal(t, "eslint", plugin)
	assert.Equal(t, "core", mkt)

	plugin, mkt = splitQualified("eslint")
	assert.Equal(t, "eslint", plugin)
	assert.Empty(t, mkt)
}
