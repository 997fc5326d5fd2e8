package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
	"github.com/thebushidocollective/han/pkg/registry"
)

// Filename is the manifest file name expected at a plugin's root.
const Filename = "manifest.yml"

// Loader reads a plugin's manifest and recovers its registered
// actions (§4.C).
type Loader struct {
	logger *logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *logging.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads pluginRoot's manifest file. A missing or empty manifest
// yields an empty action set, not an error. An action missing events
// or a command template is skipped with a warning; the rest of the
// manifest still loads.
func (l *Loader) Load(pluginRoot, pluginName string) []*Action {
	path := filepath.Join(pluginRoot, Filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			hanErr := errors.NewManifestError(pluginName, "", err.Error())
			l.logger.Warn(hanErr.Message, logging.Err(err))
		}
		return nil
	}

	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		hanErr := errors.NewManifestError(pluginName, "", err.Error())
		l.logger.Warn(hanErr.Message, logging.Err(err))
		return nil
	}

	actions := make([]*Action, 0, len(raw.Actions))
	for _, ra := range raw.Actions {
		if len(ra.Events) == 0 || ra.Command == "" {
			hanErr := errors.NewManifestError(pluginName, ra.Name, "missing events or command template")
			l.logger.Warn(hanErr.Message)
			continue
		}

		action := &Action{
			Name:            ra.Name,
			Events:          ra.Events,
			CommandTemplate: ra.Command,
			DirsWith:        ra.DirsWith,
			TestDir:         ra.TestDir,
			IfChanged:       ra.IfChanged,
			TimeoutMs:       ra.TimeoutMs,
			MinEngine:       ra.MinEngine,
		}
		if ra.FailFast != nil {
			action.FailFast = *ra.FailFast
		}
		if !action.SatisfiesEngine(EngineVersion) {
			hanErr := errors.NewManifestError(pluginName, ra.Name, "requires engine "+ra.MinEngine+", have "+EngineVersion)
			l.logger.Warn(hanErr.Message)
			continue
		}
		actions = append(actions, action)
	}

	return actions
}

// Resolve looks up a single named action from pluginRoot's manifest,
// for the `han hook run <plugin>:<action>` form (§6). Actions are
// registered by name into a registry.Registry so a manifest declaring
// the same action name twice is rejected rather than silently shadowed.
func (l *Loader) Resolve(pluginRoot, pluginName, actionName string) (*Action, bool) {
	actions := l.Load(pluginRoot, pluginName)

	reg := registry.New[*Action]()
	for _, action := range actions {
		if err := reg.Register(action.Name, action); err != nil {
			hanErr := errors.NewManifestError(pluginName, action.Name, err.Error())
			l.logger.Warn(hanErr.Message)
			continue
		}
	}

	return reg.Get(actionName)
}
