package manifest

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// DefaultTimeout is the fallback per-action wall-clock timeout when a
// manifest does not declare timeoutMs (§3 Action).
const DefaultTimeout = 30 * time.Second

// EngineVersion is this build's engine version, checked against an
// action's minEngine constraint before it is registered.
const EngineVersion = "1.4.0"

// Action is a unit of work registered by a plugin, as read from its
// manifest.
type Action struct {
	Name            string
	Events          []string
	CommandTemplate string
	DirsWith        string
	TestDir         string
	IfChanged       []string
	FailFast        bool
	TimeoutMs       int
	MinEngine       string
}

// SatisfiesEngine reports whether the running engine version satisfies
// the action's minEngine constraint. An action with no constraint
// always satisfies. A constraint that fails to parse is treated as
// unsatisfied, so a typo'd manifest cannot silently bypass the check.
func (a *Action) SatisfiesEngine(engineVersion string) bool {
	if a.MinEngine == "" {
		return true
	}

	constraint, err := semver.NewConstraint(a.MinEngine)
	if err != nil {
		return false
	}

	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return false
	}

	return constraint.Check(v)
}

// Timeout returns the action's configured timeout, or DefaultTimeout
// when unset.
func (a *Action) Timeout() time.Duration {
	if a.TimeoutMs <= 0 {
		return DefaultTimeout
	}
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

// MultiDirectory reports whether the action runs across discovered
// directories rather than once in the caller's working directory.
func (a *Action) MultiDirectory() bool {
	return a.DirsWith != "" || a.TestDir != ""
}

// BindsTo reports whether the action is registered for the given
// lifecycle event.
func (a *Action) BindsTo(event string) bool {
	for _, e := range a.Events {
		if e == event {
			return true
		}
	}
	return false
}

type rawManifest struct {
	Actions []rawAction `yaml:"actions"`
}

type rawAction struct {
	Name      string   `yaml:"name"`
	Events    []string `yaml:"events"`
	Command   string   `yaml:"command"`
	DirsWith  string   `yaml:"dirsWith"`
	TestDir   string   `yaml:"testDir"`
	IfChanged []string `yaml:"ifChanged"`
	FailFast  *bool    `yaml:"failFast"`
	TimeoutMs int      `yaml:"timeoutMs"`
	MinEngine string   `yaml:"minEngine"`
}
