package config

// EnabledPlugins maps a fully-qualified "<plugin>@<marketplace>" name to
// whether it is enabled. A later scope's `false` overrides an earlier
// scope's `true`.
type EnabledPlugins map[string]bool

// Marketplaces maps a marketplace name to its on-disk root.
type Marketplaces map[string]string

// InlineAction is a hook action declared directly in a settings scope
// file rather than registered by a plugin manifest (§4.H, "inline
// actions declared directly in a user's settings file for this
// event"). Its fields mirror a plugin manifest action, minus `events`:
// inline actions are already keyed by event in the settings document.
type InlineAction struct {
	Name      string   `yaml:"name" toml:"name"`
	Command   string   `yaml:"command" toml:"command"`
	DirsWith  string   `yaml:"dirsWith" toml:"dirsWith"`
	TestDir   string   `yaml:"testDir" toml:"testDir"`
	IfChanged []string `yaml:"ifChanged" toml:"ifChanged"`
	FailFast  bool     `yaml:"failFast" toml:"failFast"`
	TimeoutMs int      `yaml:"timeoutMs" toml:"timeoutMs"`
}

// Hooks maps a lifecycle event name to the inline actions registered
// for it.
type Hooks map[string][]InlineAction

// Scope is the shape of a single configuration source (one YAML or TOML
// file) before it is merged into a Config.
type Scope struct {
	Plugins      map[string]bool   `yaml:"plugins" toml:"plugins"`
	Marketplaces map[string]string `yaml:"marketplaces" toml:"marketplaces"`
	Hooks        Hooks             `yaml:"hooks" toml:"hooks"`
}

// Config is the result of merging every configured scope, in precedence
// order, lowest to highest.
type Config struct {
	EnabledPlugins EnabledPlugins
	Marketplaces   Marketplaces
	Hooks          Hooks
}

// IsEnabled reports whether the fully-qualified plugin name is enabled.
func (c *Config) IsEnabled(qualifiedName string) bool {
	return c.EnabledPlugins[qualifiedName]
}

// MarketplaceRoot returns the on-disk root registered for a marketplace
// name, and whether one was found.
func (c *Config) MarketplaceRoot(name string) (string, bool) {
	root, ok := c.Marketplaces[name]
	return root, ok
}
