package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

// Resolver merges layered configuration scopes into a single Config
// (§4.A). Scopes are read, parsed, and merged in a fixed precedence
// order; a scope that cannot be parsed is logged and skipped rather
// than failing the resolution.
type Resolver struct {
	logger *logging.Logger
}

// NewResolver creates a Resolver.
func NewResolver(logger *logging.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// UserScopePath returns the user-scope configuration file path, honoring
// HAN_CONFIG_DIR and falling back to $XDG_CONFIG_HOME/han or
// ~/.config/han.
func UserScopePath() string {
	if dir := os.Getenv("HAN_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.yml")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "han", "config.yml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "han", "config.yml")
	}
	return ""
}

// projectDir returns the effective project root: CLAUDE_PROJECT_DIR, or
// the current working directory if unset.
func projectDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// ProjectScopePath returns the project-scope configuration file path.
func ProjectScopePath() string {
	dir := projectDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ".han.yml")
}

// ProjectLocalScopePath returns the project-local-scope configuration
// file path (highest YAML precedence, typically gitignored).
func ProjectLocalScopePath() string {
	dir := projectDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ".han.local.yml")
}

// TOMLOverridePath returns the lowest-precedence TOML override scope,
// for environments (e.g. CI containers) that prefer writing machine-
// generated overrides in TOML rather than YAML.
func TOMLOverridePath() string {
	dir := projectDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ".han.local.toml")
}

// Resolve reads whichever scopes exist, in precedence order (lowest
// first: the TOML override, then user, project, and project-local
// YAML), and merges them into a Config. Mappings are union-merged key
// by key; a later scope overwrites an earlier one for the same key.
func (r *Resolver) Resolve() *Config {
	cfg := &Config{
		EnabledPlugins: EnabledPlugins{},
		Marketplaces:   Marketplaces{},
		Hooks:          Hooks{},
	}

	if path := TOMLOverridePath(); path != "" {
		r.mergeTOML(cfg, path)
	}
	for _, path := range []string{UserScopePath(), ProjectScopePath(), ProjectLocalScopePath()} {
		if path != "" {
			r.mergeYAML(cfg, path)
		}
	}

	return cfg
}

func (r *Resolver) mergeYAML(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("skipping unreadable configuration scope", logging.String("path", path), logging.Err(err))
		}
		return
	}

	var scope Scope
	if err := yaml.Unmarshal(data, &scope); err != nil {
		hanErr := errors.NewConfigError(path, err)
		r.logger.Warn(hanErr.Message, logging.Err(err))
		return
	}

	r.apply(cfg, scope)
}

func (r *Resolver) mergeTOML(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("skipping unreadable configuration scope", logging.String("path", path), logging.Err(err))
		}
		return
	}

	var scope Scope
	if _, err := toml.Decode(string(data), &scope); err != nil {
		hanErr := errors.NewConfigError(path, err)
		r.logger.Warn(hanErr.Message, logging.Err(err))
		return
	}

	r.apply(cfg, scope)
}

func (r *Resolver) apply(cfg *Config, scope Scope) {
	for name, enabled := range scope.Plugins {
		cfg.EnabledPlugins[name] = enabled
	}
	for name, root := range scope.Marketplaces {
		cfg.Marketplaces[name] = root
	}
	for event, actions := range scope.Hooks {
		cfg.Hooks[event] = actions
	}
}
