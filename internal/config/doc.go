// Package config resolves the layered configuration sources that tell
// the hook engine which plugins are enabled and where each marketplace
// lives on disk.
//
// # Scope precedence
//
// Scopes are merged lowest to highest:
//
//  1. A TOML override file (.han.local.toml), intended for
//     machine-generated overrides such as CI containers.
//  2. The user-scope config ($HAN_CONFIG_DIR/config.yml, or
//     ~/.config/han/config.yml).
//  3. The project-scope config (.han.yml at the project root).
//  4. The project-local-scope config (.han.local.yml), typically
//     gitignored and used for per-checkout overrides.
//
// A scope that does not exist is a no-op; a scope that exists but fails
// to parse is logged and skipped, never fatal.
//
//	resolver := config.NewResolver(logger)
//	cfg := resolver.Resolve()
//	if cfg.IsEnabled("eslint@community") { ... }
package config
