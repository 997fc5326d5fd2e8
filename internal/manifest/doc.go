// Package manifest reads a plugin's manifest.yml and recovers its
// registered hook actions: name, events, command template, directory
// filters, cache patterns, and timeout.
//
//	loader := manifest.NewLoader(logger)
//	actions := loader.Load(pluginRoot, "eslint")
//	for _, a := range actions {
//	    if a.BindsTo("PreToolUse") { ... }
//	}
package manifest
