// Package registry provides a thread-safe, duplicate-safe generic name
// registry, used by han's manifest loader to reject a plugin manifest that
// declares the same action name twice.
//
// # Basic Usage
//
//	reg := registry.New[*manifest.Action]()
//	if err := reg.Register(action.Name, action); err != nil {
//	    // duplicate action name within one manifest
//	}
//	action, ok := reg.Get("lint")
//
// # Generic Type Safety
//
// The registry uses Go generics for compile-time type safety: Get returns
// the stored type directly, no type assertion needed.
//
// # Thread Safety
//
// All operations are safe for concurrent use.
package registry
