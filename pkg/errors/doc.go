// Package errors provides structured error handling for the han hook engine.
//
// This package defines error types, constructors, and utilities for creating
// user-friendly, actionable error messages. All errors include context,
// exit codes, and optional suggestions for resolution.
//
// # Error Types
//
// Errors are categorized by type, mirroring the engine's error taxonomy:
//   - TypeConfig: malformed configuration files or unknown scopes
//   - TypePluginNotFound: a plugin name could not be resolved
//   - TypeManifest: a manifest action is missing required fields
//   - TypeSpawn: a child process could not be created
//   - TypeTimeout: a per-child execution exceeded its timeout
//   - TypeCache: a fingerprint file could not be read or written
//   - TypeStdinForward: a child closed stdin before forwarding finished
//   - TypeInvalid: malformed CLI input
//
// # Creating Errors
//
// Use typed constructors for each taxonomy entry:
//
//	err := errors.NewPluginNotFoundError("eslint", probedRoots)
//	err := errors.NewTimeoutError(dir, 30*time.Second)
//	err := errors.NewSpawnError(dir, execErr)
//
// # Error Options
//
// Customize errors with functional options:
//
//	err := errors.New(errors.TypeInvalid, "invalid input",
//	    errors.WithExitCode(64),
//	    errors.WithContext("field", "eventName"),
//	    errors.WithError(originalErr),
//	    errors.WithSuggestions("Check the hook event name"))
//
// # Error Handling
//
// Use the Handler for consistent error display, and ExitCode to translate
// an error into a process exit code for cmd/han:
//
//	handler := errors.DefaultHandler()
//	code := handler.Handle(err)
//	os.Exit(code)
package errors
