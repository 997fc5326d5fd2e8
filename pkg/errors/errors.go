package errors

import (
	"fmt"
	"strings"
	"time"
)

// New creates a new HanError with the given type and message.
func New(errType ErrorType, message string, opts ...ErrorOption) *HanError {
	e := &HanError{
		Type:    errType,
		Message: message,
		Code:    1, // Default exit code
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewPluginNotFoundError reports a plugin name that could not be resolved
// against any marketplace root. Surfaced to the user with the roots probed;
// exit 1 (§7).
func NewPluginNotFoundError(name string, probed []string) *HanError {
	opts := []ErrorOption{
		WithContext("plugin", name),
		WithExitCode(1),
		WithSuggestions(
			fmt.Sprintf("Checked marketplace roots: %s", strings.Join(probed, ", ")),
			"Verify the plugin name and that its marketplace is configured",
		),
	}
	return New(TypePluginNotFound, fmt.Sprintf("plugin not found: %s", name), opts...)
}

// NewManifestError reports a manifest whose action is missing required
// fields. Not itself a hard failure: the action is skipped with a warning
// and the plugin's other actions continue (§7).
func NewManifestError(plugin, action, reason string) *HanError {
	opts := []ErrorOption{
		WithContext("plugin", plugin),
		WithContext("action", action),
		WithExitCode(1),
	}
	return New(TypeManifest, fmt.Sprintf("action %q in plugin %q: %s", action, plugin, reason), opts...)
}

// NewSpawnError reports a failure to create the child process for a
// per-directory execution. Treated as exit 127 for that target (§7).
func NewSpawnError(target string, cause error) *HanError {
	opts := []ErrorOption{
		WithContext("directory", target),
		WithExitCode(127),
		WithError(cause),
	}
	return New(TypeSpawn, fmt.Sprintf("failed to spawn command in %s", target), opts...)
}

// NewTimeoutError reports a per-child execution that exceeded its timeout.
// Treated as exit 124 for that target (§4.F, §7).
func NewTimeoutError(target string, timeout time.Duration) *HanError {
	opts := []ErrorOption{
		WithContext("directory", target),
		WithExitCode(124),
		WithSuggestions(fmt.Sprintf("Increase timeoutMs above %d", timeout.Milliseconds())),
	}
	return New(TypeTimeout, fmt.Sprintf("execution in %s timed out after %s", target, timeout), opts...)
}

// NewCacheError reports a fingerprint file that could not be read or
// written. The cache is bypassed for that target; never fatal (§7).
func NewCacheError(target string, cause error) *HanError {
	opts := []ErrorOption{
		WithContext("directory", target),
		WithExitCode(0),
		WithError(cause),
	}
	return New(TypeCache, fmt.Sprintf("cache unavailable for %s, proceeding uncached", target), opts...)
}

// NewConfigError reports a malformed configuration file or unknown scope.
// Logged; the affected file is treated as empty (§7).
func NewConfigError(path string, cause error) *HanError {
	opts := []ErrorOption{
		WithContext("path", path),
		WithExitCode(0),
		WithError(cause),
	}
	return New(TypeConfig, fmt.Sprintf("ignoring malformed configuration: %s", path), opts...)
}

// NewStdinForwardError reports a child that closed stdin before the
// forwarder finished writing. Silently tolerated; the child's own exit
// code governs (§7).
func NewStdinForwardError(target string, cause error) *HanError {
	opts := []ErrorOption{
		WithContext("directory", target),
		WithExitCode(0),
		WithError(cause),
	}
	return New(TypeStdinForward, fmt.Sprintf("stdin forwarding to %s ended early", target), opts...)
}

// NewUserError creates an error caused by malformed user input at the CLI
// surface (flags, command lines).
func NewUserError(message, suggestion string) *HanError {
	opts := []ErrorOption{WithExitCode(64)} // EX_USAGE from sysexits.h
	if suggestion != "" {
		opts = append(opts, WithSuggestions(suggestion))
	}
	return New(TypeInvalid, message, opts...)
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, message string, opts ...ErrorOption) *HanError {
	if err == nil {
		return nil
	}

	// If it's already a HanError, preserve its properties.
	if hanErr, ok := err.(*HanError); ok {
		wrapped := &HanError{
			Type:        hanErr.Type,
			Message:     message,
			Err:         hanErr,
			Suggestions: hanErr.Suggestions,
			Context:     hanErr.Context,
			Code:        hanErr.Code,
		}

		for _, opt := range opts {
			opt(wrapped)
		}

		return wrapped
	}

	return New(TypeUnknown, message, append(opts, WithError(err))...)
}

// Is checks if an error is of a specific type.
func Is(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}

	hanErr, ok := err.(*HanError)
	if !ok {
		return false
	}

	return hanErr.Type == errType
}

// ExitCode maps an error returned from the dispatcher or CLI layer to a
// process exit code. A nil error exits 0; a *HanError uses its own Code;
// any other error falls back to the generic failure code 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if hanErr, ok := err.(*HanError); ok {
		return hanErr.Code
	}
	return 1
}

// WithSuggestion is a convenience function to add a suggestion to any error.
func WithSuggestion(err error, suggestion string) *HanError {
	if err == nil {
		return nil
	}

	if hanErr, ok := err.(*HanError); ok {
		return hanErr.AddSuggestion(suggestion)
	}

	return Wrap(err, err.Error(), WithSuggestions(suggestion))
}
