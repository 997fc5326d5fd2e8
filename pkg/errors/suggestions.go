package errors

import (
	"strings"
)

// SuggestionEngine provides smart error suggestions based on patterns
// observed in a raw (non-HanError) error message.
type SuggestionEngine struct {
	patterns []ErrorPattern
}

// ErrorPattern matches error messages and provides suggestions.
type ErrorPattern struct {
	Contains    []string  // Any of these strings trigger the pattern
	Type        ErrorType // Error type to assign
	Suggestions []string  // Suggestions to provide
}

// NewSuggestionEngine creates a new suggestion engine with default patterns.
func NewSuggestionEngine() *SuggestionEngine {
	return &SuggestionEngine{
		patterns: defaultPatterns(),
	}
}

// GetSuggestions analyzes an error and returns relevant suggestions.
func (se *SuggestionEngine) GetSuggestions(err error, context map[string]string) []string {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())
	suggestions := []string{}

	for _, pattern := range se.patterns {
		if pattern.Matches(errMsg) {
			suggestions = append(suggestions, pattern.Suggestions...)
		}
	}

	if context != nil {
		suggestions = append(suggestions, se.getContextSuggestions(context)...)
	}

	return uniqueStrings(suggestions)
}

// getContextSuggestions provides suggestions based on a target's context.
func (se *SuggestionEngine) getContextSuggestions(context map[string]string) []string {
	var suggestions []string

	if plugin, ok := context["plugin"]; ok {
		suggestions = append(suggestions,
			"Confirm the plugin is enabled in a configuration scope: "+plugin,
			"Check the marketplace roots configured for this project",
		)
	}

	if dir, ok := context["directory"]; ok {
		suggestions = append(suggestions,
			"Re-run with HAN_VERBOSE=1 to see what was spawned in "+dir,
		)
	}

	return suggestions
}

// Matches checks if a pattern matches an error message.
func (p *ErrorPattern) Matches(errMsg string) bool {
	for _, substr := range p.Contains {
		if strings.Contains(errMsg, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// defaultPatterns returns the default error patterns for the hook engine.
func defaultPatterns() []ErrorPattern {
	return []ErrorPattern{
		// Command not found when spawning an action's command template.
		{
			Contains: []string{"executable file not found", "no such file or directory", "command not found"},
			Type:     TypeSpawn,
			Suggestions: []string{
				"Verify the action's command template resolves to an executable on PATH",
				"Check that ${CLAUDE_PLUGIN_ROOT} expands to the plugin's actual root",
			},
		},
		// Permission denied spawning the action's command.
		{
			Contains: []string{"permission denied"},
			Type:     TypeSpawn,
			Suggestions: []string{
				"Check the command template's executable bit: chmod +x",
			},
		},
		// Manifest parse failures.
		{
			Contains: []string{"yaml:", "cannot unmarshal", "manifest"},
			Type:     TypeManifest,
			Suggestions: []string{
				"Validate the plugin manifest's action entries (name, events, command)",
			},
		},
		// Configuration parse failures.
		{
			Contains: []string{"yaml: line", "toml:", "configuration"},
			Type:     TypeConfig,
			Suggestions: []string{
				"Validate the configuration file's syntax",
				"Check which scope the file belongs to (user, project, project-local)",
			},
		},
		// Timeout / deadline errors.
		{
			Contains: []string{"deadline exceeded", "timed out", "timeout"},
			Type:     TypeTimeout,
			Suggestions: []string{
				"Increase the action's timeoutMs",
				"Check whether the command blocks on input it never receives",
			},
		},
		// Cache file I/O errors.
		{
			Contains: []string{"fingerprint", "cache"},
			Type:     TypeCache,
			Suggestions: []string{
				"Check permissions on the cache root (HAN_CACHE_DIR)",
			},
		},
	}
}

// uniqueStrings removes duplicate strings from a slice.
func uniqueStrings(strings []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, str := range strings {
		if !seen[str] {
			seen[str] = true
			result = append(result, str)
		}
	}

	return result
}

// AnalyzeError provides intelligent error analysis and suggestions for a
// raw error that did not originate from one of the taxonomy's typed
// constructors.
func AnalyzeError(err error) *HanError {
	if err == nil {
		return nil
	}

	if hanErr, ok := err.(*HanError); ok && hanErr.HasSuggestions() {
		return hanErr
	}

	engine := NewSuggestionEngine()
	suggestions := engine.GetSuggestions(err, nil)

	errType := TypeUnknown
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range engine.patterns {
		if pattern.Matches(errMsg) {
			errType = pattern.Type
			break
		}
	}

	if hanErr, ok := err.(*HanError); ok {
		hanErr.Suggestions = append(hanErr.Suggestions, suggestions...)
		if hanErr.Type == TypeUnknown {
			hanErr.Type = errType
		}
		return hanErr
	}

	return New(errType, err.Error(),
		WithError(err),
		WithSuggestions(suggestions...),
	)
}

// EnhanceError adds contextual suggestions to an error.
func EnhanceError(err error, context map[string]string) *HanError {
	if err == nil {
		return nil
	}

	hanErr := AnalyzeError(err)

	for k, v := range context {
		hanErr.AddContext(k, v)
	}

	engine := NewSuggestionEngine()
	contextSuggestions := engine.getContextSuggestions(context)

	hanErr.Suggestions = uniqueStrings(append(hanErr.Suggestions, contextSuggestions...))

	return hanErr
}
