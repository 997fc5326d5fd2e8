package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHandler(t *testing.T) {
	handler := DefaultHandler()

	assert.NotNil(t, handler)
	assert.NotNil(t, handler.Writer)
	assert.False(t, handler.Verbose)
	assert.False(t, handler.NoColor)
	assert.False(t, handler.ShowContext)
}

func TestHandler_HandleNil(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{Writer: buf}

	exitCode := handler.Handle(nil)

	assert.Equal(t, 0, exitCode)
	assert.Empty(t, buf.String())
}

func TestHandler_HandleGenericError(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	err := fmt.Errorf("something went wrong")
	exitCode := handler.Handle(err)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, buf.String(), "Error")
	assert.Contains(t, buf.String(), "something went wrong")
}

func TestHandler_HandleHanError(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	err := NewSpawnError("/repo/pkg-a", fmt.Errorf("exec: not found"))
	exitCode := handler.Handle(err)

	assert.Equal(t, 127, exitCode)
	assert.Contains(t, buf.String(), "Spawn Error")
	assert.Contains(t, buf.String(), "/repo/pkg-a")
}

func TestHandler_HandleWithSuggestions(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	err := NewPluginNotFoundError("eslint", []string{"/a/plugins"})
	exitCode := handler.Handle(err)

	assert.Equal(t, 1, exitCode)
	output := buf.String()
	assert.Contains(t, output, "Plugin Not Found")
	assert.Contains(t, output, "eslint")
	assert.Contains(t, output, "Possible solutions:")
}

func TestHandler_HandleVerboseMode(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
		Verbose: true,
	}

	underlying := fmt.Errorf("underlying error")
	err := New(TypeConfig, "bad config", WithError(underlying))

	handler.Handle(err)

	output := buf.String()
	assert.Contains(t, output, "bad config")
	assert.Contains(t, output, "Underlying error")
	assert.Contains(t, output, "underlying error")
}

func TestHandler_HandleVerboseWithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
		Verbose: true,
	}

	err := NewSpawnError("/repo/pkg-a", fmt.Errorf("boom"))
	handler.Handle(err)

	output := buf.String()
	assert.Contains(t, output, "Spawn Error")
	assert.Contains(t, output, "Context:")
	assert.Contains(t, output, "directory:")
	assert.Contains(t, output, "/repo/pkg-a")
}

func TestHandler_HandleNoContextWhenNotVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
		Verbose: false,
	}

	err := NewSpawnError("/repo/pkg-a", fmt.Errorf("boom"))
	handler.Handle(err)

	output := buf.String()
	assert.Contains(t, output, "/repo/pkg-a")
	assert.NotContains(t, output, "Context:")
}

func TestHandler_Target(t *testing.T) {
	handler := DefaultHandler()

	err := NewManifestError("eslint", "lint", "missing command")
	assert.Equal(t, "eslint/lint: ", handler.target(err))

	err2 := NewSpawnError("/repo/pkg-a", nil)
	assert.Equal(t, "/repo/pkg-a: ", handler.target(err2))

	err3 := &HanError{Context: map[string]string{"plugin": "eslint", "action": "lint", "directory": "/repo/pkg-a"}}
	assert.Equal(t, "eslint/lint @ /repo/pkg-a: ", handler.target(err3))
}

func TestHandler_GetErrorIcon(t *testing.T) {
	handler := DefaultHandler()

	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{"plugin not found", TypePluginNotFound, "🔌"},
		{"manifest", TypeManifest, "📄"},
		{"spawn", TypeSpawn, "💻"},
		{"timeout", TypeTimeout, "⏱️"},
		{"cache", TypeCache, "🗃️"},
		{"stdin forward", TypeStdinForward, "📥"},
		{"config", TypeConfig, "⚙️"},
		{"invalid", TypeInvalid, "⚠️"},
		{"unknown", TypeUnknown, "✗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			icon := handler.getErrorIcon(tt.errType)
			assert.Equal(t, tt.expected, icon)
		})
	}
}

func TestHandler_GetErrorTypeString(t *testing.T) {
	handler := DefaultHandler()

	tests := []struct {
		errType  ErrorType
		expected string
	}{
		{TypePluginNotFound, "Plugin Not Found"},
		{TypeManifest, "Manifest Error"},
		{TypeSpawn, "Spawn Error"},
		{TypeTimeout, "Timeout"},
		{TypeCache, "Cache Error"},
		{TypeStdinForward, "Stdin Forward Error"},
		{TypeConfig, "Configuration Error"},
		{TypeInvalid, "Invalid Input"},
		{TypeUnknown, "Error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			result := handler.getErrorTypeString(tt.errType)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHandler_DisplaySuggestionsEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	handler.displaySuggestions([]string{})
	assert.Empty(t, buf.String())
}

func TestHandler_DisplaySuggestions(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	suggestions := []string{
		"Check the logs",
		"Increase the action's timeoutMs",
	}

	handler.displaySuggestions(suggestions)

	output := buf.String()
	assert.Contains(t, output, "Possible solutions:")
	assert.Contains(t, output, "Check the logs")
	assert.Contains(t, output, "timeoutMs")
}

func TestHandler_DisplayContext(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	context := map[string]string{
		"plugin":    "eslint",
		"action":    "lint",
		"directory": "/repo/pkg-a",
	}

	handler.displayContext(context)

	output := buf.String()
	assert.Contains(t, output, "Context:")
	assert.Contains(t, output, "plugin:")
	assert.Contains(t, output, "eslint")
	assert.Contains(t, output, "directory:")
	assert.Contains(t, output, "/repo/pkg-a")
}

func TestHandler_WithColor(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: false, // Enable color
	}

	err := NewSpawnError("/repo/pkg-a", fmt.Errorf("boom"))
	handler.Handle(err)

	assert.NotEmpty(t, buf.String())
}

func TestPrint(t *testing.T) {
	exitCode := Print(nil)
	assert.Equal(t, 0, exitCode)

	err := NewTimeoutError("/dir", time.Second)
	exitCode = Print(err)
	assert.Equal(t, 124, exitCode)
}

func TestPrintVerbose(t *testing.T) {
	exitCode := PrintVerbose(nil)
	assert.Equal(t, 0, exitCode)

	underlying := fmt.Errorf("underlying")
	err := New(TypeConfig, "test", WithError(underlying))
	exitCode = PrintVerbose(err)
	assert.Equal(t, 1, exitCode)
}

func TestHandler_ExitCodes(t *testing.T) {
	tests := []struct {
		name         string
		err          *HanError
		expectedCode int
	}{
		{
			name:         "plugin not found",
			err:          NewPluginNotFoundError("eslint", nil),
			expectedCode: 1,
		},
		{
			name:         "spawn error",
			err:          NewSpawnError("/dir", nil),
			expectedCode: 127,
		},
		{
			name:         "timeout error",
			err:          NewTimeoutError("/dir", time.Second),
			expectedCode: 124,
		},
		{
			name:         "cache error",
			err:          NewCacheError("/dir", nil),
			expectedCode: 0,
		},
		{
			name:         "custom exit code",
			err:          New(TypeUnknown, "test", WithExitCode(99)),
			expectedCode: 99,
		},
		{
			name:         "default exit code",
			err:          New(TypeUnknown, "test"),
			expectedCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := &Handler{Writer: buf, NoColor: true}

			exitCode := handler.Handle(tt.err)
			assert.Equal(t, tt.expectedCode, exitCode)
		})
	}
}

func TestHandler_DisplayGenericError(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	err := fmt.Errorf("generic error message")
	handler.displayGenericError(err)

	output := buf.String()
	assert.Contains(t, output, "✗")
	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "generic error message")
}

func TestHandler_ComplexErrorChain(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
		Verbose: true,
	}

	underlying := fmt.Errorf("root cause")
	wrapped := NewSpawnError("/repo/pkg-a", underlying)
	wrapped.AddSuggestion("Check the command template")
	wrapped.AddContext("plugin", "eslint")

	exitCode := handler.Handle(wrapped)

	output := buf.String()
	assert.Equal(t, 127, exitCode)
	assert.Contains(t, output, "Spawn Error")
	assert.Contains(t, output, "Underlying error")
	assert.Contains(t, output, "root cause")
	assert.Contains(t, output, "Possible solutions:")
	assert.Contains(t, output, "Check the command template")
	assert.Contains(t, output, "Context:")
	assert.Contains(t, output, "plugin:")
	assert.Contains(t, output, "eslint")
}

func TestHandler_MultipleSuggestionsFormatting(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := &Handler{
		Writer:  buf,
		NoColor: true,
	}

	err := NewTimeoutError("/dir", time.Second)
	err.AddSuggestion("Increase timeoutMs")
	err.AddSuggestion("Check for a blocking read")

	handler.Handle(err)

	output := buf.String()
	lines := strings.Split(output, "\n")

	bulletCount := 0
	for _, line := range lines {
		if strings.Contains(line, "•") {
			bulletCount++
		}
	}

	assert.True(t, bulletCount >= 2, "Should have at least 2 bullet points")
}
