package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Handler manages error display and formatting for the CLI surface.
type Handler struct {
	Writer      io.Writer
	Verbose     bool
	NoColor     bool
	ShowContext bool
}

// DefaultHandler creates a handler with default settings.
func DefaultHandler() *Handler {
	return &Handler{
		Writer:      os.Stderr,
		Verbose:     false,
		NoColor:     false,
		ShowContext: false,
	}
}

// Handle renders err to the handler's writer in the shape described in
// §7: a single line naming the failing plugin/action/directory and the
// cause, followed by suggestions and (in verbose mode) context. Returns
// the process exit code that should be used for err.
func (h *Handler) Handle(err error) int {
	if err == nil {
		return 0
	}

	hanErr, ok := err.(*HanError)
	if !ok {
		h.displayGenericError(err)
		return 1
	}

	h.displayError(hanErr)

	if hanErr.HasSuggestions() {
		h.displaySuggestions(hanErr.Suggestions)
	}

	if h.Verbose && len(hanErr.Context) > 0 {
		h.displayContext(hanErr.Context)
	}

	return hanErr.Code
}

// displayError shows the main error message.
func (h *Handler) displayError(err *HanError) {
	icon := h.getErrorIcon(err.Type)
	typeStr := h.getErrorTypeString(err.Type)

	var msg strings.Builder

	if h.NoColor {
		fmt.Fprintf(&msg, "%s %s: ", icon, typeStr)
	} else {
		fmt.Fprintf(&msg, "%s %s: ", icon, color.RedString(typeStr))
	}

	msg.WriteString(h.target(err))
	msg.WriteString(err.Message)

	fmt.Fprintln(h.Writer, msg.String())

	if h.Verbose && err.Err != nil {
		if h.NoColor {
			fmt.Fprintf(h.Writer, "  Underlying error: %v\n", err.Err)
		} else {
			fmt.Fprintf(h.Writer, "  %s: %v\n", color.HiBlackString("Underlying error"), err.Err)
		}
	}
}

// target renders "<plugin>/<action> @ <directory>: " from an error's
// context, per §7's user-visible failure shape, omitting fields that are
// not set.
func (h *Handler) target(err *HanError) string {
	plugin, hasPlugin := err.GetContext("plugin")
	action, hasAction := err.GetContext("action")
	dir, hasDir := err.GetContext("directory")

	var b strings.Builder
	if hasPlugin {
		b.WriteString(plugin)
		if hasAction {
			b.WriteString("/")
			b.WriteString(action)
		}
	}
	if hasDir {
		if b.Len() > 0 {
			b.WriteString(" @ ")
		}
		b.WriteString(dir)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	return b.String()
}

// displayGenericError shows a non-HanError error.
func (h *Handler) displayGenericError(err error) {
	if h.NoColor {
		fmt.Fprintf(h.Writer, "✗ Error: %v\n", err)
	} else {
		fmt.Fprintf(h.Writer, "%s %s: %v\n",
			color.RedString("✗"),
			color.RedString("Error"),
			err)
	}
}

// displaySuggestions shows helpful suggestions.
func (h *Handler) displaySuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintln(h.Writer)
	if h.NoColor {
		fmt.Fprintln(h.Writer, "Possible solutions:")
	} else {
		fmt.Fprintln(h.Writer, color.YellowString("Possible solutions:"))
	}

	for _, suggestion := range suggestions {
		if h.NoColor {
			fmt.Fprintf(h.Writer, "  • %s\n", suggestion)
		} else {
			fmt.Fprintf(h.Writer, "  • %s\n", color.YellowString(suggestion))
		}
	}
}

// displayContext shows additional context information.
func (h *Handler) displayContext(context map[string]string) {
	fmt.Fprintln(h.Writer)
	if h.NoColor {
		fmt.Fprintln(h.Writer, "Context:")
	} else {
		fmt.Fprintln(h.Writer, color.HiBlackString("Context:"))
	}

	for key, value := range context {
		if h.NoColor {
			fmt.Fprintf(h.Writer, "  %s: %s\n", key, value)
		} else {
			fmt.Fprintf(h.Writer, "  %s: %s\n",
				color.HiBlackString(key),
				value)
		}
	}
}

// getErrorIcon returns an appropriate icon for the error type.
func (h *Handler) getErrorIcon(errType ErrorType) string {
	switch errType {
	case TypePluginNotFound:
		return "🔌"
	case TypeManifest:
		return "📄"
	case TypeSpawn:
		return "💻"
	case TypeTimeout:
		return "⏱️"
	case TypeCache:
		return "🗃️"
	case TypeStdinForward:
		return "📥"
	case TypeConfig:
		return "⚙️"
	case TypeInvalid:
		return "⚠️"
	default:
		return "✗"
	}
}

// getErrorTypeString returns a human-readable error type.
func (h *Handler) getErrorTypeString(errType ErrorType) string {
	switch errType {
	case TypePluginNotFound:
		return "Plugin Not Found"
	case TypeManifest:
		return "Manifest Error"
	case TypeSpawn:
		return "Spawn Error"
	case TypeTimeout:
		return "Timeout"
	case TypeCache:
		return "Cache Error"
	case TypeStdinForward:
		return "Stdin Forward Error"
	case TypeConfig:
		return "Configuration Error"
	case TypeInvalid:
		return "Invalid Input"
	default:
		return "Error"
	}
}

// Print is a convenience function to handle an error with the default handler.
func Print(err error) int {
	return DefaultHandler().Handle(err)
}

// PrintVerbose handles an error with verbose output.
func PrintVerbose(err error) int {
	handler := DefaultHandler()
	handler.Verbose = true
	return handler.Handle(err)
}

// Exit handles an error and exits with the appropriate code.
func Exit(err error) {
	os.Exit(Print(err))
}

// ExitVerbose handles an error verbosely and exits.
func ExitVerbose(err error) {
	os.Exit(PrintVerbose(err))
}
