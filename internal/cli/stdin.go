package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// readStdinIfPiped reads in to completion and returns the bytes, unless
// in is the process's own standard input and that input is a terminal
// (§4.I, §6: "when stdin is not a terminal"). A cobra command under
// test injects its own reader via cmd.SetIn, which is always read in
// full regardless of terminal state.
func readStdinIfPiped(in io.Reader) []byte {
	if in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil
	}
	return data
}

// projectDir returns CLAUDE_PROJECT_DIR, or the current working
// directory if unset (§6).
func projectDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
