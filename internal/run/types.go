package run

import "time"

// Outcome is the result of running one action in one target directory
// (§3 ExecutionOutcome).
type Outcome struct {
	Directory string
	ExitCode  int
	Stdout    []byte
	Stderr    []byte
	Duration  time.Duration
	Skipped   bool
	Cancelled bool
}

// Result aggregates the Outcomes of one coordinator invocation, in the
// same order as the targets it was given, plus the action's overall
// exit code (§4.G).
type Result struct {
	Outcomes []Outcome
	ExitCode int
}

// Options configures one coordinator invocation: the command to spawn
// per directory and how it should be bounded and cached.
type Options struct {
	Plugin          string
	Action          string
	CommandTemplate string
	Env             []string
	Timeout         time.Duration
	Stdin           []byte
	FailFast        bool
	CacheEnabled    bool
	IfChanged       []string
}
