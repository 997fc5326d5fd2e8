// Package cli builds the han cobra command tree: `han hook dispatch` and
// `han hook run`. It is a thin adapter over internal/dispatch and
// internal/run; dependency wiring is the internal/container package's job.
package cli
