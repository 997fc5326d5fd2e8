// Package dispatch implements the lifecycle-event entry point: it
// resolves the enabled plugins and inline settings actions bound to an
// event, runs each through the concurrency coordinator, and aggregates
// their outcomes into a single exit code and combined output.
//
//	agg := dispatcher.Dispatch(ctx, "Stop", stdin, dispatch.Options{})
//	os.Exit(agg.ExitCode)
package dispatch
