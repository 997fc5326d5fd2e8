// Package run implements the concurrency coordinator that fans one
// action's command out across its discovered target directories, caps
// parallelism, and aggregates each child's outcome back into a single
// result in target order.
//
//	c := run.NewCoordinator(executor, fingerprintCache, logger)
//	result := c.Run(ctx, targets, run.Options{
//	    Plugin: "eslint", Action: "lint",
//	    CommandTemplate: "eslint .", FailFast: true,
//	})
package run
