// Package cache implements the fingerprint-based cache that lets the
// coordinator skip a directory's execution when its declared input
// files have not changed since the last successful run.
//
//	triple := cache.Triple{Plugin: "eslint", Action: "lint", Directory: dir}
//	run, fp := fc.ShouldRun(triple, []string{"*.ts"})
//	if !run {
//	    return skippedOutcome
//	}
//	// ... execute ...
//	fc.Commit(triple, fp)
package cache
