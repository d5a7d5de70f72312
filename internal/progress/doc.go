// Package progress provides per-phase progress reporting for downloads.
//
// This package outputs human-readable progress information, including
// per-phase completion counts and recorded failures.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    Total:   len(tasks),
//	    Phase:   1,
//	    Workers: 5,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as tasks finish
//	reporter.TaskCompleted()
//
// # Output Format
//
//	[fivek] Phase 1: 55 files | Workers: 5
//	[fivek] Phase 1: 42/55 done | 2 failed | 5 in-flight | 6 pending
package progress
