// Package crawler orchestrates parallel image downloads in phases.
//
// A phase submits a batch of tasks to a fixed-size pool of workers and
// blocks until every task completes. Workers retry timed-out downloads
// up to three times within a submission; exhausted timeouts and every
// other request error append the task to a shared failure list. After
// each phase the list is drained and, if non-empty, resubmitted as the
// next cleanup phase. The run ends when a phase records no failures.
//
// # Usage
//
//	c := crawler.New(client, dest, crawler.Options{
//	    Workers:    5,
//	    Politeness: 700 * time.Millisecond,
//	    Progress:   true,
//	})
//	err := c.Run(ctx, tasks)
//
// Worker errors never surface as Run errors; they are converted into
// failure-list entries and retried next phase. Run only returns an
// error when its context is cancelled.
package crawler
