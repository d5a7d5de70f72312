package crawler

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/BrownsugarZeer/fivek-crawler/internal/fetch"
	"github.com/BrownsugarZeer/fivek-crawler/internal/fivek"
	"github.com/BrownsugarZeer/fivek-crawler/internal/progress"
	"github.com/BrownsugarZeer/fivek-crawler/internal/storage"
)

// Options configures the crawler.
type Options struct {
	// Workers is the number of parallel download workers per phase.
	// Default: 5
	Workers int

	// Attempts is how many times a timed-out download is tried within
	// one submission before it is recorded as a failure.
	// Default: 3
	Attempts int

	// Politeness is the delay after each successful download.
	// Zero disables the delay; config.Default supplies 700ms.
	Politeness time.Duration

	// Progress enables the per-phase progress display.
	Progress bool

	// Output is where diagnostics and progress are written.
	// Default: os.Stderr
	Output io.Writer
}

// Crawler drives the worker pool over download tasks in phases: one
// bulk phase over every task, then cleanup phases over whatever failed,
// until a phase records zero failures.
type Crawler struct {
	client *fetch.Client
	dest   *storage.Dest
	opts   Options
}

// New creates a crawler downloading through client into dest.
func New(client *fetch.Client, dest *storage.Dest, opts Options) *Crawler {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	return &Crawler{
		client: client,
		dest:   dest,
		opts:   opts,
	}
}

// Run executes the bulk phase over tasks, then cleanup phases over the
// recorded failures of the previous phase. It returns once a phase
// finishes with an empty failure list, or when ctx is cancelled.
// Persistent failures keep the cleanup loop going; there is no retry
// cap across phases.
func (c *Crawler) Run(ctx context.Context, tasks []fivek.Task) error {
	for phase := 1; len(tasks) > 0; phase++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		failures := &Failures{}
		c.runPhase(ctx, phase, tasks, failures)
		tasks = failures.Drain()
	}
	return ctx.Err()
}

// runPhase submits every task to a fresh pool of Workers goroutines and
// blocks until all of them complete. Failed tasks land in failures.
func (c *Crawler) runPhase(ctx context.Context, phase int, tasks []fivek.Task, failures *Failures) {
	var reporter *progress.Reporter
	if c.opts.Progress {
		reporter = progress.NewReporter(progress.Options{
			Total:   len(tasks),
			Phase:   phase,
			Workers: c.opts.Workers,
			Output:  c.opts.Output,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	jobs := make(chan fivek.Task)
	var wg sync.WaitGroup

	for i := 0; i < c.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				c.download(ctx, task, failures, reporter)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, task := range tasks {
			select {
			case jobs <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
}

// download fetches one task. Timeouts are retried up to Attempts times
// with no backoff; the final timeout and every other error append the
// task to failures. A failed task may leave a partial object behind.
func (c *Crawler) download(ctx context.Context, task fivek.Task, failures *Failures, reporter *progress.Reporter) {
	if reporter != nil {
		reporter.TaskStarted()
	}

	for attempt := 1; ; attempt++ {
		err := c.fetchOne(ctx, task)
		if err == nil {
			c.politeness(ctx)
			if reporter != nil {
				reporter.TaskCompleted()
			}
			return
		}

		if ctx.Err() != nil {
			if reporter != nil {
				reporter.TaskFailed()
			}
			return
		}

		if fetch.IsTimeout(err) {
			if attempt < c.opts.Attempts {
				continue
			}
			fmt.Fprintf(c.opts.Output, "\n[fivek] %s: timeout, giving up after %d attempts\n",
				task.Name(), attempt)
		} else {
			fmt.Fprintf(c.opts.Output, "\n[fivek] %s: %v\n", task.Name(), err)
		}

		failures.Add(task)
		if reporter != nil {
			reporter.TaskFailed()
		}
		return
	}
}

// fetchOne streams one image from the dataset into the destination.
func (c *Crawler) fetchOne(ctx context.Context, task fivek.Task) error {
	body, err := c.client.Image(ctx, task.RemotePath)
	if err != nil {
		return err
	}
	defer body.Close()

	_, err = c.dest.Write(ctx, task.Key, body)
	return err
}

// politeness sleeps between successful downloads, honoring ctx.
func (c *Crawler) politeness(ctx context.Context) {
	if c.opts.Politeness <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.opts.Politeness):
	}
}
