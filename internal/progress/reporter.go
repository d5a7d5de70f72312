package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Total is the number of tasks in this phase.
	Total int

	// Phase is the 1-based phase number (1 = bulk, 2+ = cleanup).
	Phase int

	// Workers is the number of parallel workers.
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable per-phase progress information.
type Reporter struct {
	opts Options

	completed atomic.Int32
	failed    atomic.Int32
	inFlight  atomic.Int32
	startTime time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	fmt.Fprintf(r.opts.Output, "[fivek] Phase %d: %d files | Workers: %d\n",
		r.opts.Phase, r.opts.Total, r.opts.Workers)

	go r.updateLoop()
}

// Stop stops the progress reporter and prints the final status. It
// returns after the final status has been written, so a subsequent
// phase cannot interleave its header with this phase's summary.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

// TaskStarted marks a task as in flight.
func (r *Reporter) TaskStarted() {
	r.inFlight.Add(1)
}

// TaskCompleted marks a task as downloaded.
func (r *Reporter) TaskCompleted() {
	r.completed.Add(1)
	r.inFlight.Add(-1)
}

// TaskFailed marks a task as recorded for the next cleanup phase.
func (r *Reporter) TaskFailed() {
	r.failed.Add(1)
	r.inFlight.Add(-1)
}

// Completed returns the number of completed tasks.
func (r *Reporter) Completed() int {
	return int(r.completed.Load())
}

// Failed returns the number of recorded failures.
func (r *Reporter) Failed() int {
	return int(r.failed.Load())
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	completed := int(r.completed.Load())
	failed := int(r.failed.Load())
	inFlight := int(r.inFlight.Load())

	pending := r.opts.Total - completed - failed - inFlight
	if pending < 0 {
		pending = 0
	}

	fmt.Fprintf(r.opts.Output, "\r[fivek] Phase %d: %d/%d done | %d failed | %d in-flight | %d pending    ",
		r.opts.Phase, completed, r.opts.Total, failed, inFlight, pending)
}

// printFinalStatus outputs the final status for the phase.
func (r *Reporter) printFinalStatus() {
	completed := int(r.completed.Load())
	failed := int(r.failed.Load())
	duration := time.Since(r.startTime)

	fmt.Fprintf(r.opts.Output, "\r[fivek] Phase %d: %d/%d done | %d failed | %s    \n",
		r.opts.Phase, completed, r.opts.Total, failed, formatDuration(duration))
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
