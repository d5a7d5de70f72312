package crawler

import (
	"sync"

	"github.com/BrownsugarZeer/fivek-crawler/internal/fivek"
)

// Failures collects tasks that did not complete within a phase. It is
// appended to concurrently by workers and drained by the orchestrator
// between phases.
type Failures struct {
	mu    sync.Mutex
	tasks []fivek.Task
}

// Add records one failed task.
func (f *Failures) Add(t fivek.Task) {
	f.mu.Lock()
	f.tasks = append(f.tasks, t)
	f.mu.Unlock()
}

// Drain returns all recorded tasks and resets the list.
func (f *Failures) Drain() []fivek.Task {
	f.mu.Lock()
	tasks := f.tasks
	f.tasks = nil
	f.mu.Unlock()
	return tasks
}

// Len returns the number of recorded tasks.
func (f *Failures) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}
