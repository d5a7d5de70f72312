package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestReporterCounters(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{Total: 10, Phase: 1, Workers: 3, Output: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.TaskStarted()
			if i%5 == 0 {
				r.TaskFailed()
			} else {
				r.TaskCompleted()
			}
		}(i)
	}
	wg.Wait()

	if r.Completed() != 8 {
		t.Errorf("expected 8 completed, got %d", r.Completed())
	}
	if r.Failed() != 2 {
		t.Errorf("expected 2 failed, got %d", r.Failed())
	}
}

func TestReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{Total: 2, Phase: 3, Workers: 1, Output: &buf})

	r.Start()
	r.TaskStarted()
	r.TaskCompleted()
	r.TaskStarted()
	r.TaskCompleted()
	r.Stop()

	out := buf.String()
	if !strings.Contains(out, "[fivek] Phase 3: 2 files | Workers: 1") {
		t.Errorf("missing header in output: %q", out)
	}
	if !strings.Contains(out, "2/2 done") {
		t.Errorf("missing final status in output: %q", out)
	}
}

func TestReporterStopTwice(t *testing.T) {
	r := NewReporter(Options{Total: 1, Phase: 1, Workers: 1, Output: &bytes.Buffer{}})
	r.Start()
	r.Stop()
	r.Stop()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3h 4m 5s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.input); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
