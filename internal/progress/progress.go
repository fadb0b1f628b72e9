// Package progress renders a spinner and counter to stdout while a snapshot
// run executes its copy actions, so a long-running run on a big tree isn't
// silent. The classification (diff) phase reports no progress.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// Tracker reports progress of a bounded or unbounded unit-of-work count.
// Safe for concurrent Increment calls from multiple classification or copy
// workers.
type Tracker struct {
	total     int
	current   int
	stage     string
	mu        sync.Mutex
	startTime time.Time
	done      chan struct{}
	enabled   bool
}

// New starts a Tracker that renders stage alongside a live count, out of
// total when total is known (> 0) or as a running tally otherwise. When
// enabled is false (quiet mode, or stdout isn't a terminal), Increment and
// Finish still work but nothing is drawn.
func New(total int, stage string, enabled bool) *Tracker {
	t := &Tracker{
		total:     total,
		stage:     stage,
		startTime: time.Now(),
		done:      make(chan struct{}),
		enabled:   enabled,
	}
	if enabled {
		go t.render()
	}
	return t
}

func (t *Tracker) render() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := 0

	for {
		select {
		case <-t.done:
			t.mu.Lock()
			elapsed := time.Since(t.startTime)
			fmt.Printf("\r✓ %s (%d files, %s)          \n", t.stage, t.current, elapsed.Round(time.Millisecond))
			t.mu.Unlock()
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.total > 0 {
				percent := float64(t.current) / float64(t.total) * 100
				fmt.Printf("\r%s %s [%d/%d] %.0f%%  ", spinner[frame%len(spinner)], t.stage, t.current, t.total, percent)
			} else {
				fmt.Printf("\r%s %s [%d files]  ", spinner[frame%len(spinner)], t.stage, t.current)
			}
			t.mu.Unlock()
			frame++
		}
	}
}

// Increment advances the current count by one.
func (t *Tracker) Increment() {
	t.mu.Lock()
	t.current++
	t.mu.Unlock()
}

// Finish stops the render loop and prints a final summary line. A no-op
// beyond bookkeeping when the tracker was constructed with enabled=false.
func (t *Tracker) Finish() {
	if !t.enabled {
		return
	}
	close(t.done)
	time.Sleep(1 * time.Millisecond)
}
