package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes an in-place progress line while a catalog run
// walks its products. Safe for concurrent Increment calls, though the
// reembedder drives it from a single goroutine today.
type ProgressTracker struct {
	mu sync.Mutex

	writer   io.Writer
	total    int
	interval int

	done      int
	threshold int
	startedAt time.Time
}

// NewProgressTracker reports to writer every interval products out of total.
func NewProgressTracker(writer io.Writer, total, interval int) *ProgressTracker {
	return &ProgressTracker{
		writer:   writer,
		total:    total,
		interval: interval,
	}
}

// Start resets the counters and the rate clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startedAt = time.Now()
	p.done = 0
	p.threshold = p.interval
}

// Increment records delta more processed products, emitting a progress
// line whenever the count crosses the reporting interval.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.startedAt.IsZero() {
		return
	}

	p.done += delta
	if p.done > p.total {
		p.done = p.total
	}
	if p.done >= p.threshold {
		p.report()
		p.threshold = p.done + p.interval
	}
}

// Finish forces the count to total and prints the closing line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.startedAt.IsZero() {
		return
	}

	p.done = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the wall time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.startedAt.IsZero() {
		return 0
	}
	return time.Since(p.startedAt)
}

// report holds p.mu.
func (p *ProgressTracker) report() {
	rate := float64(p.done) / time.Since(p.startedAt).Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f products/s",
		p.done, p.total, percentage, rate)
}
