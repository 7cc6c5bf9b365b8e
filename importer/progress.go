package importer

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"
)

// Progress is a snapshot reported after each committed batch.
type Progress struct {
	Table     string
	Processed int
	Total     int
	Batches   int
}

// Percent returns processed/total as a rounded percentage, or 100 for an empty total.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return int(math.Round(float64(p.Processed) / float64(p.Total) * 100))
}

// Ratio returns processed/total clamped to [0,1].
func (p Progress) Ratio() float64 {
	if p.Total <= 0 {
		return 1
	}
	return math.Min(float64(p.Processed)/float64(p.Total), 1)
}

// ProgressFunc receives progress snapshots.
type ProgressFunc func(Progress)

// ProgressTracker tracks and reports progress of import runs.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (nil discards it)
// total: total number of items to process
// reportInterval: report progress every N items
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress at the given count.
func (p *ProgressTracker) Start(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = current
	p.lastReported = current
}

// Update sets the current progress. Values never move backwards.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	current = min(current, p.total)
	if current < p.current {
		return
	}
	p.current = current

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints final progress.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f records/s",
		p.current, p.total, percentage, rate)
}
