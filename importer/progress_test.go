package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Percent(t *testing.T) {
	tests := []struct {
		processed, total, want int
	}{
		{100, 250, 40},
		{200, 250, 80},
		{250, 250, 100},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 100},
	}
	for _, tt := range tests {
		p := Progress{Processed: tt.processed, Total: tt.total}
		assert.Equal(t, tt.want, p.Percent(), "%d/%d", tt.processed, tt.total)
	}
}

func TestProgressTracker_Monotonic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)
	tracker.Start(0)

	tracker.Update(50)
	tracker.Update(20)
	tracker.Update(500)
	tracker.Finish()

	assert.Contains(t, buf.String(), "Progress: 50/100")
	assert.Contains(t, buf.String(), "Progress: 100/100 (100.0%)")
	assert.NotContains(t, buf.String(), "Progress: 20/100")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)
	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
