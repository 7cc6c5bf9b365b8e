package search

import "github.com/poiesic/cinevec/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results.
type RankMonitor interface {
	Start(query string, filter Filter)
	AfterEmbedding(vector []float32)
	AfterScan(scanned, matched, skipped int)
	Finish(results []*core.RankedResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Filter)           {}
func (n *noopMonitor) AfterEmbedding(_ []float32)         {}
func (n *noopMonitor) AfterScan(_, _, _ int)              {}
func (n *noopMonitor) Finish(_ []*core.RankedResult)      {}
