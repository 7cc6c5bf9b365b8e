package search

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/storage"
	"github.com/poiesic/cinevec/vectorize"
)

// Ranker scores stored embeddings against a query vector.
type Ranker struct {
	repo   storage.EmbeddingRepository
	logger *slog.Logger
}

// NewRanker creates a ranker over repo.
func NewRanker(repo storage.EmbeddingRepository, logger *slog.Logger) (*Ranker, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{repo: repo, logger: logger}, nil
}

type scored struct {
	record *core.EmbeddingRecord
	score  float32
}

// Rank returns the k best matches for query among records passing filter.
// An all-zero query yields an empty result. Stored vectors whose dimension
// differs from the query are skipped.
func (r *Ranker) Rank(ctx context.Context, query []float32, filter Filter, k int, monitor RankMonitor) ([]*core.RankedResult, error) {
	if err := core.ValidateLimit(k); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if vectorize.IsZero(query) {
		r.logger.Debug("zero query vector, nothing to rank")
		results := []*core.RankedResult{}
		monitor.Finish(results)
		return results, nil
	}

	// Scan order is show_id order, so a stable sort keeps ties in key order.
	var candidates []scored
	scanned, skipped := 0, 0
	err := r.repo.ScanEmbeddings(ctx, func(record *core.EmbeddingRecord) error {
		scanned++
		if len(record.Embedding) != len(query) {
			skipped++
			return nil
		}
		if !filter.Matches(record) {
			return nil
		}
		candidates = append(candidates, scored{
			record: record,
			score:  vectorize.Dot(query, record.Embedding),
		})
		return nil
	})
	if err != nil {
		r.logger.Error("error scanning embeddings", "err", err)
		return nil, err
	}
	if skipped > 0 {
		r.logger.Warn("skipped embeddings with a different dimension", "skipped", skipped, "dimension", len(query))
	}
	monitor.AfterScan(scanned, len(candidates), skipped)

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]*core.RankedResult, len(candidates))
	for i, c := range candidates {
		results[i] = &core.RankedResult{
			ShowID:      c.record.ShowID,
			Title:       c.record.Title,
			Type:        c.record.Type,
			ListedIn:    c.record.ListedIn,
			Description: c.record.Description,
			Similarity:  roundSimilarity(c.score),
		}
	}
	monitor.Finish(results)
	return results, nil
}

// roundSimilarity rounds to the hundredth and clamps to [0,1].
func roundSimilarity(score float32) float64 {
	rounded := math.Round(float64(score)*100) / 100
	return math.Max(0, math.Min(1, rounded))
}
