package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/cinevec/ai"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/vectorize"
)

// Observer receives the duration of every recommendation.
type Observer interface {
	ObserveRecommend(d time.Duration)
}

// Recommender turns recommendation requests into ranked results.
type Recommender struct {
	ranker   *Ranker
	embedder ai.Embedder
	observer Observer
	logger   *slog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recommender) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithObserver records recommendation latency.
func WithObserver(o Observer) Option {
	return func(r *Recommender) error {
		r.observer = o
		return nil
	}
}

// NewRecommender creates a new recommender.
func NewRecommender(ranker *Ranker, embedder ai.Embedder, opts ...Option) (*Recommender, error) {
	if ranker == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Recommender{
		ranker:   ranker,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RecommendVector ranks stored embeddings against a caller-supplied vector.
// The vector must have the encoder's dimension.
func (r *Recommender) RecommendVector(ctx context.Context, vector []float32, filter Filter, limit int) ([]*core.RankedResult, error) {
	if err := core.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if err := core.ValidateVector(vector, r.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidQuery, err)
	}
	defer r.observe(time.Now())

	return r.ranker.Rank(ctx, vector, filter, limit, nil)
}

// RecommendCriteria builds the query text from criteria, embeds it and ranks.
// The type and genre criteria also act as filters. Returns the query text
// alongside the results.
func (r *Recommender) RecommendCriteria(ctx context.Context, criteria core.Criteria, limit int) (string, []*core.RankedResult, error) {
	if err := core.ValidateCriteria(criteria); err != nil {
		return "", nil, err
	}
	query := vectorize.QueryText(criteria)
	filter := Filter{Type: criteria.Type, Genre: criteria.Genre}

	results, err := r.RecommendText(ctx, query, filter, limit, nil)
	if err != nil {
		return "", nil, err
	}
	return query, results, nil
}

// RecommendText embeds free text and ranks. The monitor may be nil.
func (r *Recommender) RecommendText(ctx context.Context, text string, filter Filter, limit int, monitor RankMonitor) ([]*core.RankedResult, error) {
	if err := core.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	defer r.observe(time.Now())

	monitor.Start(text, filter)

	vector, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", text, "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(vector)

	return r.ranker.Rank(ctx, vector, filter, limit, monitor)
}

func (r *Recommender) observe(start time.Time) {
	if r.observer != nil {
		r.observer.ObserveRecommend(time.Since(start))
	}
}
