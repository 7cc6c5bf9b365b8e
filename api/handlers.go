package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/importer"
	"github.com/poiesic/cinevec/search"
)

// maxPreviewLimit bounds a preview page.
const maxPreviewLimit = 1000

// actionFunc handles one action. The body has already been read.
type actionFunc func(ctx context.Context, r *http.Request, body []byte) (any, error)

func (s *Server) actions() map[string]actionFunc {
	return map[string]actionFunc{
		"create-table":            s.createTable,
		"create-embeddings-table": s.createEmbeddingsTable,
		"import":                  s.importRecords,
		"count":                   s.count,
		"preview":                 s.preview,
		"store-embeddings":        s.storeEmbeddings,
		"embedding-count":         s.embeddingCount,
		"clear-embeddings":        s.clearEmbeddings,
		"train":                   s.train,
		"recommend":               s.recommendVector,
		"recommend-text":          s.recommendText,
		"stats":                   s.stats,
		"options":                 s.options,
	}
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	name := r.URL.Query().Get("action")
	if name == "" && len(body) > 0 {
		var env actionEnvelope
		if err := json.Unmarshal(body, &env); err == nil {
			name = env.Action
		}
	}

	action, ok := s.actions()[name]
	if !ok {
		writeError(w, ErrInvalidAction)
		return
	}

	resp, err := action(r.Context(), r, body)
	if err != nil {
		s.logger.Warn("action failed", "action", name, "request_id", RequestID(r.Context()), "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createTable(ctx context.Context, _ *http.Request, _ []byte) (any, error) {
	if err := s.db.SourceRepository().EnsureSourceSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return messageResponse{Success: true, Message: fmt.Sprintf("table %s is ready", importer.SourceTable)}, nil
}

func (s *Server) createEmbeddingsTable(ctx context.Context, _ *http.Request, _ []byte) (any, error) {
	if err := s.db.EmbeddingRepository().EnsureEmbeddingSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to create embeddings table: %w", err)
	}
	return messageResponse{Success: true, Message: fmt.Sprintf("table %s is ready", importer.EmbeddingTable)}, nil
}

func (s *Server) importRecords(ctx context.Context, _ *http.Request, body []byte) (any, error) {
	var req importRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	records := make([]*core.SourceRecord, len(req.Records))
	for i, wire := range req.Records {
		records[i] = wire.record()
	}

	result, err := s.importer.ImportSources(ctx, records, nil)
	if err != nil {
		return nil, err
	}
	return importResponse{Success: true, Imported: result.Processed}, nil
}

func (s *Server) count(ctx context.Context, _ *http.Request, _ []byte) (any, error) {
	total, err := s.db.SourceRepository().CountSources(ctx)
	if err != nil {
		return nil, err
	}
	return countResponse{Success: true, Total: total}, nil
}

func (s *Server) preview(ctx context.Context, r *http.Request, _ []byte) (any, error) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), 10)
	if err != nil {
		return nil, err
	}
	if limit > maxPreviewLimit {
		return nil, fmt.Errorf("%w: limit must not exceed %d", core.ErrValidation, maxPreviewLimit)
	}
	offset, err := queryInt(q.Get("offset"), 0)
	if err != nil {
		return nil, err
	}

	records, err := s.db.SourceRepository().FetchSources(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*core.SourceRecord{}
	}
	return previewResponse{Success: true, Data: records}, nil
}

func (s *Server) storeEmbeddings(ctx context.Context, _ *http.Request, body []byte) (any, error) {
	var req storeEmbeddingsRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	result, err := s.importer.StoreEmbeddings(ctx, req.Embeddings, nil)
	if err != nil {
		return nil, err
	}
	return storeEmbeddingsResponse{Success: true, Stored: result.Processed}, nil
}

// embeddingCount reports 0 rather than failing when storage is unavailable.
func (s *Server) embeddingCount(ctx context.Context, _ *http.Request, _ []byte) (any, error) {
	count, err := s.db.EmbeddingRepository().CountEmbeddings(ctx)
	if err != nil {
		s.logger.Warn("failed to count embeddings", "err", err)
		count = 0
	}
	return embeddingCountResponse{Success: true, Count: count}, nil
}

func (s *Server) clearEmbeddings(ctx context.Context, _ *http.Request, _ []byte) (any, error) {
	if err := s.db.EmbeddingRepository().ClearEmbeddings(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear embeddings: %w", err)
	}
	// A checkpoint without embeddings would make a resumed run skip rows
	if err := s.db.CheckpointRepository().DeleteCheckpoint(ctx, importer.TrainCheckpoint); err != nil {
		return nil, fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return messageResponse{Success: true}, nil
}

func (s *Server) train(ctx context.Context, _ *http.Request, body []byte) (any, error) {
	var req trainRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	if !s.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer s.trainMu.Unlock()

	result, err := s.importer.Train(ctx, importer.TrainOptions{
		Offset:    req.Offset,
		BatchSize: req.BatchSize,
		Clear:     req.Clear,
		Resume:    req.Resume,
	})
	if err != nil {
		return nil, err
	}
	return trainResponse{
		Success:    true,
		Processed:  result.Processed,
		Batches:    result.Batches,
		NextOffset: result.NextOffset,
	}, nil
}

func (s *Server) recommendVector(ctx context.Context, _ *http.Request, body []byte) (any, error) {
	var req recommendRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	filter := search.Filter{Type: req.TypeFilter, Genre: req.GenreFilter}
	results, err := s.recommender.RecommendVector(ctx, req.Embedding, filter, s.limit(req.Limit))
	if err != nil {
		return nil, err
	}
	return recommendResponse{Recommendations: nonNil(results)}, nil
}

func (s *Server) recommendText(ctx context.Context, _ *http.Request, body []byte) (any, error) {
	var req recommendTextRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	query, results, err := s.recommender.RecommendCriteria(ctx, req.Criteria, s.limit(req.Limit))
	if err != nil {
		return nil, err
	}
	return recommendResponse{Query: query, Recommendations: nonNil(results)}, nil
}

func (s *Server) stats(ctx context.Context, _ *http.Request, _ []byte) (any, error) {
	total, err := s.db.SourceRepository().CountSources(ctx)
	if err != nil {
		return nil, err
	}
	embedded, err := s.db.EmbeddingRepository().CountEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	return statsResponse{
		Success:  true,
		Total:    total,
		Embedded: embedded,
		Pending:  max(total-embedded, 0),
	}, nil
}

func (s *Server) options(_ context.Context, _ *http.Request, _ []byte) (any, error) {
	return optionsResponse{Success: true, FilterOptions: core.DefaultFilterOptions()}, nil
}

func nonNil(results []*core.RankedResult) []*core.RankedResult {
	if results == nil {
		return []*core.RankedResult{}
	}
	return results
}
