package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/cinevec/api"
	"github.com/poiesic/cinevec/catalog"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/importer"
	"github.com/poiesic/cinevec/metrics"
	"github.com/poiesic/cinevec/search"
	"github.com/urfave/cli/v2"
)

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, cfg, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := useLogFormat(c, cfg); err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}

	server, err := api.NewServer(db, cfg, api.WithMetrics(metrics.New()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return server.ListenAndServe(ctx)
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.String("file")
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	records, err := catalog.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, _, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "File: %s\n", path)
	fmt.Fprintf(os.Stderr, "Records: %d\n", len(records))
	fmt.Fprintln(os.Stderr)

	im := db.NewImporter(importer.WithProgressWriter(os.Stderr))
	result, err := im.ImportSources(ctx, records, nil)
	if err != nil {
		return fmt.Errorf("import failed: %w", resumeHint(err))
	}

	fmt.Printf("Imported %d records in %d batches\n", result.Processed, result.Batches)
	return nil
}

func trainCommand(c *cli.Context) error {
	ctx := context.Background()

	db, cfg, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Storage: %s\n", cfg.Storage.Driver)
	fmt.Fprintf(os.Stderr, "Encoder: %s\n", db.Embedder().Fingerprint())
	fmt.Fprintln(os.Stderr)

	im := db.NewImporter(importer.WithProgressWriter(os.Stderr))
	result, err := im.Train(ctx, importer.TrainOptions{
		Offset:    c.Int("offset"),
		BatchSize: c.Int("batch-size"),
		Clear:     c.Bool("clear"),
		Resume:    c.Bool("resume"),
	})
	if err != nil {
		return fmt.Errorf("training failed: %w", resumeHint(err))
	}

	fmt.Printf("Embedded %d records in %d batches (next offset %d of %d)\n",
		result.Processed, result.Batches, result.NextOffset, result.Total)
	return nil
}

// resumeHint adds the resume offset to batch failures.
func resumeHint(err error) error {
	var batchErr *importer.BatchError
	if errors.As(err, &batchErr) {
		return fmt.Errorf("%w (committed rows are kept; rerun with --resume or --offset %d)", err, batchErr.Offset)
	}
	return err
}

func recommendCommand(c *cli.Context) error {
	ctx := context.Background()

	db, cfg, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	recommender, err := db.NewRecommender()
	if err != nil {
		return err
	}

	limit := c.Int("limit")
	if limit <= 0 {
		limit = cfg.Recommend.DefaultLimit
	}

	criteria := core.Criteria{
		Type:     c.String("type"),
		Genre:    c.String("genre"),
		Tone:     c.String("tone"),
		Duration: c.String("duration"),
		Country:  c.String("country"),
	}

	var query string
	var results []*core.RankedResult
	if text := strings.Join(c.Args().Slice(), " "); text != "" {
		query = text
		filter := search.Filter{Type: criteria.Type, Genre: criteria.Genre}
		results, err = recommender.RecommendText(ctx, text, filter, limit, nil)
	} else {
		query, results, err = recommender.RecommendCriteria(ctx, criteria, limit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Query: %q\n", query)
	fmt.Printf("Found %d recommendations\n", len(results))
	for i, r := range results {
		fmt.Printf("%d: %s [%s] %s (%0.2f)\n", i+1, r.Title, r.Type, r.ShowID, r.Similarity)
	}
	return nil
}

func countCommand(c *cli.Context) error {
	ctx := context.Background()

	db, _, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	sources, err := db.SourceRepository().CountSources(ctx)
	if err != nil {
		return err
	}
	embeddings, err := db.EmbeddingRepository().CountEmbeddings(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d\n", importer.SourceTable, sources)
	fmt.Printf("%s: %d\n", importer.EmbeddingTable, embeddings)
	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	db, _, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EmbeddingRepository().ClearEmbeddings(ctx); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	if err := db.CheckpointRepository().DeleteCheckpoint(ctx, importer.TrainCheckpoint); err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	fmt.Printf("Cleared %s\n", importer.EmbeddingTable)

	if c.Bool("sources") {
		if err := db.SourceRepository().ClearSources(ctx); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
		fmt.Printf("Cleared %s\n", importer.SourceTable)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, _, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	total, err := db.SourceRepository().CountSources(ctx)
	if err != nil {
		return err
	}
	embedded, err := db.EmbeddingRepository().CountEmbeddings(ctx)
	if err != nil {
		return err
	}
	checkpoint, err := db.CheckpointRepository().LoadCheckpoint(ctx, importer.TrainCheckpoint)
	if err != nil {
		return err
	}

	fmt.Printf("Total:    %d\n", total)
	fmt.Printf("Embedded: %d\n", embedded)
	fmt.Printf("Pending:  %d\n", max(total-embedded, 0))
	fmt.Printf("Encoder:  %s\n", db.Embedder().Fingerprint())
	if checkpoint != nil {
		fmt.Printf("Training: offset %d of %d, updated %s", checkpoint.NextOffset, checkpoint.Total,
			checkpoint.UpdatedAt.Format("2006-01-02 15:04:05"))
		if checkpoint.Fingerprint != db.Embedder().Fingerprint() {
			fmt.Print(" (different encoder, retrain with --clear)")
		}
		fmt.Println()
	}
	return nil
}
