package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/cinevec"
	"github.com/poiesic/cinevec/catalog"
	"github.com/poiesic/cinevec/core"
	"github.com/poiesic/cinevec/importer"
)

var (
	seedFileName = flag.String("src", "", "CSV file of seed data")
	dbPath       = flag.String("db", "./catalog_db", "path to BadgerDB database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// recordsFromFile returns an iterator over the rows of a CSV export.
// Iteration stops at the first malformed row, which is yielded as an error.
func recordsFromFile(filename string) (iter.Seq2[*core.SourceRecord, error], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	reader, err := catalog.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return func(yield func(*core.SourceRecord, error) bool) {
		defer f.Close()
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(record, err) || err != nil {
				return
			}
		}
	}, nil
}

// recordsFromSlice returns an iterator over a slice of records.
func recordsFromSlice(records []*core.SourceRecord) iter.Seq2[*core.SourceRecord, error] {
	return func(yield func(*core.SourceRecord, error) bool) {
		for _, record := range records {
			if !yield(record, nil) {
				return
			}
		}
	}
}

// importBatched reads from a source iterator and imports records in batches.
func importBatched(ctx context.Context, im *importer.Importer, source iter.Seq2[*core.SourceRecord, error], batchSize int) (int, error) {
	batch := make([]*core.SourceRecord, 0, batchSize)
	imported := 0

	flush := func() error {
		result, err := im.ImportSources(ctx, batch, nil)
		if err != nil {
			return err
		}
		imported += result.Processed
		batch = batch[:0]
		return nil
	}

	for record, err := range source {
		if err != nil {
			return imported, err
		}
		batch = append(batch, record)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return imported, err
			}
		}
	}

	// Import any remaining records
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return imported, err
		}
	}

	return imported, nil
}

func main() {
	db, err := cinevec.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	im := db.NewImporter()

	// Determine source of seed data
	var source iter.Seq2[*core.SourceRecord, error]
	if seedFileName != nil && *seedFileName != "" {
		source, err = recordsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = recordsFromSlice(catalog.Sample())
	}

	imported, err := importBatched(ctx, im, source, importer.DefaultBatchSize)
	if err != nil {
		panic(err)
	}
	slog.Info("catalog seeded", "records", imported)

	result, err := im.Train(ctx, importer.TrainOptions{Clear: true})
	if err != nil {
		panic(err)
	}
	slog.Info("embeddings trained", "records", result.Processed, "encoder", db.Embedder().Fingerprint())
}
