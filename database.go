// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cinevec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/cinevec/ai"
	"github.com/poiesic/cinevec/ai/local"
	"github.com/poiesic/cinevec/config"
	"github.com/poiesic/cinevec/importer"
	"github.com/poiesic/cinevec/search"
	"github.com/poiesic/cinevec/storage"
	"github.com/poiesic/cinevec/storage/badger"
	"github.com/poiesic/cinevec/storage/postgres"
)

// Database wires a storage backend, its repositories and the local embedder.
type Database struct {
	backend        io.Closer
	sourceRepo     storage.SourceRepository
	embeddingRepo  storage.EmbeddingRepository
	checkpointRepo storage.CheckpointRepository
	embedder       ai.Embedder
	closeEmbedder  func() error
	importConfig   *importer.Config
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	importConfig *importer.Config
	embedder     ai.Embedder
	logger       *slog.Logger
}

// WithAIConfig sets the encoder configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithImportConfig sets the batch configuration used by NewImporter.
func WithImportConfig(cfg *importer.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.importConfig = cfg
	}
}

// WithEmbedder replaces the local embedder. The Database does not close it.
func WithEmbedder(e ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = e
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens a BadgerDB database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return newBadgerDatabase(backend, opts...)
}

// NewMemoryDatabase opens an in-memory BadgerDB database.
func NewMemoryDatabase(opts ...DatabaseOption) (*Database, error) {
	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newBadgerDatabase(backend, opts...)
}

// OpenDatabase opens the backend selected by cfg.Storage and configures the
// encoder and importer from the rest of cfg.
func OpenDatabase(ctx context.Context, cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	opts = append([]DatabaseOption{
		WithAIConfig(cfg.AI()),
		WithImportConfig(cfg.ImporterConfig()),
	}, opts...)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		backend, err := postgres.Open(ctx, postgres.Config{
			DSN:             cfg.Storage.DSN,
			ConnectAttempts: cfg.Storage.ConnectAttempts,
			ConnectDelay:    cfg.Storage.ConnectDelay,
		})
		if err != nil {
			return nil, err
		}
		if err := backend.EnsureSchema(ctx); err != nil {
			backend.Close()
			return nil, err
		}
		repos := postgres.NewRepositories(backend)
		return newDatabase(backend, repos.Sources, repos.Embeddings, repos.Checkpoints, opts...)
	case config.DriverBadger:
		if cfg.Storage.InMemory {
			return NewMemoryDatabase(opts...)
		}
		return NewDatabase(cfg.Storage.Path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.Storage.Driver)
	}
}

func newBadgerDatabase(backend *badger.Backend, opts ...DatabaseOption) (*Database, error) {
	repos := badger.NewRepositories(backend)
	return newDatabase(backend, repos.Sources, repos.Embeddings, repos.Checkpoints, opts...)
}

func newDatabase(
	backend io.Closer,
	sources storage.SourceRepository,
	embeddings storage.EmbeddingRepository,
	checkpoints storage.CheckpointRepository,
	opts ...DatabaseOption,
) (*Database, error) {
	options := &databaseOptions{
		aiConfig:     ai.DefaultConfig(),
		importConfig: importer.DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	db := &Database{
		backend:        backend,
		sourceRepo:     sources,
		embeddingRepo:  embeddings,
		checkpointRepo: checkpoints,
		embedder:       options.embedder,
		importConfig:   options.importConfig,
		logger:         options.logger,
	}
	if db.embedder == nil {
		embedder, err := local.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
		db.embedder = embedder
		if closer, ok := embedder.(io.Closer); ok {
			db.closeEmbedder = closer.Close
		}
	}
	return db, nil
}

// Close releases the embedder, the repositories and the backend.
func (db *Database) Close() error {
	var errs []error

	// Injected embedders are owned by the caller
	if db.closeEmbedder != nil {
		if err := db.closeEmbedder(); err != nil {
			db.logger.Error("error closing embedder", "err", err)
			errs = append(errs, err)
		}
	}

	for _, repo := range []storage.Repository{db.embeddingRepo, db.sourceRepo} {
		if err := repo.Close(); err != nil {
			db.logger.Error("error closing repository", "err", err)
			errs = append(errs, err)
		}
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// EnsureSchema creates the source and embeddings tables.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if err := db.sourceRepo.EnsureSourceSchema(ctx); err != nil {
		return err
	}
	return db.embeddingRepo.EnsureEmbeddingSchema(ctx)
}

func (db *Database) SourceRepository() storage.SourceRepository {
	return db.sourceRepo
}

func (db *Database) EmbeddingRepository() storage.EmbeddingRepository {
	return db.embeddingRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

// Embedder returns the embedder shared by imports and queries.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

func (db *Database) NewImporter(opts ...importer.Option) *importer.Importer {
	opts = append([]importer.Option{importer.WithLogger(db.logger)}, opts...)
	return importer.NewImporter(db.sourceRepo, db.embeddingRepo, db.checkpointRepo, db.embedder, db.importConfig, opts...)
}

func (db *Database) NewRecommender(opts ...search.Option) (*search.Recommender, error) {
	ranker, err := search.NewRanker(db.embeddingRepo, db.logger)
	if err != nil {
		return nil, err
	}
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewRecommender(ranker, db.embedder, opts...)
}
