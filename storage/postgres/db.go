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


package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const driverName = "postgres"

// Config holds connection settings.
type Config struct {
	DSN             string
	ConnectAttempts int
	ConnectDelay    time.Duration
	MaxOpenConns    int
}

// Backend wraps a PostgreSQL connection pool shared by the repositories.
type Backend struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL, retrying the initial ping with backoff.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	db, err := sqlx.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	err = RetryWithBackoff(ctx, func() error {
		return db.PingContext(ctx)
	}, attempts, cfg.ConnectDelay)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewBackend(db), nil
}

// NewBackend wraps an existing connection pool.
func NewBackend(db *sqlx.DB) *Backend {
	return &Backend{
		db:     db,
		logger: slog.Default().With("component", "postgres"),
	}
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	return b.db.Close()
}

// EnsureSchema creates every table the repositories use.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createSourceTable, createEmbeddingTable, createCheckpointTable} {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Repositories groups the repositories sharing one backend.
type Repositories struct {
	Sources     *SourceRepository
	Embeddings  *EmbeddingRepository
	Checkpoints *CheckpointRepository
}

// NewRepositories creates every repository on backend.
func NewRepositories(backend *Backend) *Repositories {
	return &Repositories{
		Sources:     &SourceRepository{backend: backend},
		Embeddings:  &EmbeddingRepository{backend: backend},
		Checkpoints: &CheckpointRepository{backend: backend},
	}
}
