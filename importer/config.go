package importer

import "time"

const (
	// DefaultBatchSize is the default number of records per batch
	DefaultBatchSize = 100

	// MaxBatchSize bounds a batch so one multi-row upsert stays within the
	// Postgres bind parameter limit.
	MaxBatchSize = 1000

	// TrainCheckpoint names the checkpoint written by Train.
	TrainCheckpoint = "train"
)

// Config holds configuration for import runs.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to write progress (number of records)
	ReportInterval int

	// BatchTimeout bounds the fetch, embed and upsert of a single batch
	BatchTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
		BatchTimeout:   30 * time.Second,
	}
}

func (c *Config) normalize() {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	c.BatchSize = min(c.BatchSize, MaxBatchSize)
	if c.ReportInterval <= 0 {
		c.ReportInterval = c.BatchSize
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 30 * time.Second
	}
}
