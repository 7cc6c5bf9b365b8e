// Package config loads cinevec settings from defaults, an optional YAML file
// and CINEVEC_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/cinevec/ai"
	"github.com/poiesic/cinevec/importer"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

// Log formats accepted by LoggingConfig.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the full cinevec configuration.
type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Encoder   EncoderConfig   `koanf:"encoder"`
	Import    ImportConfig    `koanf:"import"`
	Server    ServerConfig    `koanf:"server"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// StorageConfig selects and locates the storage backend.
type StorageConfig struct {
	Driver          string        `koanf:"driver"`
	Path            string        `koanf:"path"`
	InMemory        bool          `koanf:"in_memory"`
	DSN             string        `koanf:"dsn"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectDelay    time.Duration `koanf:"connect_delay"`
}

// EncoderConfig mirrors ai.Config.
type EncoderConfig struct {
	InputWidth int    `koanf:"input_width"`
	Transform  string `koanf:"transform"`
	Seed       string `koanf:"seed"`
	PoolSize   int    `koanf:"pool_size"`
	BatchSize  int    `koanf:"batch_size"`
}

// ImportConfig controls batch imports.
type ImportConfig struct {
	BatchSize      int           `koanf:"batch_size"`
	ReportInterval int           `koanf:"report_interval"`
	BatchTimeout   time.Duration `koanf:"batch_timeout"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr           string        `koanf:"addr"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	CORSOrigin     string        `koanf:"cors_origin"`
	// RateLimit is requests per minute per client IP. 0 disables limiting.
	RateLimit int `koanf:"rate_limit"`
}

// RecommendConfig bounds recommendation result sizes.
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	enc := ai.DefaultConfig()
	imp := importer.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			Driver:          DriverBadger,
			Path:            "cinevec.db",
			ConnectAttempts: 5,
			ConnectDelay:    time.Second,
		},
		Encoder: EncoderConfig{
			InputWidth: enc.InputWidth,
			Transform:  enc.Transform,
			Seed:       enc.Seed,
			PoolSize:   enc.PoolSize,
			BatchSize:  enc.BatchSize,
		},
		Import: ImportConfig{
			BatchSize:      imp.BatchSize,
			ReportInterval: imp.ReportInterval,
			BatchTimeout:   imp.BatchTimeout,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			CORSOrigin:     "*",
		},
		Recommend: RecommendConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Validate checks that every section is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverBadger:
		if c.Storage.Path == "" && !c.Storage.InMemory {
			errs = append(errs, errors.New("storage.path is required unless storage.in_memory is set"))
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for the postgres driver"))
		}
		if c.Storage.ConnectAttempts < 1 {
			errs = append(errs, errors.New("storage.connect_attempts must be at least 1"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of badger, postgres", c.Storage.Driver))
	}

	if err := c.AI().Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Import.BatchSize < 1 {
		errs = append(errs, errors.New("import.batch_size must be at least 1"))
	}
	if c.Import.BatchSize > importer.MaxBatchSize {
		errs = append(errs, fmt.Errorf("import.batch_size must not exceed %d", importer.MaxBatchSize))
	}
	if c.Import.BatchTimeout < 0 {
		errs = append(errs, errors.New("import.batch_timeout cannot be negative"))
	}

	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit cannot be negative"))
	}

	if c.Recommend.DefaultLimit < 1 {
		errs = append(errs, errors.New("recommend.default_limit must be at least 1"))
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		errs = append(errs, errors.New("recommend.max_limit must not be below recommend.default_limit"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Logging.Format != FormatText && c.Logging.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// AI converts the encoder section into an ai.Config.
func (c *Config) AI() *ai.Config {
	return ai.NewConfig(
		ai.WithInputWidth(c.Encoder.InputWidth),
		ai.WithTransform(c.Encoder.Transform),
		ai.WithSeed(c.Encoder.Seed),
		ai.WithPoolSize(c.Encoder.PoolSize),
		ai.WithBatchSize(c.Encoder.BatchSize),
	)
}

// ImporterConfig converts the import section into an importer.Config.
func (c *Config) ImporterConfig() *importer.Config {
	return &importer.Config{
		BatchSize:      c.Import.BatchSize,
		ReportInterval: c.Import.ReportInterval,
		BatchTimeout:   c.Import.BatchTimeout,
	}
}
