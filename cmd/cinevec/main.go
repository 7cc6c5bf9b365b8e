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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/cinevec"
	"github.com/poiesic/cinevec/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cinevec",
		Usage: "Content-based movie and series recommendations from catalog text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{config.PathEnvVar},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP action API",
				Action: serveCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides server.addr)",
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Import catalog records from a CSV export",
				Action: importCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "CSV file with a header row",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to upsert in each batch (overrides import.batch_size)",
					},
				),
			},
			{
				Name:   "train",
				Usage:  "Compute embeddings for every catalog record",
				Action: trainCommand,
				Flags: append(storageFlags(),
					&cli.IntFlag{
						Name:  "offset",
						Usage: "First catalog row to embed",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to embed in each batch (overrides import.batch_size)",
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Remove stored embeddings and progress before starting",
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Continue from the last committed batch",
					},
				),
			},
			{
				Name:      "recommend",
				Usage:     "Recommend titles for free text or criteria",
				ArgsUsage: "[text...]",
				Action:    recommendCommand,
				Flags: append(storageFlags(),
					&cli.StringFlag{Name: "type", Usage: "Category, also used as an exact filter"},
					&cli.StringFlag{Name: "genre", Usage: "Genre, also used as a substring filter"},
					&cli.StringFlag{Name: "tone", Usage: "Tone"},
					&cli.StringFlag{Name: "duration", Usage: "Duration bucket"},
					&cli.StringFlag{Name: "country", Usage: "Country"},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of recommendations (defaults to recommend.default_limit)",
					},
				),
			},
			{
				Name:   "count",
				Usage:  "Print catalog and embedding counts",
				Action: countCommand,
				Flags:  storageFlags(),
			},
			{
				Name:   "clear",
				Usage:  "Delete stored embeddings",
				Action: clearCommand,
				Flags: append(storageFlags(),
					&cli.BoolFlag{
						Name:  "sources",
						Usage: "Also delete the catalog records",
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Print catalog, embedding and training progress",
				Action: statsCommand,
				Flags:  storageFlags(),
			},
		},
	}
}

// storageFlags override the storage section of the loaded configuration.
func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory (overrides storage.path)",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "PostgreSQL connection string; selects the postgres driver",
		},
	}
}

// loadConfig loads the layered configuration and applies command flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Storage.Driver = config.DriverBadger
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("dsn") {
		cfg.Storage.Driver = config.DriverPostgres
		cfg.Storage.DSN = c.String("dsn")
	}
	if c.IsSet("batch-size") {
		cfg.Import.BatchSize = c.Int("batch-size")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openDatabase loads configuration and opens the configured backend.
func openDatabase(ctx context.Context, c *cli.Context) (*cinevec.Database, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	db, err := cinevec.OpenDatabase(ctx, cfg, cinevec.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", strings.ToLower(s))
	}
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// useLogFormat switches to the configured handler. The --log-level flag
// wins over logging.level when given.
func useLogFormat(c *cli.Context, cfg *config.Config) error {
	levelStr := cfg.Logging.Level
	if c.IsSet("log-level") {
		levelStr = c.String("log-level")
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == config.FormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
