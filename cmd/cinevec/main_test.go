package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/cinevec/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const titlesCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,"As her father nears the end of his life, filmmaker Kirsten Johnson stages his death in inventive and comical ways."
s2,TV Show,Blood & Water,,"Ama Qamata, Khosi Ngema",South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas, TV Mysteries","After crossing paths at a party, a Cape Town teen sets out to prove whether a private-school swimming star is her sister who was abducted at birth."
s3,Movie,Sankofa,Haile Gerima,"Kofi Ghanaba, Oyafunmike Ogunlano",United States,"September 24, 2021",1993,TV-MA,125 min,"Dramas, Independent Movies, International Movies","On a photo shoot in Ghana, an American model slips back in time, becomes enslaved on a plantation and bears witness to the agony of her ancestral past."
`

func findFlag[T cli.Flag](cmd *cli.Command, name string) T {
	var zero T
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok {
			for _, n := range flag.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	return zero
}

func findCommand(app *cli.App, name string) *cli.Command {
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func TestCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"serve", "import", "train", "recommend", "count", "clear", "stats"} {
		cmd := findCommand(app, name)
		require.NotNil(t, cmd, name)
		assert.NotNil(t, cmd.Action, name)
		assert.NotNil(t, findFlag[*cli.StringFlag](cmd, "db"), name)
		assert.NotNil(t, findFlag[*cli.StringFlag](cmd, "dsn"), name)
	}
}

func TestImportCommandFlags(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")
	app := newApp()

	t.Run("file is required", func(t *testing.T) {
		err := app.Run([]string{"cinevec", "import", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("file has alias -f", func(t *testing.T) {
		fileFlag := findFlag[*cli.StringFlag](findCommand(app, "import"), "file")
		require.NotNil(t, fileFlag)
		assert.Contains(t, fileFlag.Aliases, "f")
		assert.True(t, fileFlag.Required)
	})

	t.Run("missing file fails", func(t *testing.T) {
		err := app.Run([]string{"cinevec", "import", "--db", t.TempDir(), "--file", filepath.Join(t.TempDir(), "absent.csv")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open")
	})
}

func TestTrainCommandFlags(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")
	app := newApp()

	err := app.Run([]string{"cinevec", "train", "--db", t.TempDir(), "--resume", "--clear"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")
	dbPath := t.TempDir()

	var loaded *config.Config
	app := newApp()
	cmd := findCommand(app, "train")
	cmd.Action = func(c *cli.Context) error {
		var err error
		loaded, err = loadConfig(c)
		return err
	}

	require.NoError(t, app.Run([]string{"cinevec", "train", "--db", dbPath, "--batch-size", "7"}))
	require.NotNil(t, loaded)
	assert.Equal(t, config.DriverBadger, loaded.Storage.Driver)
	assert.Equal(t, dbPath, loaded.Storage.Path)
	assert.Equal(t, 7, loaded.Import.BatchSize)
}

func TestLoadConfigDSNSelectsPostgres(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")

	var loaded *config.Config
	app := newApp()
	cmd := findCommand(app, "count")
	cmd.Action = func(c *cli.Context) error {
		var err error
		loaded, err = loadConfig(c)
		return err
	}

	require.NoError(t, app.Run([]string{"cinevec", "count", "--dsn", "postgres://localhost/cinevec"}))
	assert.Equal(t, config.DriverPostgres, loaded.Storage.Driver)
	assert.Equal(t, "postgres://localhost/cinevec", loaded.Storage.DSN)
}

func TestImportTrainRecommend(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")
	dbPath := filepath.Join(t.TempDir(), "db")
	csvPath := filepath.Join(t.TempDir(), "titles.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(titlesCSV), 0o600))

	app := newApp()
	steps := [][]string{
		{"cinevec", "import", "--db", dbPath, "--file", csvPath, "--batch-size", "2"},
		{"cinevec", "train", "--db", dbPath},
		{"cinevec", "count", "--db", dbPath},
		{"cinevec", "stats", "--db", dbPath},
		{"cinevec", "recommend", "--db", dbPath, "--type", "Movie", "--limit", "2"},
		{"cinevec", "recommend", "--db", dbPath, "family", "drama"},
		{"cinevec", "clear", "--db", dbPath, "--sources"},
	}
	for _, args := range steps {
		require.NoError(t, app.Run(args), args[1])
	}
}

func TestRecommendRequiresCriteria(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")

	err := newApp().Run([]string{"cinevec", "recommend", "--db", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one criterion")
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error { return nil },
				}
				require.NoError(t, app.Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		cmd := findCommand(app, "count")
		cmd.Action = func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}
		require.NoError(t, app.Run([]string{"cinevec", "-l", "debug", "count"}))
	})
}

func TestUseLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = config.FormatJSON
	cfg.Logging.Level = "warn"

	app := &cli.App{
		Name:  "test",
		Flags: []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
		Action: func(c *cli.Context) error {
			return useLogFormat(c, cfg)
		},
	}
	require.NoError(t, app.Run([]string{"test"}))

	cfg.Logging.Level = "loud"
	require.Error(t, app.Run([]string{"test"}))
}
