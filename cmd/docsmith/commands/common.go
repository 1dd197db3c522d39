package commands

import (
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"docsmith.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	DryRun      bool             `name:"dry-run" help:"Render everything but write nothing"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" type:"path"`
	Manifest    string           `name:"manifest" help:"Write a JSON build manifest to this path" type:"path"`

	API    APICmd    `cmd:"" name:"api" help:"Generate API reference pages from the feed"`
	Manual ManualCmd `cmd:"" help:"Generate manual pages"`
	Build  BuildCmd  `cmd:"" help:"Generate the API reference, then the manual"`
	Check  CheckCmd  `cmd:"" help:"Check links in a generated output tree"`
	Watch  WatchCmd  `cmd:"" help:"Rebuild when sources change"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads the configuration named by --config. A missing file at
// the default location falls back to built-in defaults; a missing file the
// user asked for is an error.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if c.Config != config.DefaultFilename {
			return nil, err
		}
		if _, statErr := os.Stat(c.Config); !stdErrors.Is(statErr, fs.ErrNotExist) {
			return nil, err
		}
		slog.Debug("No configuration file, using defaults", logfields.Path(c.Config))
		cfg = config.Default()
	}
	if c.DryRun {
		cfg.Build.DryRun = true
	}
	return cfg, nil
}
