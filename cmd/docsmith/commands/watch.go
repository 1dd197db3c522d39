package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/generator"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (c *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	targets := []generator.Target{generator.TargetAPI, generator.TargetManual}
	if cfg.API.Feed == "" {
		targets = []generator.Target{generator.TargetManual}
	}
	if err := RunGenerate(ctx, cfg, root, os.Stdout, targets...); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	rebuild := func(ctx context.Context) error {
		next, err := root.LoadConfig()
		if err != nil {
			return err
		}
		return RunGenerate(ctx, next, root, os.Stdout, targets...)
	}
	paths := WatchPaths(cfg, root.Config)
	slog.Info("Watching for changes", slog.Any("paths", paths))
	return watch.Run(ctx, paths, watch.Options{
		Debounce: c.Debounce,
		Exclude:  []string{cfg.Output.Directory},
	}, rebuild)
}

// WatchPaths lists the existing sources a build reads.
func WatchPaths(cfg *config.Config, configPath string) []string {
	candidates := []string{
		cfg.API.Feed,
		cfg.Manual.Source,
		cfg.Templates.Dir,
		cfg.Templates.Static,
		configPath,
	}
	var paths []string
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}
