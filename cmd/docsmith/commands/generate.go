package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/generator"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/metrics"
)

// APICmd implements the 'api' command.
type APICmd struct{}

func (a *APICmd) Run(_ *Global, root *CLI) error {
	return runTargets(root, generator.TargetAPI)
}

// ManualCmd implements the 'manual' command.
type ManualCmd struct{}

func (m *ManualCmd) Run(_ *Global, root *CLI) error {
	return runTargets(root, generator.TargetManual)
}

// BuildCmd implements the 'build' command. The API tree is generated first
// so manual cross-links resolve against it.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	return runTargets(root, generator.TargetAPI, generator.TargetManual)
}

func runTargets(root *CLI, targets ...generator.Target) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunGenerate(ctx, cfg, root, os.Stdout, targets...)
}

// RunGenerate runs one generation and writes the optional metrics textfile
// and manifest. A summary goes to w; diagnostics go to the logger.
func RunGenerate(ctx context.Context, cfg *config.Config, root *CLI, w io.Writer, targets ...generator.Target) error {
	recorder := metrics.NewPrometheusRecorder(nil)
	result, err := generator.NewService().WithRecorder(recorder).Run(ctx, cfg, targets...)

	if root.MetricsFile != "" {
		if werr := recorder.WriteTextfile(root.MetricsFile); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(root.MetricsFile), logfields.Error(werr))
		}
	}
	if root.Manifest != "" && result != nil && result.Manifest != nil {
		if werr := result.Manifest.WriteFile(root.Manifest); werr != nil {
			slog.Warn("Failed to write manifest", logfields.Path(root.Manifest), logfields.Error(werr))
		}
	}
	if result != nil {
		printSummary(w, cfg, result)
	}
	return err
}

func printSummary(w io.Writer, cfg *config.Config, r *generator.Result) {
	verb := "Wrote"
	if cfg.Build.DryRun {
		verb = "Would write"
	}
	_, _ = fmt.Fprintf(w, "%s %d page(s), %d file(s), %d byte(s) to %s\n",
		verb, r.Pages, r.Stats.Files, r.Stats.Bytes, cfg.Output.Directory)
	if n := len(r.Failed); n > 0 {
		_, _ = fmt.Fprintf(w, "%d page(s) failed\n", n)
	}
	if n := r.BrokenLinks(); n > 0 {
		_, _ = fmt.Fprintf(w, "%d broken link(s)\n", n)
	}
	_, _ = fmt.Fprintf(w, "Status: %s\n", r.Status)
}
