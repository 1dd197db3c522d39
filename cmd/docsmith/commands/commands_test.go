package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/generator"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestCLI_Parse(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-c", "site.yaml", "--dry-run", "--manifest", "m.json", "build"})
	require.NoError(t, err)
	assert.Equal(t, "build", ctx.Command())
	assert.Equal(t, "site.yaml", cli.Config)
	assert.True(t, cli.DryRun)
	assert.Equal(t, "m.json", filepath.Base(cli.Manifest))

	parser, err = kong.New(&CLI{}, kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err = parser.Parse([]string{"check", "out"})
	require.NoError(t, err)
	assert.Equal(t, "check <dir>", ctx.Command())
}

func TestLoadConfig_DefaultFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	cli := &CLI{Config: config.DefaultFilename, DryRun: true}

	cfg, err := cli.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Build.DryRun)
	assert.Equal(t, config.DefaultOutputDirectory, cfg.Output.Directory)
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	cli := &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")}

	_, err := cli.LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFilename)
	var out bytes.Buffer

	require.NoError(t, RunInit(path, false, &out))
	assert.Contains(t, out.String(), "initialized successfully")

	err := RunInit(path, false, &out)
	require.Error(t, err)
	assert.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	require.NoError(t, RunInit(path, true, &out))

	_, err = (&CLI{Config: path}).LoadConfig()
	require.NoError(t, err)
}

func TestRunGenerate_WritesManifestAndMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manual", "Intro.page"), "---\ntitle: Intro\n---\nHello.\n")

	cfg := config.Default()
	cfg.Manual.Source = filepath.Join(dir, "manual")
	cfg.Output.Directory = filepath.Join(dir, "out")
	cfg.Build.ReferenceTime = "2024-01-01T00:00:00Z"

	root := &CLI{
		MetricsFile: filepath.Join(dir, "metrics.prom"),
		Manifest:    filepath.Join(dir, "manifest.json"),
	}
	var out bytes.Buffer
	require.NoError(t, RunGenerate(context.Background(), cfg, root, &out, generator.TargetManual))
	assert.Contains(t, out.String(), "Status: success")
	assert.FileExists(t, filepath.Join(dir, "out", "manual", "Intro.html"))

	prom, err := os.ReadFile(root.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "docsmith_pages_total")

	data, err := os.ReadFile(root.Manifest)
	require.NoError(t, err)
	m, err := manifest.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, manifest.StatusSuccess, m.Status)
	assert.NotEmpty(t, m.Outputs.Pages)
	assert.Equal(t, []string{"manual"}, m.Inputs.Backends)
}

func TestRunGenerate_DryRunSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manual", "Intro.page"), "Hello.\n")

	cfg := config.Default()
	cfg.Manual.Source = filepath.Join(dir, "manual")
	cfg.Output.Directory = filepath.Join(dir, "out")
	cfg.Build.DryRun = true

	var out bytes.Buffer
	require.NoError(t, RunGenerate(context.Background(), cfg, &CLI{}, &out, generator.TargetManual))
	assert.Contains(t, out.String(), "Would write")
	assert.NoDirExists(t, cfg.Output.Directory)
}

func TestRunGenerate_MissingFeed(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "out")

	err := RunGenerate(context.Background(), cfg, &CLI{}, &bytes.Buffer{}, generator.TargetAPI)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body><a href="a.html#top">A</a></body></html>`)
	writeFile(t, filepath.Join(dir, "a.html"), `<html><body><h1 id="top">A</h1></body></html>`)

	var out bytes.Buffer
	require.NoError(t, RunCheck(context.Background(), dir, &out))
	assert.Contains(t, out.String(), "0 problem(s)")

	writeFile(t, filepath.Join(dir, "b.html"), `<html><body><a href="missing.html">gone</a></body></html>`)
	out.Reset()
	err := RunCheck(context.Background(), dir, &out)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Contains(t, out.String(), "missing.html")
}

func TestRunCheck_MissingDir(t *testing.T) {
	err := RunCheck(context.Background(), filepath.Join(t.TempDir(), "none"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestWatchPaths(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "api.yaml")
	writeFile(t, feed, "classes: []\n")

	cfg := config.Default()
	cfg.API.Feed = feed
	cfg.Manual.Source = filepath.Join(dir, "manual")
	cfg.Templates.Dir = ""

	assert.Equal(t, []string{feed}, WatchPaths(cfg, filepath.Join(dir, "docsmith.yaml")))
}
