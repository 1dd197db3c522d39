package generator

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/metrics"
)

const feedYAML = `files:
  - path: lib/arrow.rb
    description: The main file.
classes:
  - name: Arrow
    kind: module
    file: lib/arrow.rb
    description: Top-level namespace. Read the <?link Getting Started ?> guide.
  - name: Arrow::Route
    file: lib/arrow.rb
    description: Routes requests for <?api Arrow ?>.
    sections:
      - constants:
          - name: SVNId
            value: "$Id: route.rb 437 2023-12-29 00:00:00Z deveiant $"
        methods:
          - name: call
            params: (env)
            description: Dispatch.
`

var manualPages = map[string]string{
	"guide/Intro.page": "---\ntitle: Getting Started\n---\n# Intro\n\nSee <?api Arrow::Route ?> and <?link Reference ?>.\n\n" +
		"<?example {language: text, testable: false} ?>\nhello\n<?end example ?>\n",
	"Reference.page": "---\ntitle: Reference\n---\nBack to <?link guide/Intro.page ?>.\n",
}

// fixture writes sources below a temp dir and returns a config pointing at them.
func fixture(t *testing.T, pages map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	feed := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(feed, []byte(feedYAML), 0o644))
	for name, body := range pages {
		p := filepath.Join(dir, "manual", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	cfg := config.Default()
	cfg.Site.Title = "Arrow"
	cfg.API.Feed = feed
	cfg.Manual.Source = filepath.Join(dir, "manual")
	cfg.Output.Directory = filepath.Join(dir, "out")
	cfg.Build.ReferenceTime = "2024-01-01T00:00:00Z"
	return cfg
}

func newService() *Service {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewService().
		WithClock(func() time.Time { return clock }).
		WithEnv(func(string) string { return "" })
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return tree
}

func TestRun_BuildsBothTrees(t *testing.T) {
	cfg := fixture(t, manualPages)

	res, err := newService().Run(context.Background(), cfg, TargetAPI, TargetManual)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 7, res.Pages)
	assert.Empty(t, res.Failed)
	assert.Empty(t, res.Diagnostics)

	tree := readTree(t, cfg.Output.Directory)
	for _, p := range []string{
		"api/index.html", "api/Arrow.html", "api/Arrow/Route.html", "api/lib/arrow.rb.html",
		"api/rdoc.css", "api/js/manual.js", "api/css/highlight.css",
		"manual/index.html", "manual/Reference.html", "manual/guide/Intro.html",
		"manual/rdoc.css", "manual/css/highlight.css",
	} {
		assert.Contains(t, tree, p)
	}

	intro := tree["manual/guide/Intro.html"]
	assert.Contains(t, intro, `<a href="../../api/Arrow/Route.html">Arrow::Route</a>`)
	assert.Contains(t, intro, `<a href="../Reference.html">Reference</a>`)
	assert.Contains(t, intro, `<div class="example"><pre class="highlight">hello</pre></div>`)
	assert.Contains(t, intro, `<link rel="stylesheet" href="../rdoc.css">`)

	assert.Contains(t, tree["api/Arrow.html"], `<a href="../manual/guide/Intro.html">Getting Started</a>`)
	assert.Contains(t, tree["api/Arrow/Route.html"], `<a href="../Arrow.html">Arrow</a>`)
	assert.Contains(t, tree["api/Arrow/Route.html"], "3 days")
	assert.Contains(t, tree["manual/Reference.html"], `<a href="guide/Intro.html">Getting Started</a>`)
}

func TestRun_Idempotent(t *testing.T) {
	cfg := fixture(t, manualPages)
	second := *cfg
	second.Output.Directory = filepath.Join(t.TempDir(), "again")

	a, err := newService().Run(context.Background(), cfg, TargetAPI, TargetManual)
	require.NoError(t, err)
	b, err := NewService().Run(context.Background(), &second, TargetAPI, TargetManual)
	require.NoError(t, err)

	if diff := cmp.Diff(readTree(t, cfg.Output.Directory), readTree(t, second.Output.Directory)); diff != "" {
		t.Fatalf("output differs between runs (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Manifest.Outputs.ContentHash, b.Manifest.Outputs.ContentHash)
}

func TestRun_BrokenLinksAreDiagnostics(t *testing.T) {
	pages := map[string]string{"Broken.page": "---\ntitle: Broken\n---\nSee <?api Nope ?> and <?link Missing Page ?>.\n"}
	cfg := fixture(t, pages)

	res, err := newService().Run(context.Background(), cfg, TargetManual)
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, res.Status)
	assert.Equal(t, 2, res.BrokenLinks())
	assert.Equal(t, map[string]int{"broken_link": 2}, res.Manifest.Diagnostics)

	out, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "manual", "Broken.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<a href="#" title="Could not find a link for class 'Nope'" class="broken-link">Nope</a>`)

	cfg.Build.StrictLinks = true
	res, err = newService().Run(context.Background(), cfg, TargetManual)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Equal(t, StatusFailed, res.Status)
}

func TestRun_PageErrorPolicy(t *testing.T) {
	pages := map[string]string{
		"A.page": "---\ntitle: A\n---\n<?example text ?>\nnever closed\n",
		"B.page": "---\ntitle: B\n---\nfine\n",
	}

	t.Run("continue", func(t *testing.T) {
		cfg := fixture(t, pages)
		res, err := newService().Run(context.Background(), cfg, TargetManual)
		require.Error(t, err)

		assert.True(t, errors.HasCategory(err, errors.CategoryBuild))
		assert.Contains(t, err.Error(), "1 page(s) failed: A.page")
		assert.Contains(t, err.Error(), "Unterminated example at line 1 in ")
		assert.Equal(t, []string{"manual/A.html"}, res.Failed)
		assert.FileExists(t, filepath.Join(cfg.Output.Directory, "manual", "B.html"))
		assert.NoFileExists(t, filepath.Join(cfg.Output.Directory, "manual", "A.html"))
	})

	t.Run("abort", func(t *testing.T) {
		cfg := fixture(t, pages)
		cfg.Build.OnPageError = config.OnPageErrorAbort
		res, err := newService().Run(context.Background(), cfg, TargetManual)
		require.Error(t, err)

		ce, ok := errors.AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, errors.CategoryFilter, ce.Category())
		assert.Equal(t, StatusFailed, res.Status)
		assert.NoFileExists(t, filepath.Join(cfg.Output.Directory, "manual", "B.html"))
	})
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg := fixture(t, manualPages)
	cfg.Build.DryRun = true

	res, err := newService().Run(context.Background(), cfg, TargetAPI, TargetManual)
	require.NoError(t, err)
	assert.Positive(t, res.Stats.Files)
	assert.Positive(t, res.Stats.Bytes)
	assert.NoDirExists(t, cfg.Output.Directory)
	assert.True(t, res.Manifest.DryRun)
}

func TestRun_JSONBackend(t *testing.T) {
	cfg := fixture(t, manualPages)
	cfg.API.Format = config.APIFormatJSON

	_, err := newService().Run(context.Background(), cfg, TargetAPI)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "api", JSONIndexFile))
	require.NoError(t, err)
	var doc struct {
		Modules []string `json:"modules"`
		Classes []struct {
			Name       string `json:"name"`
			OutputPath string `json:"output_path"`
		} `json:"classes"`
		Pages []map[string]string `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []string{"Arrow", "Arrow::Route"}, doc.Modules)
	require.Len(t, doc.Classes, 2)
	assert.Equal(t, "Arrow/Route.html", doc.Classes[1].OutputPath)
	assert.Contains(t, doc.Pages, map[string]string{"title": "Reference", "source": "Reference.page", "path": "manual/Reference.html"})
	assert.NoFileExists(t, filepath.Join(cfg.Output.Directory, "api", "index.html"))
}

func TestRun_MissingInputs(t *testing.T) {
	cfg := fixture(t, nil)
	cfg.API.Feed = ""
	_, err := newService().Run(context.Background(), cfg, TargetAPI)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	cfg = fixture(t, nil)
	_, err = newService().Run(context.Background(), cfg, TargetManual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manual source directory not found")

	// The manual is optional for the API tree.
	res, err := newService().Run(context.Background(), cfg, TargetAPI)
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, res.Status, "the <?link ?> in Arrow's description cannot resolve")
}

func TestRun_CleanRemovesStaleFiles(t *testing.T) {
	cfg := fixture(t, manualPages)
	stale := filepath.Join(cfg.Output.Directory, "stale.html")
	require.NoError(t, os.MkdirAll(cfg.Output.Directory, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	cfg.Output.Clean = true
	_, err := newService().Run(context.Background(), cfg, TargetAPI)
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := fixture(t, manualPages)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newService().Run(ctx, cfg, TargetAPI)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusFailed, res.Status)
}

type recordingRecorder struct {
	metrics.NoopRecorder
	mu          sync.Mutex
	pages       map[string]int
	diagnostics map[string]int
	outcomes    []metrics.OutcomeLabel
}

func (r *recordingRecorder) IncPageResult(backend string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[backend+"/"+string(result)]++
}

func (r *recordingRecorder) IncDiagnostic(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics[kind]++
}

func (r *recordingRecorder) IncRunOutcome(o metrics.OutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func TestRun_RecordsMetrics(t *testing.T) {
	cfg := fixture(t, map[string]string{"X.page": "---\ntitle: X\n---\n<?api Missing ?>\n"})
	rec := &recordingRecorder{pages: map[string]int{}, diagnostics: map[string]int{}}

	_, err := newService().WithRecorder(rec).Run(context.Background(), cfg, TargetAPI, TargetManual)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"html/success": 4, "manual/success": 2}, rec.pages)
	assert.Equal(t, map[string]int{string(diagnostics.KindBrokenLink): 2}, rec.diagnostics)
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeWarning}, rec.outcomes)
}
