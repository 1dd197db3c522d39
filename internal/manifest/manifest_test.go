package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	m := New("v1.0.0", start, start.Add(-time.Hour))

	_, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, m.Status)
	assert.Equal(t, start, m.Timestamp)
}

func TestAddPage_Replaces(t *testing.T) {
	m := New("dev", start, start)
	m.AddPage("html", "api/index.html", []byte("one"))
	m.AddPage("html", "api/index.html", []byte("two!"))

	require.Len(t, m.Outputs.Pages, 1)
	assert.Equal(t, 4, m.Outputs.Pages[0].Bytes)
	assert.Equal(t, Fingerprint([]byte("two!")), m.Outputs.Pages[0].Fingerprint)
}

func TestFingerprint_Stable(t *testing.T) {
	assert.Equal(t, Fingerprint([]byte("<p>x</p>")), Fingerprint([]byte("<p>x</p>")))
	assert.NotEqual(t, Fingerprint([]byte("<p>x</p>")), Fingerprint([]byte("<p>y</p>")))
}

func TestFinish_ContentHashIgnoresOrderAndRunID(t *testing.T) {
	a := New("dev", start, start)
	a.AddPage("html", "b.html", []byte("B"))
	a.AddPage("html", "a.html", []byte("A"))
	a.Finish(StatusSuccess, start.Add(1500*time.Millisecond))

	b := New("dev", start.Add(time.Hour), start)
	b.AddPage("html", "a.html", []byte("A"))
	b.AddPage("html", "b.html", []byte("B"))
	b.Finish(StatusSuccess, start.Add(2*time.Hour))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Outputs.ContentHash, b.Outputs.ContentHash)
	assert.Equal(t, "a.html", a.Outputs.Pages[0].Path)
	assert.Equal(t, int64(1500), a.Duration)
}

func TestDiagnosticsAndFailures(t *testing.T) {
	sink := &diagnostics.Sink{}
	sink.Add(diagnostics.Diagnostic{Kind: diagnostics.KindBrokenLink, Page: "p.html", Reference: "X"})
	sink.Add(diagnostics.Diagnostic{Kind: diagnostics.KindBrokenLink, Page: "p.html", Reference: "Y"})

	m := New("dev", start, start)
	m.SetDiagnostics(sink)
	m.AddFailure("bad.html", errors.New("boom"))

	assert.Equal(t, map[string]int{"broken_link": 2}, m.Diagnostics)
	assert.Equal(t, []Failure{{Path: "bad.html", Error: "boom"}}, m.Failures)

	m.SetDiagnostics(&diagnostics.Sink{})
	assert.Nil(t, m.Diagnostics)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	m := New("dev", start, start)
	m.Inputs = Inputs{Feed: "api.yaml", Templates: "darkfish", Backends: []string{"html"}}
	m.AddPage("html", "index.html", []byte("<html></html>"))
	m.Finish(StatusWarning, start.Add(time.Second))

	out := filepath.Join(t.TempDir(), "nested", "manifest.json")
	require.NoError(t, m.WriteFile(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	restored, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, m.ID, restored.ID)
	assert.Equal(t, StatusWarning, restored.Status)
	assert.Equal(t, m.Outputs, restored.Outputs)
	assert.Equal(t, m.Inputs, restored.Inputs)
}
