// Package manifest records what a docsmith run consumed and produced.
//
// The manifest lives outside the output tree: it carries a run id and
// wall-clock timestamps, which would otherwise break reproducible output.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
)

// Status values for a finished run.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// BuildManifest is a complete record of a run's inputs and outputs.
type BuildManifest struct {
	ID            string         `json:"id"`
	Version       string         `json:"version"`
	Timestamp     time.Time      `json:"timestamp"`
	ReferenceTime time.Time      `json:"reference_time"`
	DryRun        bool           `json:"dry_run,omitempty"`
	Inputs        Inputs         `json:"inputs"`
	Outputs       Outputs        `json:"outputs"`
	Failures      []Failure      `json:"failures,omitempty"`
	Diagnostics   map[string]int `json:"diagnostics,omitempty"`
	Status        string         `json:"status"`
	Duration      int64          `json:"duration_ms"`

	pages map[string]bool
}

// Inputs captures where the run read from.
type Inputs struct {
	Feed       string   `json:"feed,omitempty"`
	Manual     string   `json:"manual,omitempty"`
	Templates  string   `json:"templates"`
	Backends   []string `json:"backends"`
	ConfigHash string   `json:"config_hash,omitempty"`
}

// Outputs lists emitted pages with their content fingerprints.
type Outputs struct {
	Root        string `json:"root"`
	Pages       []Page `json:"pages"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Page is one emitted file.
type Page struct {
	Path        string `json:"path"`
	Backend     string `json:"backend"`
	Bytes       int    `json:"bytes"`
	Fingerprint string `json:"fingerprint"`
}

// Failure is a page that could not be rendered or written.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// New starts a manifest for a run beginning at start.
func New(version string, start, reference time.Time) *BuildManifest {
	return &BuildManifest{
		ID:            uuid.NewString(),
		Version:       version,
		Timestamp:     start.UTC(),
		ReferenceTime: reference.UTC(),
		Status:        StatusSuccess,
		pages:         make(map[string]bool),
	}
}

// Fingerprint returns the content fingerprint recorded for data.
func Fingerprint(data []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(data))
}

// AddPage records an emitted page. Re-recording a path replaces the entry.
func (m *BuildManifest) AddPage(backend, path string, data []byte) {
	p := Page{Path: path, Backend: backend, Bytes: len(data), Fingerprint: Fingerprint(data)}
	if m.pages == nil {
		m.pages = make(map[string]bool)
	}
	if m.pages[path] {
		for i := range m.Outputs.Pages {
			if m.Outputs.Pages[i].Path == path {
				m.Outputs.Pages[i] = p
				return
			}
		}
	}
	m.pages[path] = true
	m.Outputs.Pages = append(m.Outputs.Pages, p)
}

// AddFailure records a page-level failure.
func (m *BuildManifest) AddFailure(path string, err error) {
	m.Failures = append(m.Failures, Failure{Path: path, Error: err.Error()})
}

// SetDiagnostics copies the per-kind counts from sink.
func (m *BuildManifest) SetDiagnostics(sink *diagnostics.Sink) {
	summary := sink.Summary()
	if len(summary) == 0 {
		m.Diagnostics = nil
		return
	}
	m.Diagnostics = make(map[string]int, len(summary))
	for k, n := range summary {
		m.Diagnostics[string(k)] = n
	}
}

// Finish stamps the final status and duration and computes the content hash.
func (m *BuildManifest) Finish(status string, end time.Time) {
	m.Status = status
	m.Duration = end.Sub(m.Timestamp).Milliseconds()
	sort.Slice(m.Outputs.Pages, func(i, j int) bool { return m.Outputs.Pages[i].Path < m.Outputs.Pages[j].Path })
	m.Outputs.ContentHash = m.contentHash()
}

// contentHash depends only on page paths and fingerprints, so two runs over
// the same inputs yield the same value.
func (m *BuildManifest) contentHash() string {
	if len(m.Outputs.Pages) == 0 {
		return ""
	}
	h := sha256.New()
	for _, p := range m.Outputs.Pages {
		fmt.Fprintf(h, "%s\x00%s\n", p.Path, p.Fingerprint)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// WriteFile writes the manifest as indented JSON, creating parent directories.
func (m *BuildManifest) WriteFile(filename string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
