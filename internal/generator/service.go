package generator

import (
	"time"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/emit"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
)

// Target names a tree to generate.
type Target string

const (
	TargetAPI    Target = "api"
	TargetManual Target = "manual"
)

// Status is the overall outcome of a run.
type Status string

const (
	// StatusSuccess means every page rendered without diagnostics.
	StatusSuccess Status = "success"
	// StatusWarning means every page rendered but diagnostics were recorded.
	StatusWarning Status = "warning"
	// StatusFailed means at least one page failed or the run aborted.
	StatusFailed Status = "failed"
)

// Result describes a finished run.
type Result struct {
	Status      Status
	RunID       string
	Targets     []Target
	Pages       int
	Failed      []string
	Diagnostics []diagnostics.Diagnostic
	Stats       emit.Stats
	Reference   time.Time
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Manifest    *manifest.BuildManifest
}

// BrokenLinks counts unresolved references recorded during the run.
func (r *Result) BrokenLinks() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == diagnostics.KindBrokenLink {
			n++
		}
	}
	return n
}
