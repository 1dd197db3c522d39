package generator

import (
	"io/fs"
	"path"
	"time"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/render"
)

// RenderedPage is a page between rendering and emission. Path is relative to
// the output root and slash-separated.
type RenderedPage struct {
	Backend string
	Path    string
	Source  string
	Data    []byte
	Elapsed time.Duration
}

// Output receives everything a backend produces.
type Output interface {
	// Page emits a rendered page.
	Page(p RenderedPage) error
	// PageFailed records a page that could not be rendered. A non-nil
	// return stops the backend.
	PageFailed(backend, path, source string, err error) error
	// Asset emits a generated support file such as a stylesheet.
	Asset(path string, data []byte) error
	// Static copies fsys verbatim below dir.
	Static(dir string, fsys fs.FS) error
}

// Backend renders one tree.
type Backend interface {
	Name() string
	Render(in *Inputs, out Output) error
}

// BackendFor selects the backend for t.
func BackendFor(t Target, cfg *config.Config) (Backend, error) {
	switch t {
	case TargetAPI:
		if cfg.API.Format == config.APIFormatJSON {
			return JSONBackend{}, nil
		}
		return HTMLBackend{}, nil
	case TargetManual:
		return ManualBackend{}, nil
	default:
		return nil, errors.ConfigError("unknown target " + string(t)).Build()
	}
}

// renderPage renders one template and hands the result to out.
func renderPage(in *Inputs, out Output, backend, tmpl string, b render.Bindings) error {
	start := time.Now()
	html, err := in.Renderer.Render(tmpl, b)
	if err != nil {
		return out.PageFailed(backend, b.Path, b.Source, err)
	}
	return out.Page(RenderedPage{
		Backend: backend,
		Path:    b.Path,
		Source:  b.Source,
		Data:    []byte(html),
		Elapsed: time.Since(start),
	})
}

// emitSupport copies static assets and the highlight stylesheet into a tree root.
func emitSupport(in *Inputs, out Output, root string) error {
	if in.Static != nil {
		if err := out.Static(root, in.Static); err != nil {
			return err
		}
	}
	if len(in.HighlightCSS) > 0 {
		return out.Asset(path.Join(root, "css", "highlight.css"), in.HighlightCSS)
	}
	return nil
}
