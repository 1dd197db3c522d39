package generator

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/docsmith/internal/catalog"
	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/entities"
	"git.home.luguber.info/inful/docsmith/internal/filters"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/highlight"
	"git.home.luguber.info/inful/docsmith/internal/index"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/markdown"
	"git.home.luguber.info/inful/docsmith/internal/render"
	"git.home.luguber.info/inful/docsmith/internal/version"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

// Inputs is everything a backend reads. It is built once per run and not
// modified afterwards.
type Inputs struct {
	Config *config.Config
	// Index is nil when no feed is available.
	Index *index.Index
	// Catalog is nil when no manual source is available.
	Catalog      *catalog.Catalog
	Resolver     *xref.Resolver
	Renderer     *render.Renderer
	Filters      filters.Options
	Markdown     *markdown.Converter
	Diagnostics  *diagnostics.Sink
	Site         render.Site
	Static       fs.FS
	HighlightCSS []byte
	Reference    time.Time
}

// LoadInputs reads the sources needed for targets. Sources that are not
// targeted are still loaded when present so cross-tree links resolve.
func LoadInputs(cfg *config.Config, targets []Target, ref time.Time, sink *diagnostics.Sink) (*Inputs, error) {
	in := &Inputs{Config: cfg, Diagnostics: sink, Reference: ref}

	if err := in.loadIndex(has(targets, TargetAPI)); err != nil {
		return nil, err
	}
	if err := in.loadCatalog(has(targets, TargetManual)); err != nil {
		return nil, err
	}
	in.Resolver = xref.New(in.Index, in.Catalog, xref.Options{
		APIPrefix:    cfg.API.Prefix,
		ManualPrefix: cfg.Manual.Prefix,
	})

	if err := in.setupHighlighting(); err != nil {
		return nil, err
	}
	in.Markdown = markdown.New(markdown.Options{HardWraps: cfg.Manual.HardWraps})

	prose, err := in.Prose(nil)
	if err != nil {
		return nil, err
	}
	templates, origin := render.DefaultTemplates(), render.DefaultThemeName
	if cfg.Templates.Dir != "" {
		if err := requireDir(cfg.Templates.Dir, "templates.dir"); err != nil {
			return nil, err
		}
		templates, origin = os.DirFS(cfg.Templates.Dir), cfg.Templates.Dir
	}
	in.Renderer = render.New(templates, origin, prose)

	in.Static = render.DefaultStatic()
	if cfg.Templates.Static != "" {
		if err := requireDir(cfg.Templates.Static, "templates.static"); err != nil {
			return nil, err
		}
		in.Static = os.DirFS(cfg.Templates.Static)
	}

	in.Site = render.Site{
		Title:        cfg.Site.Title,
		Generator:    "docsmith",
		Version:      version.Resolved(),
		HighlightCSS: len(in.HighlightCSS) > 0,
	}
	return in, nil
}

func (in *Inputs) loadIndex(required bool) error {
	feed := in.Config.API.Feed
	if feed == "" {
		if required {
			return errors.ConfigError("api.feed is required to generate API documentation").Build()
		}
		return nil
	}
	if _, err := os.Stat(feed); err != nil && !required {
		slog.Debug("No entity feed, API links will not resolve", logfields.Path(feed))
		return nil
	}
	f, err := entities.LoadFeed(feed)
	if err != nil {
		return err
	}
	idx, err := index.Build(f, index.Options{
		Separator:      in.Config.API.NamespaceSeparator,
		ExcludePrivate: in.Config.API.ExcludePrivate,
	})
	if err != nil {
		return err
	}
	slog.Info("Loaded entity feed", logfields.Path(feed),
		slog.Int("classes", len(idx.Classes())), slog.Int("files", len(idx.Files())))
	in.Index = idx
	return nil
}

func (in *Inputs) loadCatalog(required bool) error {
	src := in.Config.Manual.Source
	if fi, err := os.Stat(src); err != nil || !fi.IsDir() {
		if required {
			return errors.ConfigError("manual source directory not found").WithContext(logfields.KeyPath, src).Build()
		}
		return nil
	}
	cat, err := catalog.Load(os.DirFS(src), catalog.Options{StrictTitles: in.Config.Manual.StrictTitles})
	if err != nil {
		return err
	}
	slog.Info("Loaded manual", logfields.Path(src), logfields.Count(cat.Len()))
	in.Catalog = cat
	return nil
}

func (in *Inputs) setupHighlighting() error {
	hc := in.Config.Highlight
	var registry *highlight.Registry
	if hc.Engine == config.HighlightChroma {
		chroma := highlight.NewChroma(hc.Style, hc.LineNumbers)
		var css bytes.Buffer
		if err := chroma.WriteCSS(&css); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "cannot generate highlight stylesheet").Build()
		}
		in.HighlightCSS = css.Bytes()
		registry = highlight.NewRegistry(chroma)
	} else {
		registry = highlight.NewRegistry()
	}
	in.Filters = filters.Options{Highlighter: registry, DefaultLanguage: hc.DefaultLanguage}
	return nil
}

// Prose returns the prose renderer for a filter chain; nil names use the
// configured default chain.
func (in *Inputs) Prose(names []string) (*render.Prose, error) {
	if names == nil {
		names = in.Config.Manual.DefaultFilters
	}
	pipeline, err := filters.Build(names, in.Filters)
	if err != nil {
		return nil, err
	}
	return &render.Prose{
		Pipeline:    pipeline,
		Markdown:    in.Markdown,
		Resolver:    in.Resolver,
		Diagnostics: in.Diagnostics,
	}, nil
}

func requireDir(dir, field string) error {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return errors.ConfigError(field + " is not a directory").WithContext(logfields.KeyPath, dir).Build()
	}
	return nil
}

func has(targets []Target, t Target) bool {
	for _, x := range targets {
		if x == t {
			return true
		}
	}
	return false
}
