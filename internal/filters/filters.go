// Package filters rewrites markup instructions (`<?name ... ?>`) embedded in
// documentation prose: API links, manual page links and example blocks.
//
// Filters run in a fixed order per page. Text outside recognized
// instructions passes through untouched.
package filters

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/highlight"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

// Filter names.
const (
	NameExamples = "examples"
	NameLinks    = "links"
	NameAPI      = "api"
)

// DefaultOrder is the filter chain applied to manual pages without an override.
var DefaultOrder = []string{NameExamples, NameLinks, NameAPI}

// Context is what a filter knows about the page it is processing.
type Context struct {
	// Page is the site-root-relative output path; hrefs are computed from it.
	Page string
	// Source names the page in diagnostics and errors (a source file or class name).
	Source      string
	Resolver    *xref.Resolver
	Diagnostics *diagnostics.Sink
	// Verbatim, when set, receives rendered examples so a later Markdown
	// pass sees only a token.
	Verbatim *Verbatim
}

func (c *Context) source() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Page
}

func (c *Context) report(kind diagnostics.Kind, ref, msg string) {
	c.Diagnostics.Add(diagnostics.Diagnostic{Kind: kind, Page: c.source(), Reference: ref, Message: msg})
}

// Filter rewrites one kind of markup instruction.
type Filter interface {
	Name() string
	Process(src string, ctx *Context) (string, error)
}

// Options configure filter construction.
type Options struct {
	// Highlighter renders example bodies; nil uses a plain-text registry.
	Highlighter *highlight.Registry
	// DefaultLanguage applies to examples without a language option.
	DefaultLanguage string
	// Validators override the syntax checkers used for testable examples.
	Validators map[string]Validator
}

// New constructs the filter with the given name.
func New(name string, opts Options) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameExamples:
		return NewExampleFilter(opts), nil
	case NameLinks:
		return LinkFilter{}, nil
	case NameAPI:
		return APIFilter{}, nil
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unknown filter %q (known: %s)", name, strings.Join(DefaultOrder, ", "))).
			WithContext(logfields.KeyFilter, name).
			Build()
	}
}

// Pipeline is an ordered chain of filters.
type Pipeline struct {
	filters []Filter
}

// NewPipeline chains filters in the given order.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{filters: filters}
}

// Build constructs a pipeline from filter names.
func Build(names []string, opts Options) (*Pipeline, error) {
	fs := make([]Filter, 0, len(names))
	for _, n := range names {
		f, err := New(n, opts)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return NewPipeline(fs...), nil
}

// Names lists the filters in order.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.filters))
	for i, f := range p.filters {
		out[i] = f.Name()
	}
	return out
}

// Process runs src through every filter. The first failure stops the chain;
// no partial output is returned.
func (p *Pipeline) Process(src string, ctx *Context) (string, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	out := src
	for _, f := range p.filters {
		next, err := f.Process(out, ctx)
		if err != nil {
			if errors.IsClassified(err) {
				return "", err
			}
			return "", errors.WrapError(err, errors.CategoryFilter, fmt.Sprintf("%s filter failed on %s", f.Name(), ctx.source())).
				WithContext(logfields.KeyFilter, f.Name()).
				WithContext(logfields.KeyPage, ctx.source()).
				Build()
		}
		out = next
	}
	return out, nil
}
