package render

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/filters"
	"git.home.luguber.info/inful/docsmith/internal/markdown"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

// Prose turns documentation text into HTML: markup filters first, then Markdown.
type Prose struct {
	Pipeline    *filters.Pipeline
	Markdown    *markdown.Converter
	Resolver    *xref.Resolver
	Diagnostics *diagnostics.Sink
}

// Render filters and converts src for the page at path. source names the
// page in diagnostics. A nil Prose escapes src into a single paragraph.
func (p *Prose) Render(src, path, source string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	if p == nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>"), nil
	}

	out := src
	verbatim := &filters.Verbatim{}
	if p.Pipeline != nil {
		var err error
		out, err = p.Pipeline.Process(src, &filters.Context{
			Page:        path,
			Source:      source,
			Resolver:    p.Resolver,
			Diagnostics: p.Diagnostics,
			Verbatim:    verbatim,
		})
		if err != nil {
			return "", err
		}
	}
	if p.Markdown == nil {
		return template.HTML(verbatim.Restore(out)), nil //nolint:gosec // filter output is trusted markup
	}
	html, err := p.Markdown.Convert(out)
	if err != nil {
		return "", err
	}
	// Examples are restored after conversion so their bodies never see inline Markdown.
	return template.HTML(verbatim.Restore(html)), nil //nolint:gosec // rendered Markdown with passthrough HTML is intended
}
