package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/catalog"
	"git.home.luguber.info/inful/docsmith/internal/entities"
	"git.home.luguber.info/inful/docsmith/internal/humanize"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

// funcs returns the template functions bound to b. A nil b yields functions
// usable only for parsing.
func (r *Renderer) funcs(b *Bindings) template.FuncMap {
	if b == nil {
		b = &Bindings{}
	}
	resolver := b.Resolver
	if resolver == nil {
		resolver = xref.New(nil, nil, xref.Options{})
	}
	return template.FuncMap{
		"prose": func(src string) (template.HTML, error) {
			return r.prose.Render(src, b.Path, b.Source)
		},
		"classHref": func(name string) string {
			return resolver.ResolveClass(b.Path, name, "").Href
		},
		"classLink": func(name string) template.HTML {
			res := resolver.ResolveClass(b.Path, name, "")
			text := template.HTMLEscapeString(res.Text)
			if res.Broken {
				return template.HTML(`<span class="unresolved">` + text + `</span>`)
			}
			return template.HTML(`<a href="` + template.HTMLEscapeString(res.Href) + `">` + text + `</a>`)
		},
		"fileHref": func(f *entities.File) string {
			return xref.RelativeHref(b.Path, resolver.APIPath(f.OutputPath))
		},
		"pageHref": func(p *catalog.Page) string {
			return xref.RelativeHref(b.Path, resolver.ManualPath(p.OutputPath()))
		},
		"rel": func(p string) string {
			return b.RelPrefix + strings.TrimPrefix(p, "/")
		},
		"lineNumbers": LineNumbers,
		"humanize":    humanize.Seconds,
	}
}

var sourceHeader = regexp.MustCompile(`\A.*, line (\d+)`)

// LineNumbers prefixes a method listing whose first line ends in ", line N"
// with right-aligned line numbers. The header line is padded with blanks and
// numbering starts at N on the following line. Other listings are returned as is.
func LineNumbers(src string) string {
	m := sourceHeader.FindStringSubmatch(src)
	if m == nil {
		return src
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return src
	}
	first := n - 1
	last := first + strings.Count(src, "\n")
	width := len(strconv.Itoa(last))

	var b strings.Builder
	line := first
	for _, l := range strings.SplitAfter(src, "\n") {
		if l == "" {
			continue
		}
		if line == first {
			b.WriteString(strings.Repeat(" ", width+2))
		} else {
			fmt.Fprintf(&b, "%*d: ", width, line)
		}
		b.WriteString(l)
		line++
	}
	return b.String()
}
