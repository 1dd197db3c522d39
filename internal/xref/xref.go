// Package xref resolves class names and manual page references to relative hrefs.
//
// All page paths handled here are slash-separated and relative to the site
// root, so hrefs computed between them stay valid when the tree is moved.
package xref

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/catalog"
	"git.home.luguber.info/inful/docsmith/internal/index"
)

// Result is the outcome of a lookup. A miss has Broken set and carries the
// attempted Reference and a human-readable Reason; it is never an error.
type Result struct {
	Href      string
	Text      string
	Broken    bool
	Reference string
	Reason    string
}

// Options place the API and manual trees below the site root.
type Options struct {
	APIPrefix    string
	ManualPrefix string
}

// Resolver performs pure lookups against an index and an optional catalog.
type Resolver struct {
	index        *index.Index
	catalog      *catalog.Catalog
	apiPrefix    string
	manualPrefix string
}

// New returns a resolver. Either idx or cat may be nil; lookups against a
// missing source simply miss.
func New(idx *index.Index, cat *catalog.Catalog, opts Options) *Resolver {
	return &Resolver{
		index:        idx,
		catalog:      cat,
		apiPrefix:    cleanPrefix(opts.APIPrefix),
		manualPrefix: cleanPrefix(opts.ManualPrefix),
	}
}

func cleanPrefix(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	return p
}

// APIPath is the site-root-relative path of a file inside the API tree.
func (r *Resolver) APIPath(rel string) string { return path.Join(r.apiPrefix, rel) }

// ManualPath is the site-root-relative path of a file inside the manual tree.
func (r *Resolver) ManualPath(rel string) string { return path.Join(r.manualPrefix, rel) }

// ResolveClass looks up a fully qualified class name for a link on page from.
// text overrides the display text when non-empty.
func (r *Resolver) ResolveClass(from, name, text string) Result {
	if r.index != nil {
		if c, ok := r.index.Class(name); ok {
			return Result{
				Href:      RelativeHref(from, r.APIPath(c.OutputPath)),
				Text:      orDefault(text, c.Name),
				Reference: name,
			}
		}
	}
	return Result{
		Href:      "#",
		Text:      orDefault(text, name),
		Broken:    true,
		Reference: name,
		Reason:    fmt.Sprintf("Could not find a link for class '%s'", name),
	}
}

// ResolvePage looks up a manual page by source path (refs ending in ".page")
// or by exact title, for a link on page from.
func (r *Resolver) ResolvePage(from, ref, text string) Result {
	var (
		p  *catalog.Page
		ok bool
	)
	if r.catalog != nil {
		if strings.HasSuffix(ref, catalog.PageSuffix) {
			p, ok = r.catalog.ByPath(ref)
		} else {
			p, ok = r.catalog.ByTitle(ref)
		}
	}
	if !ok {
		return Result{
			Href:      "#",
			Text:      orDefault(text, ref),
			Broken:    true,
			Reference: ref,
			Reason:    fmt.Sprintf("Could not find a link for reference '%s'", ref),
		}
	}
	return Result{
		Href:      RelativeHref(from, r.ManualPath(p.OutputPath())),
		Text:      orDefault(text, p.Title),
		Reference: ref,
	}
}

// RelativeHref returns the path to target as seen from the directory of page from.
func RelativeHref(from, target string) string {
	fromDir := path.Dir(path.Clean("/" + from))
	to := path.Clean("/" + target)

	fromParts := split(fromDir)
	toParts := split(to)

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}

	var b strings.Builder
	for range fromParts[common:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(toParts[common:], "/"))
	return b.String()
}

// RootPrefix is the relative prefix from the directory of page back to the site root.
func RootPrefix(page string) string {
	return strings.Repeat("../", len(split(path.Dir(path.Clean("/"+page)))))
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
