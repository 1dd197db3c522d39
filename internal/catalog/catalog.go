// Package catalog indexes manual pages (`.page` sources) by source path and title.
//
// A Catalog is built once before any rendering and is read-only afterwards.
// Pages are indexed in lexical walk order, which makes title resolution
// deterministic: when two pages share a title the first one indexed wins and
// the collision is reported as a Duplicate.
package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/frontmatter"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

// PageSuffix marks manual page sources.
const PageSuffix = ".page"

// Page is a single manual page.
type Page struct {
	// Source is the slash-separated path relative to the manual root ("guide/Intro.page").
	Source string
	Title  string
	// Basepath is the relative prefix from the page's directory to the manual root ("../").
	Basepath string
	// Filters overrides the default filter chain when non-nil.
	Filters []string
	Fields  map[string]any
	Body    string
}

// OutputPath is the page's destination relative to the manual root.
func (p *Page) OutputPath() string {
	return strings.TrimSuffix(p.Source, PageSuffix) + ".html"
}

// Duplicate records a title shared by more than one page.
type Duplicate struct {
	Title   string
	Kept    string
	Ignored string
}

// Options control catalog construction.
type Options struct {
	// StrictTitles turns duplicate titles into an error.
	StrictTitles bool
}

// Catalog is the immutable page index.
type Catalog struct {
	pages      []*Page
	byPath     map[string]*Page
	byTitle    map[string]*Page
	duplicates []Duplicate
}

type pageMeta struct {
	Title   string   `yaml:"title"`
	Filters []string `yaml:"filters"`
}

// Load walks fsys for `.page` files, skipping hidden directories, and indexes them.
func Load(fsys fs.FS, opts Options) (*Catalog, error) {
	var pages []*Page
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, PageSuffix) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		page, err := ParsePage(p, data)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read manual sources").Build()
	}
	return New(pages, opts)
}

// ParsePage builds a Page from its source path and raw content.
func ParsePage(source string, data []byte) (*Page, error) {
	header, body, _, err := frontmatter.Split(data)
	if err != nil {
		return nil, pageError(source, err)
	}
	var meta pageMeta
	if err := frontmatter.Decode(header, &meta); err != nil {
		return nil, pageError(source, err)
	}
	fields, err := frontmatter.Fields(header)
	if err != nil {
		return nil, pageError(source, err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = TitleFromSource(source)
	}
	return &Page{
		Source:   source,
		Title:    title,
		Basepath: Basepath(source),
		Filters:  meta.Filters,
		Fields:   fields,
		Body:     string(body),
	}, nil
}

func pageError(source string, err error) error {
	return errors.WrapError(err, errors.CategoryValidation, fmt.Sprintf("invalid manual page %s", source)).
		WithContext(logfields.KeyPage, source).
		Build()
}

// TitleFromSource derives a display title from a source name:
// "guide/getting_started.page" -> "Getting Started".
func TitleFromSource(source string) string {
	base := strings.TrimSuffix(path.Base(source), PageSuffix)
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Basepath returns the relative prefix from the directory of source back to the root.
func Basepath(source string) string {
	dir := path.Dir(source)
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

// New indexes pages in the given order.
func New(pages []*Page, opts Options) (*Catalog, error) {
	c := &Catalog{
		byPath:  make(map[string]*Page, len(pages)),
		byTitle: make(map[string]*Page, len(pages)),
	}
	for _, p := range pages {
		if _, dup := c.byPath[p.Source]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("manual page %s indexed twice", p.Source)).
				WithContext(logfields.KeyPage, p.Source).
				Build()
		}
		c.byPath[p.Source] = p
		c.pages = append(c.pages, p)

		if first, dup := c.byTitle[p.Title]; dup {
			d := Duplicate{Title: p.Title, Kept: first.Source, Ignored: p.Source}
			c.duplicates = append(c.duplicates, d)
			slog.Warn("Duplicate manual page title; links by title resolve to the first page",
				slog.String("title", d.Title),
				slog.String("kept", d.Kept),
				logfields.Page(d.Ignored))
			continue
		}
		c.byTitle[p.Title] = p
	}

	if opts.StrictTitles && len(c.duplicates) > 0 {
		d := c.duplicates[0]
		return nil, errors.ValidationError(fmt.Sprintf("duplicate manual page title %q (%s and %s)", d.Title, d.Kept, d.Ignored)).
			WithContext("duplicates", len(c.duplicates)).
			Build()
	}
	return c, nil
}

// ByPath looks up a page by source path relative to the manual root.
func (c *Catalog) ByPath(source string) (*Page, bool) {
	p, ok := c.byPath[source]
	return p, ok
}

// ByTitle looks up a page by exact, case-sensitive title.
func (c *Catalog) ByTitle(title string) (*Page, bool) {
	p, ok := c.byTitle[title]
	return p, ok
}

// Pages returns every page in index order.
func (c *Catalog) Pages() []*Page { return c.pages }

// Duplicates returns the title collisions found during construction.
func (c *Catalog) Duplicates() []Duplicate { return c.duplicates }

// Len is the number of indexed pages.
func (c *Catalog) Len() int { return len(c.pages) }
