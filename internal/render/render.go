// Package render evaluates page templates against a fixed set of bindings.
//
// Templates come from an fs.FS: the embedded darkfish theme by default, or a
// directory supplied by configuration. Every page template is parsed together
// with the shared _layout.html. Evaluation failures never yield partial
// output; they are reported with the template file, the original message and
// the tail of the output produced so far.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"

	"git.home.luguber.info/inful/docsmith/internal/catalog"
	"git.home.luguber.info/inful/docsmith/internal/entities"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/vcsid"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

// Template names.
const (
	LayoutTemplate      = "_layout.html"
	IndexTemplate       = "index.html"
	ClassTemplate       = "classpage.html"
	FileTemplate        = "filepage.html"
	ManualTemplate      = "manualpage.html"
	ManualIndexTemplate = "manualindex.html"
)

// fragmentLen bounds the output tail quoted in evaluation errors.
const fragmentLen = 50

// Site describes the generated site as a whole.
type Site struct {
	Title        string
	Generator    string
	Version      string
	HighlightCSS bool
}

// Bindings is everything a template may read.
type Bindings struct {
	// Entity is the *entities.Class, *entities.File or *catalog.Page being
	// rendered, or nil for index pages.
	Entity any
	// Related lists classes declared in the file on file pages.
	Related []*entities.Class
	Modules []*entities.Class
	Files   []*entities.File
	Pages   []*catalog.Page
	// RelPrefix leads from the page's directory to the root of its tree.
	RelPrefix string
	Resolver  *xref.Resolver
	Site      Site
	// Content is pre-rendered prose (manual pages).
	Content template.HTML
	VCS     *vcsid.Info

	// Path is the site-root-relative output path of the page.
	Path string
	// Source names the page in diagnostics.
	Source string
}

// Renderer parses templates lazily and caches the parsed sets.
type Renderer struct {
	fsys   fs.FS
	origin string
	prose  *Prose

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// New returns a renderer reading templates from fsys. origin names the
// template source in error messages. prose may be nil, in which case
// descriptions are rendered as escaped paragraphs.
func New(fsys fs.FS, origin string, prose *Prose) *Renderer {
	return &Renderer{
		fsys:   fsys,
		origin: origin,
		prose:  prose,
		parsed: make(map[string]*template.Template),
	}
}

// Has reports whether the template source contains name.
func (r *Renderer) Has(name string) bool {
	_, err := fs.Stat(r.fsys, name)
	return err == nil
}

// Render evaluates template name with b.
func (r *Renderer) Render(name string, b Bindings) (string, error) {
	master, err := r.load(name)
	if err != nil {
		return "", err
	}
	tpl, err := master.Clone()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "cannot clone template").
			WithContext(logfields.KeyTemplate, name).
			Build()
	}
	tpl.Funcs(r.funcs(&b))

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, b); err != nil {
		// Failures raised by template functions (an unterminated example in a
		// description) keep their own classification.
		if inner, ok := errors.AsClassified(err); ok {
			return "", inner
		}
		fragment := tail(buf.String(), fragmentLen)
		file := r.file(name)
		return "", errors.WrapError(err, errors.CategoryTemplate,
			fmt.Sprintf("Error while evaluating %s: %s (at %q)", file, err.Error(), fragment)).
			WithContext(logfields.KeyTemplate, file).
			WithContext("fragment", fragment).
			WithContext(logfields.KeyPage, b.Path).
			Build()
	}
	return buf.String(), nil
}

func (r *Renderer) file(name string) string {
	if r.origin == "" {
		return name
	}
	return path.Join(r.origin, name)
}

func (r *Renderer) load(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.parsed[name]; ok {
		return t, nil
	}

	layout, err := fs.ReadFile(r.fsys, LayoutTemplate)
	if err != nil {
		return nil, r.missing(LayoutTemplate, err)
	}
	page, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, r.missing(name, err)
	}

	t := template.New(name).Option("missingkey=error").Funcs(r.funcs(nil))
	if _, err := t.New(LayoutTemplate).Parse(string(layout)); err != nil {
		return nil, r.parseError(LayoutTemplate, err)
	}
	if _, err := t.Parse(string(page)); err != nil {
		return nil, r.parseError(name, err)
	}
	r.parsed[name] = t
	return t, nil
}

func (r *Renderer) missing(name string, err error) error {
	return errors.WrapError(err, errors.CategoryTemplate, fmt.Sprintf("template %s not found", r.file(name))).
		Fatal().
		WithContext(logfields.KeyTemplate, r.file(name)).
		Build()
}

func (r *Renderer) parseError(name string, err error) error {
	return errors.WrapError(err, errors.CategoryTemplate, fmt.Sprintf("cannot parse template %s", r.file(name))).
		Fatal().
		WithContext(logfields.KeyTemplate, r.file(name)).
		Build()
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	// Do not start in the middle of a UTF-8 sequence.
	for len(s) > 0 && s[0]&0xC0 == 0x80 {
		s = s[1:]
	}
	return s
}
