// Package linkcheck verifies the relative links of an emitted site.
//
// Every .html file under the root is parsed; each relative href or src must
// name an existing file, and a fragment pointing at an HTML page must match
// an id on that page. Anchors carrying the broken-link marker class are
// reported as unresolved references.
package linkcheck

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

// BrokenLinkClass marks anchors whose reference could not be resolved at
// render time.
const BrokenLinkClass = "broken-link"

// ProblemKind classifies a link problem.
type ProblemKind string

const (
	MissingTarget       ProblemKind = "missing_target"
	MissingAnchor       ProblemKind = "missing_anchor"
	UnresolvedReference ProblemKind = "unresolved_reference"
	EscapingLink        ProblemKind = "escaping_link"
)

// Problem is one bad link.
type Problem struct {
	Kind   ProblemKind `json:"kind"`
	Page   string      `json:"page"`
	URL    string      `json:"url"`
	Detail string      `json:"detail,omitempty"`
}

func (p Problem) String() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s %q (%s)", p.Page, p.Kind, p.URL, p.Detail)
	}
	return fmt.Sprintf("%s: %s %q", p.Page, p.Kind, p.URL)
}

// Report summarizes a check.
type Report struct {
	Pages    int
	Links    int
	Problems []Problem
}

// OK reports whether no problems were found.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// Checker walks an output tree.
type Checker struct {
	fsys  fs.FS
	docs  map[string]*Document
	files map[string]bool
}

// New returns a checker over fsys, usually os.DirFS(outputDir).
func New(fsys fs.FS) *Checker {
	return &Checker{fsys: fsys}
}

// Check parses every page and verifies its links. Cancelling ctx stops the
// walk between pages.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	c.docs = make(map[string]*Document)
	c.files = make(map[string]bool)

	var pages []string
	err := fs.WalkDir(c.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		c.files[p] = true
		if strings.HasSuffix(p, ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk output tree").Build()
	}
	sort.Strings(pages)

	report := &Report{}
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := c.document(p)
		if err != nil {
			return nil, err
		}
		report.Pages++
		for _, l := range doc.Links {
			report.Links++
			if prob, bad := c.verify(p, doc, l); bad {
				slog.Warn("Broken link", logfields.Page(p), logfields.Reference(l.URL), slog.String("kind", string(prob.Kind)))
				report.Problems = append(report.Problems, prob)
			}
		}
	}
	slog.Debug("Link check finished", logfields.Count(report.Links), slog.Int("pages", report.Pages))
	return report, nil
}

func (c *Checker) document(p string) (*Document, error) {
	if doc, ok := c.docs[p]; ok {
		return doc, nil
	}
	f, err := c.fsys.Open(p)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open page").WithContext("page", p).Build()
	}
	defer func() { _ = f.Close() }()
	doc, err := Parse(f)
	if err != nil {
		return nil, err
	}
	c.docs[p] = doc
	return doc, nil
}

func (c *Checker) verify(page string, doc *Document, l Link) (Problem, bool) {
	prob := Problem{Page: page, URL: l.URL}

	if l.Tag == "a" && hasClass(l.Class, BrokenLinkClass) {
		prob.Kind = UnresolvedReference
		prob.Detail = l.Text
		return prob, true
	}
	if skip(l.URL) {
		return prob, false
	}

	u, err := url.Parse(l.URL)
	if err != nil {
		prob.Kind = MissingTarget
		prob.Detail = err.Error()
		return prob, true
	}
	if u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "/") {
		return prob, false
	}

	target := page
	targetDoc := doc
	if u.Path != "" {
		target = path.Join(path.Dir(page), u.Path)
		if target == ".." || strings.HasPrefix(target, "../") {
			prob.Kind = EscapingLink
			return prob, true
		}
		if strings.HasSuffix(u.Path, "/") || c.isDir(target) {
			target = path.Join(target, "index.html")
		}
		if !c.files[target] {
			prob.Kind = MissingTarget
			prob.Detail = target
			return prob, true
		}
		targetDoc = nil
	}

	if u.Fragment == "" || !strings.HasSuffix(target, ".html") {
		return prob, false
	}
	if targetDoc == nil {
		d, err := c.document(target)
		if err != nil {
			prob.Kind = MissingTarget
			prob.Detail = err.Error()
			return prob, true
		}
		targetDoc = d
	}
	if !targetDoc.IDs[u.Fragment] {
		prob.Kind = MissingAnchor
		prob.Detail = target
		return prob, true
	}
	return prob, false
}

func (c *Checker) isDir(p string) bool {
	info, err := fs.Stat(c.fsys, p)
	return err == nil && info.IsDir()
}

func skip(raw string) bool {
	if raw == "" || raw == "#" {
		return true
	}
	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}
