// Package highlight turns example code into highlighted HTML.
//
// Highlighters are capabilities keyed by language name. A Registry consults
// them in order and falls back to escaped plain text for languages nobody
// supports, so an unknown language never fails a page.
package highlight

import (
	"html"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Highlighter renders text in a language as an HTML fragment without a surrounding <pre>.
type Highlighter interface {
	Supports(lang string) bool
	Highlight(text, lang string) (string, error)
}

// Namer is implemented by highlighters that can list the language names they know.
type Namer interface {
	Names() []string
}

// Plain escapes text and adds no markup. It handles "text", "plain" and the empty language.
type Plain struct{}

func (Plain) Supports(lang string) bool {
	switch strings.ToLower(lang) {
	case "", "text", "plain", "plaintext":
		return true
	}
	return false
}

func (Plain) Highlight(text, _ string) (string, error) {
	return html.EscapeString(text), nil
}

func (Plain) Names() []string { return []string{"plain", "plaintext", "text"} }

// Registry dispatches to the first highlighter that supports a language.
type Registry struct {
	highlighters []Highlighter
	fallback     Plain
	names        []string
}

// NewRegistry consults highlighters in the given order after the built-in Plain.
func NewRegistry(highlighters ...Highlighter) *Registry {
	r := &Registry{highlighters: append([]Highlighter{Plain{}}, highlighters...)}
	seen := map[string]bool{}
	for _, h := range r.highlighters {
		n, ok := h.(Namer)
		if !ok {
			continue
		}
		for _, name := range n.Names() {
			name = strings.ToLower(name)
			if !seen[name] {
				seen[name] = true
				r.names = append(r.names, name)
			}
		}
	}
	sort.Strings(r.names)
	return r
}

// Supports reports whether any registered highlighter knows lang.
func (r *Registry) Supports(lang string) bool {
	return r.lookup(lang) != nil
}

// Highlight renders text with the first supporting highlighter, or as escaped
// plain text when none supports lang. An error means the chosen highlighter
// failed; the returned string is then the plain rendering.
func (r *Registry) Highlight(text, lang string) (string, error) {
	h := r.lookup(lang)
	if h == nil {
		return r.fallback.Highlight(text, lang)
	}
	out, err := h.Highlight(text, lang)
	if err != nil {
		plain, _ := r.fallback.Highlight(text, lang)
		return plain, err
	}
	return out, nil
}

func (r *Registry) lookup(lang string) Highlighter {
	for _, h := range r.highlighters {
		if h.Supports(lang) {
			return h
		}
	}
	return nil
}

// Names lists every language name known to the registry, sorted.
func (r *Registry) Names() []string { return r.names }

// Suggest returns up to five known language names closest to lang by edit distance.
func (r *Registry) Suggest(lang string) []string {
	return Suggest(lang, r.names, 5)
}

// Suggest ranks known by Levenshtein distance to lang (ties broken by name)
// and returns at most n of them.
func Suggest(lang string, known []string, n int) []string {
	type scored struct {
		name string
		dist int
	}
	target := strings.ToLower(lang)
	ranked := make([]scored, 0, len(known))
	for _, k := range known {
		ranked = append(ranked, scored{k, levenshtein.ComputeDistance(target, strings.ToLower(k))})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.name
	}
	return out
}
