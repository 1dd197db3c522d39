// Package diagnostics collects non-fatal findings of a run, such as broken
// cross-references, so they can be summarized and counted after rendering.
package diagnostics

import (
	"sort"
	"sync"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindBrokenLink      Kind = "broken_link"
	KindUnknownLanguage Kind = "unknown_language"
	KindInvalidExample  Kind = "invalid_example"
	KindHighlightFailed Kind = "highlight_failed"
)

// Diagnostic is a single finding. Page is the page being rendered.
type Diagnostic struct {
	Kind      Kind   `json:"kind"`
	Page      string `json:"page"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message"`
}

// Sink accumulates diagnostics. The zero value is ready to use and a nil
// *Sink discards everything.
type Sink struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Add records d.
func (s *Sink) Add(d Diagnostic) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.items = append(s.items, d)
	s.mu.Unlock()
}

// Items returns a copy of the recorded diagnostics in insertion order.
func (s *Sink) Items() []Diagnostic {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns how many diagnostics of kind k were recorded.
func (s *Sink) Count(k Kind) int {
	n := 0
	for _, d := range s.Items() {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Summary counts diagnostics per kind.
func (s *Sink) Summary() map[Kind]int {
	out := map[Kind]int{}
	for _, d := range s.Items() {
		out[d.Kind]++
	}
	return out
}

// Kinds returns the kinds present, sorted.
func (s *Sink) Kinds() []Kind {
	summary := s.Summary()
	kinds := make([]Kind, 0, len(summary))
	for k := range summary {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
