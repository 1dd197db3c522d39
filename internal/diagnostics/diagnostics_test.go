package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink(t *testing.T) {
	var s Sink
	s.Add(Diagnostic{Kind: KindBrokenLink, Page: "a.html", Reference: "X"})
	s.Add(Diagnostic{Kind: KindUnknownLanguage, Page: "a.html", Reference: "rubby"})
	s.Add(Diagnostic{Kind: KindBrokenLink, Page: "b.html", Reference: "Y"})

	assert.Equal(t, 2, s.Count(KindBrokenLink))
	assert.Equal(t, map[Kind]int{KindBrokenLink: 2, KindUnknownLanguage: 1}, s.Summary())
	assert.Equal(t, []Kind{KindBrokenLink, KindUnknownLanguage}, s.Kinds())

	items := s.Items()
	items[0].Page = "mutated"
	assert.Equal(t, "a.html", s.Items()[0].Page)
}

func TestNilSinkDiscards(t *testing.T) {
	var s *Sink
	s.Add(Diagnostic{Kind: KindBrokenLink})
	assert.Nil(t, s.Items())
	assert.Equal(t, 0, s.Count(KindBrokenLink))
}
