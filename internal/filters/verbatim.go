package filters

import (
	"strconv"
	"strings"
)

// Verbatim holds rendered fragments that later Markdown conversion must not
// touch. Filters store a fragment and emit an opaque token in its place;
// Restore swaps the tokens back once conversion is done.
type Verbatim struct {
	fragments []string
}

func verbatimToken(i int) string {
	return "docsmithverbatim" + strconv.Itoa(i) + "x"
}

// Hold stores html and returns the token standing in for it.
func (v *Verbatim) Hold(html string) string {
	v.fragments = append(v.fragments, html)
	return verbatimToken(len(v.fragments) - 1)
}

// Restore replaces every token in s with its fragment. A token that Markdown
// wrapped into a paragraph of its own is replaced together with the
// paragraph, so block containers do not end up nested in <p>.
func (v *Verbatim) Restore(s string) string {
	if len(v.fragments) == 0 {
		return s
	}
	pairs := make([]string, 0, 4*len(v.fragments))
	for i, html := range v.fragments {
		tok := verbatimToken(i)
		pairs = append(pairs, "<p>"+tok+"</p>", html, tok, html)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
