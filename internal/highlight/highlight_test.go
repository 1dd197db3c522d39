package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain_EscapesOnly(t *testing.T) {
	out, err := NewRegistry().Highlight("hello", "text")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = NewRegistry().Highlight(`<a href="x">&</a>`, "plain")
	require.NoError(t, err)
	assert.Equal(t, "&lt;a href=&#34;x&#34;&gt;&amp;&lt;/a&gt;", out)
}

func TestRegistry_UnknownLanguageFallsBack(t *testing.T) {
	r := NewRegistry(NewChroma("", false))

	assert.False(t, r.Supports("definitely-not-a-language"))
	out, err := r.Highlight("x < y", "definitely-not-a-language")
	require.NoError(t, err)
	assert.Equal(t, "x &lt; y", out)
}

func TestChroma_HighlightsKnownLanguage(t *testing.T) {
	c := NewChroma("monokai", false)
	require.True(t, c.Supports("go"))
	require.False(t, c.Supports(""))

	out, err := c.Highlight("package main\n", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "package")
	assert.Contains(t, out, `class="`)
	assert.NotContains(t, out, "<pre")

	var css strings.Builder
	require.NoError(t, c.WriteCSS(&css))
	assert.NotEmpty(t, css.String())
}

type failing struct{}

func (failing) Supports(lang string) bool                { return lang == "boom" }
func (failing) Highlight(string, string) (string, error) { return "", errors.New("lexer exploded") }

func TestRegistry_HighlighterErrorReturnsPlain(t *testing.T) {
	out, err := NewRegistry(failing{}).Highlight("a&b", "boom")
	require.Error(t, err)
	assert.Equal(t, "a&amp;b", out)
}

func TestSuggest(t *testing.T) {
	known := []string{"ruby", "rust", "go", "python", "perl", "yaml", "json"}

	assert.Equal(t, []string{"ruby", "rust"}, Suggest("rubu", known, 2))
	assert.Len(t, Suggest("x", known, 5), 5)
	assert.Empty(t, Suggest("x", nil, 5))
}

func TestRegistry_NamesIncludeChromaLexers(t *testing.T) {
	r := NewRegistry(NewChroma("", false))
	assert.Contains(t, r.Names(), "go")
	assert.Contains(t, r.Names(), "text")
	assert.Contains(t, r.Suggest("pyhton"), "python")
}
