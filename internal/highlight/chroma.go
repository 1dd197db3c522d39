package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Chroma highlights with chroma lexers and emits CSS classes rather than inline styles.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChroma returns a chroma-backed highlighter. Unknown style names fall back
// to chroma's default style.
func NewChroma(style string, lineNumbers bool) *Chroma {
	if style == "" {
		style = DefaultStyle
	}
	return &Chroma{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithLineNumbers(lineNumbers),
		),
	}
}

func (c *Chroma) Supports(lang string) bool {
	return lang != "" && lexers.Get(lang) != nil
}

func (c *Chroma) Highlight(text, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := c.formatter.Format(&b, c.style, it); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (c *Chroma) Names() []string { return lexers.Names(true) }

// WriteCSS writes the stylesheet matching the configured style.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}
