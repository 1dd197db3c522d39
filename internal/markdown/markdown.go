// Package markdown converts filtered documentation prose to HTML with goldmark.
//
// Raw HTML is passed through untouched: the markup filters run first and
// emit anchors and example containers that must survive this pass.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options tweak conversion.
type Options struct {
	// HardWraps renders single newlines inside paragraphs as <br>.
	HardWraps bool
}

// Converter renders Markdown to HTML.
type Converter struct {
	md goldmark.Markdown
}

// New returns a GFM converter with heading ids and raw HTML passthrough.
func New(opts Options) *Converter {
	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	return &Converter{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlOpts...),
	)}
}

// Convert renders src.
func (c *Converter) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
