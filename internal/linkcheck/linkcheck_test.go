package linkcheck

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("<!DOCTYPE html><html><body>" + body + "</body></html>")}
}

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><head><link rel="stylesheet" href="rdoc.css"></head>
<body><h1 id="top">T</h1><a name="old"></a><a href="A.html#x">A <b>class</b></a><img src="i.png" alt="i"></body></html>`))
	require.NoError(t, err)

	assert.True(t, doc.IDs["top"])
	assert.True(t, doc.IDs["old"])
	require.Len(t, doc.Links, 3)
	assert.Equal(t, Link{URL: "rdoc.css", Tag: "link", Attribute: "href"}, doc.Links[0])
	assert.Equal(t, "A class", doc.Links[1].Text)
	assert.Equal(t, "img", doc.Links[2].Tag)
}

func TestCheck_CleanTree(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":              page(`<a href="Foo/Bar.html">Bar</a><a href="rdoc.css">css</a><a href="https://example.org/">ext</a>`),
		"rdoc.css":                {Data: []byte("body{}")},
		"Foo/Bar.html":            page(`<h3 id="method-i-run">run</h3><a href="../index.html">up</a><a href="#method-i-run">self</a>`),
		"manual/index.html":       page(`<a href="guide/">guide</a><a href="../Foo/Bar.html#method-i-run">run</a>`),
		"manual/guide/index.html": page(`<a href="mailto:x@example.org">mail</a>`),
	}

	report, err := New(fsys).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK(), "%v", report.Problems)
	assert.Equal(t, 4, report.Pages)
	assert.Equal(t, 8, report.Links)
}

func TestCheck_Problems(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": page(`<a href="Missing.html">m</a>` +
			`<a href="Foo.html#nope">anchor</a>` +
			`<a href="#" title="Could not find a link for class 'Nope'" class="broken-link">Nope</a>` +
			`<a href="../outside.html">out</a>`),
		"Foo.html": page(`<p id="yes">y</p>`),
	}

	report, err := New(fsys).Check(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Problems, 4)

	kinds := make([]ProblemKind, 0, len(report.Problems))
	for _, p := range report.Problems {
		kinds = append(kinds, p.Kind)
		assert.Equal(t, "index.html", p.Page)
	}
	assert.Equal(t, []ProblemKind{MissingTarget, MissingAnchor, UnresolvedReference, EscapingLink}, kinds)
	assert.Equal(t, "Nope", report.Problems[2].Detail)
	assert.Contains(t, report.Problems[0].String(), `missing_target "Missing.html"`)
}

func TestCheck_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fstest.MapFS{"index.html": page("")}).Check(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
