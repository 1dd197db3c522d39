package linkcheck

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// Link is a reference found in an HTML document.
type Link struct {
	URL       string
	Text      string
	Tag       string
	Attribute string
	Class     string
}

// Document holds the links of a page and the fragment ids it defines.
type Document struct {
	Links []Link
	IDs   map[string]bool
}

// linkAttrs maps element names to the attribute carrying their reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// Parse extracts links and ids from an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	doc := &Document{IDs: make(map[string]bool)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				doc.IDs[id] = true
			}
			if n.Data == "a" {
				if name := attr(n, "name"); name != "" {
					doc.IDs[name] = true
				}
			}
			if key, ok := linkAttrs[n.Data]; ok {
				if v, has := lookup(n, key); has {
					doc.Links = append(doc.Links, Link{
						URL:       v,
						Text:      text(n),
						Tag:       n.Data,
						Attribute: key,
						Class:     attr(n, "class"),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

func lookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookup(n, key)
	return v
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
	}
	return strings.TrimSpace(b.String())
}

// hasClass reports whether the space separated class list contains name.
func hasClass(list, name string) bool {
	for _, c := range strings.Fields(list) {
		if c == name {
			return true
		}
	}
	return false
}
