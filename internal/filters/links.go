package filters

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

var (
	apiPI  = regexp.MustCompile(`<\?api\s+(?:"(.*?)":)?(.*?)\s+\?>`)
	linkPI = regexp.MustCompile(`<\?link\s+(?:"(.*?)":)?(.*?)\s+\?>`)

	// Apostrophes stay readable in tooltips; attributes are always double-quoted.
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// APIFilter rewrites `<?api ClassName ?>` and `<?api "text":ClassName ?>`.
type APIFilter struct{}

func (APIFilter) Name() string { return NameAPI }

func (APIFilter) Process(src string, ctx *Context) (string, error) {
	return rewriteLinks(src, ctx, apiPI, func(r *xref.Resolver, target, text string) xref.Result {
		return r.ResolveClass(ctx.Page, target, text)
	}), nil
}

// LinkFilter rewrites `<?link Page Title ?>`, `<?link path/to/Page.page ?>`
// and their quoted-text variants.
type LinkFilter struct{}

func (LinkFilter) Name() string { return NameLinks }

func (LinkFilter) Process(src string, ctx *Context) (string, error) {
	return rewriteLinks(src, ctx, linkPI, func(r *xref.Resolver, target, text string) xref.Result {
		return r.ResolvePage(ctx.Page, target, text)
	}), nil
}

type resolveFunc func(r *xref.Resolver, target, text string) xref.Result

func rewriteLinks(src string, ctx *Context, pi *regexp.Regexp, resolve resolveFunc) string {
	resolver := ctx.Resolver
	if resolver == nil {
		resolver = xref.New(nil, nil, xref.Options{})
	}
	return pi.ReplaceAllStringFunc(src, func(match string) string {
		m := pi.FindStringSubmatch(match)
		res := resolve(resolver, m[2], m[1])
		if !res.Broken {
			return fmt.Sprintf(`<a href="%s">%s</a>`, attrEscaper.Replace(res.Href), attrEscaper.Replace(res.Text))
		}
		slog.Warn(res.Reason, logfields.Page(ctx.source()), logfields.Reference(res.Reference))
		ctx.report(diagnostics.KindBrokenLink, res.Reference, res.Reason)
		return BrokenLink(res)
	})
}

// BrokenLink renders the visibly flagged anchor for an unresolved reference.
func BrokenLink(res xref.Result) string {
	return fmt.Sprintf(`<a href="#" title="%s" class="broken-link">%s</a>`, attrEscaper.Replace(res.Reason), attrEscaper.Replace(res.Text))
}
