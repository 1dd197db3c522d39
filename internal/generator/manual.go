package generator

import (
	"path"

	"git.home.luguber.info/inful/docsmith/internal/catalog"
	"git.home.luguber.info/inful/docsmith/internal/render"
)

// ManualBackend renders every catalog page plus a contents page.
type ManualBackend struct{}

func (ManualBackend) Name() string { return "manual" }

func (b ManualBackend) Render(in *Inputs, out Output) error {
	pages := in.Catalog.Pages()
	base := render.Bindings{
		Pages:    pages,
		Resolver: in.Resolver,
		Site:     in.Site,
	}
	if in.Index != nil {
		base.Modules = in.Index.SortedModules()
		base.Files = in.Index.Files()
	}

	for _, p := range pages {
		if err := b.page(in, out, base, p); err != nil {
			return err
		}
	}

	if in.Renderer.Has(render.ManualIndexTemplate) {
		bind := base
		bind.Path = in.Resolver.ManualPath("index.html")
		bind.Source = "index"
		if _, clash := in.Catalog.ByPath("index" + catalog.PageSuffix); !clash {
			if err := renderPage(in, out, b.Name(), render.ManualIndexTemplate, bind); err != nil {
				return err
			}
		}
	}
	return emitSupport(in, out, in.Resolver.ManualPath(""))
}

func (b ManualBackend) page(in *Inputs, out Output, base render.Bindings, p *catalog.Page) error {
	dest := in.Resolver.ManualPath(p.OutputPath())
	prose, err := in.Prose(p.Filters)
	if err != nil {
		return out.PageFailed(b.Name(), dest, p.Source, err)
	}
	content, err := prose.Render(p.Body, dest, path.Join(in.Config.Manual.Source, p.Source))
	if err != nil {
		return out.PageFailed(b.Name(), dest, p.Source, err)
	}

	bind := base
	bind.Entity = p
	bind.Content = content
	bind.Path = dest
	bind.RelPrefix = p.Basepath
	bind.Source = p.Source
	return renderPage(in, out, b.Name(), render.ManualTemplate, bind)
}
