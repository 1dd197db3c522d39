package generator

import (
	"git.home.luguber.info/inful/docsmith/internal/render"
	"git.home.luguber.info/inful/docsmith/internal/vcsid"
	"git.home.luguber.info/inful/docsmith/internal/xref"
)

// HTMLBackend writes darkfish API pages: files, then classes, then the index.
type HTMLBackend struct{}

func (HTMLBackend) Name() string { return "html" }

func (b HTMLBackend) Render(in *Inputs, out Output) error {
	idx := in.Index
	base := render.Bindings{
		Modules:  idx.SortedModules(),
		Files:    idx.Files(),
		Resolver: in.Resolver,
		Site:     in.Site,
	}
	if in.Catalog != nil {
		base.Pages = in.Catalog.Pages()
	}

	for _, f := range idx.Files() {
		bind := base
		bind.Entity = f
		bind.Related = idx.ClassesIn(f.Path)
		bind.Path = in.Resolver.APIPath(f.OutputPath)
		bind.RelPrefix = xref.RootPrefix(f.OutputPath)
		bind.Source = f.Path
		if err := renderPage(in, out, b.Name(), render.FileTemplate, bind); err != nil {
			return err
		}
	}

	for _, c := range idx.Classes() {
		bind := base
		bind.Entity = c
		bind.Path = in.Resolver.APIPath(c.OutputPath)
		bind.RelPrefix = xref.RootPrefix(c.OutputPath)
		bind.Source = c.Name
		bind.VCS = vcsid.Extract(c, in.Reference)
		if err := renderPage(in, out, b.Name(), render.ClassTemplate, bind); err != nil {
			return err
		}
	}

	bind := base
	bind.Path = in.Resolver.APIPath("index.html")
	bind.Source = "index"
	if err := renderPage(in, out, b.Name(), render.IndexTemplate, bind); err != nil {
		return err
	}
	return emitSupport(in, out, in.Resolver.APIPath(""))
}
