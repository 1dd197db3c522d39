package generator

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/docsmith/internal/entities"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// JSONIndexFile is the file the json backend writes at the API tree root.
const JSONIndexFile = "index.json"

// JSONBackend writes the whole index as one JSON document for tooling.
type JSONBackend struct{}

func (JSONBackend) Name() string { return "json" }

type jsonIndex struct {
	Generator string              `json:"generator"`
	Version   string              `json:"version"`
	Title     string              `json:"title"`
	Separator string              `json:"namespace_separator"`
	Classes   []*entities.Class   `json:"classes"`
	Files     []*entities.File    `json:"files"`
	Modules   []string            `json:"modules"`
	Pages     []map[string]string `json:"pages,omitempty"`
}

func (b JSONBackend) Render(in *Inputs, out Output) error {
	start := time.Now()
	idx := in.Index
	doc := jsonIndex{
		Generator: in.Site.Generator,
		Version:   in.Site.Version,
		Title:     in.Site.Title,
		Separator: idx.Separator(),
		Classes:   idx.Classes(),
		Files:     idx.Files(),
	}
	for _, c := range idx.SortedModules() {
		doc.Modules = append(doc.Modules, c.Name)
	}
	if in.Catalog != nil {
		for _, p := range in.Catalog.Pages() {
			doc.Pages = append(doc.Pages, map[string]string{
				"title":  p.Title,
				"source": p.Source,
				"path":   in.Resolver.ManualPath(p.OutputPath()),
			})
		}
	}

	dest := in.Resolver.APIPath(JSONIndexFile)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return out.PageFailed(b.Name(), dest, "index", errors.WrapError(err, errors.CategoryRender, "cannot encode API index").Build())
	}
	return out.Page(RenderedPage{
		Backend: b.Name(),
		Path:    dest,
		Source:  "index",
		Data:    append(data, '\n'),
		Elapsed: time.Since(start),
	})
}
