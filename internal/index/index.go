// Package index builds the per-run lookup structures over an entity feed.
package index

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/entities"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// DefaultSeparator separates namespace segments in class names.
const DefaultSeparator = "::"

// Options control index construction.
type Options struct {
	Separator      string
	ExcludePrivate bool
}

// Index holds files keyed by path and classes keyed by fully qualified name.
// It is immutable once Build returns.
type Index struct {
	sep       string
	byPath    map[string]*entities.File
	byName    map[string]*entities.Class
	files     []*entities.File
	classes   []*entities.Class
	modules   []*entities.Class
	fileOwned map[string][]*entities.Class
}

// Build copies every entity out of feed, attaches its output path and indexes it.
// A missing or duplicate identity is a fatal configuration error naming the entry.
func Build(feed *entities.Feed, opts Options) (*Index, error) {
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	idx := &Index{
		sep:       sep,
		byPath:    make(map[string]*entities.File),
		byName:    make(map[string]*entities.Class),
		fileOwned: make(map[string][]*entities.Class),
	}
	if feed == nil {
		return idx, nil
	}

	firstFile := make(map[string]int, len(feed.Files))
	for i := range feed.Files {
		f := feed.Files[i]
		pos := i + 1
		if strings.TrimSpace(f.Path) == "" {
			return nil, malformed("file entry %d has no path", pos).WithContext("position", pos).Build()
		}
		if prev, dup := firstFile[f.Path]; dup {
			return nil, malformed("duplicate file %q at entry %d (first defined at entry %d)", f.Path, pos, prev).
				WithContext("file", f.Path).
				WithContext("position", pos).
				Build()
		}
		firstFile[f.Path] = pos
		f.OutputPath = FileOutputPath(f.Path)
		idx.byPath[f.Path] = &f
		idx.files = append(idx.files, &f)
	}

	firstClass := make(map[string]int, len(feed.Classes))
	for i := range feed.Classes {
		c := feed.Classes[i]
		pos := i + 1
		if strings.TrimSpace(c.Name) == "" {
			return nil, malformed("class entry %d has no name", pos).WithContext("position", pos).Build()
		}
		if prev, dup := firstClass[c.Name]; dup {
			return nil, malformed("duplicate class %q at entry %d (first defined at entry %d)", c.Name, pos, prev).
				WithContext("class", c.Name).
				WithContext("position", pos).
				Build()
		}
		firstClass[c.Name] = pos
		if opts.ExcludePrivate {
			c.Sections = withoutPrivate(c.Sections)
		}
		c.OutputPath = ClassOutputPath(c.Name, sep)
		idx.byName[c.Name] = &c
		idx.classes = append(idx.classes, &c)
		if c.File != "" {
			idx.fileOwned[c.File] = append(idx.fileOwned[c.File], &c)
		}
	}

	sort.Slice(idx.files, func(i, j int) bool { return idx.files[i].Path < idx.files[j].Path })
	sort.Slice(idx.classes, func(i, j int) bool { return idx.classes[i].Name < idx.classes[j].Name })
	for _, owned := range idx.fileOwned {
		sort.Slice(owned, func(i, j int) bool { return owned[i].Name < owned[j].Name })
	}
	idx.modules = salienceSort(idx.classes, sep)
	return idx, nil
}

func malformed(format string, args ...any) *errors.ErrorBuilder {
	return errors.ConfigError(fmt.Sprintf(format, args...))
}

func withoutPrivate(sections []entities.Section) []entities.Section {
	out := make([]entities.Section, len(sections))
	for i, s := range sections {
		var kept []entities.Method
		for _, m := range s.Methods {
			if !m.IsPrivate() {
				kept = append(kept, m)
			}
		}
		s.Methods = kept
		out[i] = s
	}
	return out
}

// ClassOutputPath maps a qualified class name to its page path:
// "Arrow::Route" -> "Arrow/Route.html".
func ClassOutputPath(name, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	return strings.ReplaceAll(name, sep, "/") + ".html"
}

// FileOutputPath maps a source path to its page path: "lib/arrow.rb" -> "lib/arrow.rb.html".
func FileOutputPath(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	return p + ".html"
}

// Separator returns the namespace separator used for output paths.
func (x *Index) Separator() string { return x.sep }

// Class looks up a class by fully qualified name.
func (x *Index) Class(name string) (*entities.Class, bool) {
	c, ok := x.byName[name]
	return c, ok
}

// File looks up a file by source path.
func (x *Index) File(p string) (*entities.File, bool) {
	f, ok := x.byPath[p]
	return f, ok
}

// Classes returns all classes sorted by name.
func (x *Index) Classes() []*entities.Class { return x.classes }

// Files returns all files sorted by path.
func (x *Index) Files() []*entities.File { return x.files }

// ClassesIn returns the classes declared in the given source file, sorted by name.
func (x *Index) ClassesIn(filePath string) []*entities.Class { return x.fileOwned[filePath] }

// SortedModules returns the classes in navigation order: namespaces with more
// members first, then by name.
func (x *Index) SortedModules() []*entities.Class { return x.modules }

func salienceSort(classes []*entities.Class, sep string) []*entities.Class {
	counts := make(map[string]int)
	for _, c := range classes {
		counts[c.Namespace(sep)]++
	}
	out := make([]*entities.Class, len(classes))
	copy(out, classes)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := counts[out[i].Namespace(sep)], counts[out[j].Namespace(sep)]
		if ci != cj {
			return ci > cj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
