// Package emit writes rendered pages and static assets below an output root.
//
// In dry-run mode nothing touches the disk: directory creation and writes are
// logged at debug level and counted, so a dry run reports the same totals a
// real run would.
package emit

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Stats summarizes what an Emitter wrote, or would have written.
type Stats struct {
	Files int
	Bytes int64
	Dirs  int
}

// Emitter writes files relative to Root. The zero value with Root set is usable.
type Emitter struct {
	Root   string
	DryRun bool

	stats   Stats
	created map[string]bool
	paths   []string
}

// New returns an emitter rooted at root.
func New(root string, dryRun bool) *Emitter {
	return &Emitter{Root: root, DryRun: dryRun, created: make(map[string]bool)}
}

// Stats returns the running totals.
func (e *Emitter) Stats() Stats { return e.stats }

// Written lists the slash-separated relative paths emitted so far, in order.
func (e *Emitter) Written() []string {
	out := make([]string, len(e.paths))
	copy(out, e.paths)
	return out
}

// Destination maps rel to a path under Root, rejecting anything that would escape it.
func (e *Emitter) Destination(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if rel == "" || !filepath.IsLocal(local) {
		return "", errors.FileSystemError(fmt.Sprintf("output path %q escapes the output directory", rel)).
			WithContext(logfields.KeyPath, rel).
			Build()
	}
	return filepath.Join(e.Root, local), nil
}

// Emit writes data to rel, creating missing ancestor directories first.
func (e *Emitter) Emit(rel string, data []byte) error {
	dest, err := e.Destination(rel)
	if err != nil {
		return err
	}
	if err := e.mkdirAll(filepath.Dir(dest)); err != nil {
		return err
	}

	if e.DryRun {
		slog.Debug(fmt.Sprintf("Would have written %d bytes to %s", len(data), dest),
			logfields.Path(dest), logfields.Bytes(len(data)))
	} else {
		if err := os.WriteFile(dest, data, fileMode); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot write output file").
				WithContext(logfields.KeyPath, dest).
				Build()
		}
		slog.Debug("Wrote output file", logfields.Path(dest), logfields.Bytes(len(data)))
	}
	e.stats.Files++
	e.stats.Bytes += int64(len(data))
	e.paths = append(e.paths, filepath.ToSlash(filepath.Clean(rel)))
	return nil
}

func (e *Emitter) mkdirAll(dir string) error {
	if e.created == nil {
		e.created = make(map[string]bool)
	}
	if e.created[dir] {
		return nil
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		e.created[dir] = true
		return nil
	}
	if e.DryRun {
		slog.Debug("Would create directory", logfields.Path(dir))
	} else if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot create output directory").
			WithContext(logfields.KeyPath, dir).
			Build()
	}
	e.created[dir] = true
	e.stats.Dirs++
	return nil
}

// CopyFS copies every regular file of fsys verbatim into dir (relative to Root).
func (e *Emitter) CopyFS(fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot read static assets").
				WithContext(logfields.KeyPath, p).
				Build()
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot read static asset").
				WithContext(logfields.KeyPath, p).
				Build()
		}
		return e.Emit(joinRel(dir, p), data)
	})
}

// Clean removes everything below Root. It refuses to operate on an empty
// root or a filesystem root.
func (e *Emitter) Clean() error {
	root := filepath.Clean(e.Root)
	if e.Root == "" || root == "." || root == string(filepath.Separator) || filepath.Dir(root) == root {
		return errors.ValidationError(fmt.Sprintf("refusing to clean output directory %q", e.Root)).Build()
	}
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot list output directory").
			WithContext(logfields.KeyPath, root).
			Build()
	}
	for _, entry := range entries {
		p := filepath.Join(root, entry.Name())
		if e.DryRun {
			slog.Debug("Would remove", logfields.Path(p))
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot clean output directory").
				WithContext(logfields.KeyPath, p).
				Build()
		}
	}
	return nil
}

func joinRel(dir, p string) string {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if dir == "" || dir == "." {
		return p
	}
	return dir + "/" + p
}
