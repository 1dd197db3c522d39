// Package watch re-runs a build when its sources change.
//
// One goroutine owns the fsnotify watcher and the debounce timer; both are
// read from the same select, so rebuilds never overlap.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

// DefaultDebounce collapses editor save bursts into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Options configures Run.
type Options struct {
	Debounce time.Duration
	// Exclude lists directories whose changes never trigger a rebuild,
	// typically the output directory.
	Exclude []string
}

// RebuildFunc performs one complete build.
type RebuildFunc func(ctx context.Context) error

type watchSet struct {
	files   map[string]bool
	roots   []string
	exclude []string
}

// Run watches paths (files or directory trees) and calls rebuild after
// changes settle. It returns nil when ctx is cancelled. Rebuild errors are
// logged and watching continues.
func Run(ctx context.Context, paths []string, opts Options, rebuild RebuildFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = w.Close() }()

	set, err := newWatchSet(paths, opts.Exclude)
	if err != nil {
		return err
	}
	for _, root := range set.roots {
		addDirsRecursive(w, root, set)
	}
	for f := range set.files {
		if err := w.Add(filepath.Dir(f)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(f), err)
		}
	}
	slog.Info("Watching for changes", logfields.Count(len(paths)))

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !set.relevant(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(w, ev.Name, set)
				}
			}
			slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(opts.Debounce)
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		case <-pending:
			pending = nil
			start := time.Now()
			if err := rebuild(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
				continue
			}
			slog.Info("Rebuilt", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

func newWatchSet(paths, exclude []string) (*watchSet, error) {
	set := &watchSet{files: make(map[string]bool)}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		if fi.IsDir() {
			set.roots = append(set.roots, abs)
		} else {
			set.files[abs] = true
		}
	}
	for _, p := range exclude {
		if abs, err := filepath.Abs(p); err == nil {
			set.exclude = append(set.exclude, abs)
		}
	}
	return set, nil
}

// relevant reports whether a change to name should trigger a rebuild.
func (s *watchSet) relevant(name string) bool {
	if s.files[name] {
		return true
	}
	if shouldIgnore(name) || s.excluded(name) {
		return false
	}
	for _, root := range s.roots {
		if within(name, root) {
			return true
		}
	}
	return false
}

func (s *watchSet) excluded(name string) bool {
	for _, ex := range s.exclude {
		if within(name, ex) {
			return true
		}
	}
	return false
}

func within(name, root string) bool {
	return name == root || strings.HasPrefix(name, root+string(filepath.Separator))
}

func addDirsRecursive(w *fsnotify.Watcher, root string, set *watchSet) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && (strings.HasPrefix(d.Name(), ".") || set.excluded(p)) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			slog.Warn("watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore filters hidden files and editor scratch files.
func shouldIgnore(name string) bool {
	base := filepath.Base(name)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
