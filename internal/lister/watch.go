package lister

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports matching files as they appear under a tree.
type Watcher struct {
	opts Options
	log  *zap.Logger
	fw   *fsnotify.Watcher
	seen map[string]struct{}
}

// NewWatcher creates a watcher for opts. A nil logger disables logging.
func NewWatcher(opts Options, log *zap.Logger) (*Watcher, error) {
	opts, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	return &Watcher{opts: opts, log: log, fw: fw, seen: make(map[string]struct{})}, nil
}

// Run lists the tree once, then reports newly created matching files until
// ctx is done. The underlying watcher is closed before Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	defer w.fw.Close()

	if err := w.addTree(ctx, w.opts.Root, fn); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev, fn)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event, fn func(path string)) {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.forget(ev.Name)
	} else if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	fi, err := os.Lstat(ev.Name)
	if err != nil {
		// Renamed away or removed before we looked.
		return
	}
	if fi.IsDir() {
		if w.skip(ev.Name, fi.Name()) {
			w.log.Debug("skip excluded dir", zap.String("path", ev.Name))
			return
		}
		// Files may land in the new directory before the watch is added,
		// so the subtree is walked as well.
		if err := w.addTree(ctx, ev.Name, fn); err != nil {
			w.log.Warn("watch subtree", zap.String("path", ev.Name), zap.Error(err))
		}
		return
	}
	w.emit(ev.Name, fn)
}

func (w *Watcher) emit(path string, fn func(path string)) {
	if !w.opts.Matches(filepath.Base(path)) {
		return
	}
	if _, dup := w.seen[path]; dup {
		return
	}
	w.seen[path] = struct{}{}
	fn(path)
}

func (w *Watcher) skip(dir, name string) bool {
	return w.opts.Excluded(name) || (w.opts.Prune != nil && w.opts.Prune(dir))
}

// forget drops path, and everything below it, from the reported set so a
// file created again at the same place is reported again.
func (w *Watcher) forget(path string) {
	delete(w.seen, path)
	prefix := path + string(filepath.Separator)
	for p := range w.seen {
		if strings.HasPrefix(p, prefix) {
			delete(w.seen, p)
		}
	}
}

// addTree watches dir and every non-excluded directory below it, reporting
// matching files found on the way.
func (w *Watcher) addTree(ctx context.Context, dir string, fn func(path string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != dir && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			w.emit(path, fn)
			return nil
		}
		if path != w.opts.Root && w.skip(path, d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.log.Debug("watching", zap.String("dir", path))
		return nil
	})
}

// Watch is a convenience wrapper around NewWatcher and Run.
func Watch(ctx context.Context, opts Options, log *zap.Logger, fn func(path string)) error {
	w, err := NewWatcher(opts, log)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}
