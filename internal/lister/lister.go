// Package lister walks a directory tree and reports files whose name ends in
// a suffix, pruning excluded directory names at every depth.
package lister

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix is the file name suffix matched when Options.Suffix is empty.
const DefaultSuffix = ".py"

// Options configures a walk.
type Options struct {
	// Root is the directory to walk. Empty means the current working directory.
	Root string
	// Suffix is matched against file names. Empty means DefaultSuffix.
	Suffix string
	// Exclude lists directory names skipped at any level below Root.
	// Names are compared exactly.
	Exclude []string
	// Prune, if set, is asked about every directory below Root. Returning
	// true skips that directory without reading it.
	Prune func(dir string) bool
}

func (o Options) resolve() (Options, error) {
	if o.Root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("getwd: %w", err)
		}
		o.Root = cwd
	}
	o.Root = filepath.Clean(o.Root)
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	return o, nil
}

func (o Options) excludeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.Exclude))
	for _, name := range o.Exclude {
		set[name] = struct{}{}
	}
	return set
}

// Excluded reports whether a directory with the given base name is pruned.
func (o Options) Excluded(name string) bool {
	for _, x := range o.Exclude {
		if x == name {
			return true
		}
	}
	return false
}

// Matches reports whether a file name ends in the configured suffix.
func (o Options) Matches(name string) bool {
	suffix := o.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return strings.HasSuffix(name, suffix)
}

// Walk visits the tree under opts.Root in filepath.WalkDir order and calls fn
// with the path of every matching file. The root itself is never pruned.
// Traversal errors are returned as-is; an error from fn stops the walk.
func Walk(ctx context.Context, opts Options, fn func(path string) error) error {
	opts, err := opts.resolve()
	if err != nil {
		return err
	}
	exclude := opts.excludeSet()
	root := opts.Root

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, ok := exclude[d.Name()]; ok {
				return filepath.SkipDir
			}
			if opts.Prune != nil && opts.Prune(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), opts.Suffix) {
			return nil
		}
		return fn(path)
	})
}

// Collect returns every matching path in walk order.
func Collect(ctx context.Context, opts Options) ([]string, error) {
	var out []string
	err := Walk(ctx, opts, func(path string) error {
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List writes each matching path to w, one per line.
func List(ctx context.Context, opts Options, w io.Writer) error {
	return Walk(ctx, opts, func(path string) error {
		_, err := fmt.Fprintln(w, path)
		return err
	})
}
