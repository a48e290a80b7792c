package fsops

import (
	"context"
	"os"

	"github.com/petasbytes/dungeon-tools/internal/lister"
	"github.com/petasbytes/dungeon-tools/internal/safety"
)

// ListFiles walks relDir under the default sandbox and returns matching files
// as slash-separated paths relative to the sandbox root.
func ListFiles(ctx context.Context, relDir string, opts lister.Options) ([]string, error) {
	sb, err := getSandbox()
	if err != nil {
		return nil, err
	}
	return ListFilesIn(ctx, sb, relDir, opts)
}

// ListFilesIn is ListFiles against an explicit sandbox. opts.Root and
// opts.Prune are replaced. Denied directories are skipped without being read.
func ListFilesIn(ctx context.Context, sb *safety.Sandbox, relDir string, opts lister.Options) ([]string, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := sb.Resolve(relDir)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(absDir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, safety.Errorf(safety.CodeNotADir, "%s is not a directory", relDir)
	}

	opts.Root = absDir
	opts.Prune = func(dir string) bool {
		rel, err := sb.Rel(dir)
		return err == nil && sb.Denied(rel)
	}
	out := []string{}
	err = lister.Walk(ctx, opts, func(path string) error {
		rel, err := sb.Rel(path)
		if err != nil {
			return err
		}
		if sb.Denied(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
