// Package safety provides helpers for sandboxed file access.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDenied lists top-level entries that tools may never read.
var DefaultDenied = []string{".git", ".agent"}

// Sandbox confines tool-supplied relative paths to a single root.
type Sandbox struct {
	root   string
	denied []string
}

// NewSandbox resolves root to an absolute, symlink-free path. An empty root
// means the working directory. A nil denied list uses DefaultDenied.
func NewSandbox(root string, denied []string) (*Sandbox, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs(root): %w", err)
	}
	// Resolve symlinks where possible so later boundary checks are reliable.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	if denied == nil {
		denied = DefaultDenied
	}
	return &Sandbox{root: abs, denied: denied}, nil
}

// Root returns the absolute sandbox root.
func (s *Sandbox) Root() string { return s.root }

// Resolve maps relPath to an absolute path inside the sandbox. It rejects
// absolute inputs, parent traversal and symlink escapes, and denies reads
// under the denied entries. Violations are returned as ToolError.
func (s *Sandbox) Resolve(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", ToolError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}
	cleaned := filepath.Clean(relPath)
	candidate := filepath.Join(s.root, cleaned)

	// Resolve the whole candidate if it exists, else its parent, so a
	// symlinked ancestor cannot hide an escape.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	rel, err := s.Rel(candidate)
	if err != nil {
		return "", err
	}
	if d, ok := s.denyMatch(rel); ok {
		return "", Errorf(CodeDeniedRead, "reads under %s/ are not allowed", d)
	}
	return candidate, nil
}

// Denied reports whether a sandbox-relative slash path falls under a denied entry.
func (s *Sandbox) Denied(rel string) bool {
	_, ok := s.denyMatch(rel)
	return ok
}

func (s *Sandbox) denyMatch(rel string) (string, bool) {
	for _, d := range s.denied {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return d, true
		}
	}
	return "", false
}

// Rel returns abs relative to the sandbox root in slash form, or a ToolError
// when abs lies outside it.
func (s *Sandbox) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ToolError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return filepath.ToSlash(rel), nil
}
