// Package pathguard enforces the path-safety policy for user-supplied
// paths: a path must resolve under one of the allowed roots. The
// conversion engine never calls this; it belongs to the CLI layer,
// which hands the engine already-validated paths.
package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathError reports a caller-supplied path that failed an existence,
// type, or security check.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
}

// Guard checks paths against a set of allowed root directories.
// The zero value allows everything; use New for the default policy.
type Guard struct {
	roots []string
}

// New returns a guard restricted to the given roots. With no roots it
// defaults to the current working directory and the system temp
// directory, mirroring the usual "work where you were invoked" policy.
func New(roots ...string) (*Guard, error) {
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		roots = []string{cwd, os.TempDir()}
	}

	abs := make([]string, 0, len(roots))
	for _, r := range roots {
		a, err := filepath.Abs(r)
		if err != nil {
			return nil, err
		}
		abs = append(abs, filepath.Clean(a))
	}
	return &Guard{roots: abs}, nil
}

// Check returns a *PathError when path resolves outside every allowed
// root. A guard with no roots allows any path.
func (g *Guard) Check(path string) error {
	if g == nil || len(g.roots) == 0 {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return &PathError{Path: path, Reason: err.Error()}
	}
	abs = filepath.Clean(abs)

	for _, root := range g.roots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return nil
		}
	}
	return &PathError{Path: path, Reason: "points outside allowed directories"}
}

// CheckInput validates an input path: policy check, then existence and
// regular-file checks.
func (g *Guard) CheckInput(path string) error {
	if err := g.Check(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PathError{Path: path, Reason: "does not exist"}
		}
		return &PathError{Path: path, Reason: err.Error()}
	}
	if info.IsDir() {
		return &PathError{Path: path, Reason: "is a directory, not a file"}
	}
	return nil
}
