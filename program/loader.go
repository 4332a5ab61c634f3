package program

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSLoader resolves import paths against the filesystem: relative to the
// importing file's own directory first, then against each of
// searchPaths in order (spec.md §4.5 import resolution, §6 `-J`).
type FSLoader struct {
	searchPaths []string
}

// NewFSLoader builds an FSLoader searching searchPaths, in order, after
// the importing file's own directory.
func NewFSLoader(searchPaths []string) *FSLoader {
	return &FSLoader{searchPaths: searchPaths}
}

// Load implements eval.Loader.
func (l *FSLoader) Load(path, fromFile string) (string, []byte, error) {
	if filepath.IsAbs(path) {
		contents, err := os.ReadFile(path)
		if err != nil {
			return "", nil, err
		}
		return path, contents, nil
	}

	candidates := make([]string, 0, 1+len(l.searchPaths))
	if fromFile != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(fromFile), path))
	} else {
		candidates = append(candidates, path)
	}
	for _, sp := range l.searchPaths {
		candidates = append(candidates, filepath.Join(sp, path))
	}

	var lastErr error
	for _, c := range candidates {
		contents, err := os.ReadFile(c)
		if err == nil {
			return filepath.Clean(c), contents, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no search paths configured")
	}
	return "", nil, fmt.Errorf("import %q not found: %w", path, lastErr)
}
