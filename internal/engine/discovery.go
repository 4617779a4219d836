package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaprelay/internal/source"
)

// Discover expands roots into the sorted list of source files to transform.
// Directories are walked recursively, skipping excluded directory names and
// hidden directories. Files named explicitly are kept when their extension is
// a supported source extension, even if it is not in the configured set.
func (e *Engine) Discover(roots ...string) ([]string, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}

		if !info.IsDir() {
			if !e.isSource(abs, true) {
				return nil, fmt.Errorf("%s: unsupported source extension %q", root, filepath.Ext(abs))
			}
			add(abs)
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && e.skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && e.isSource(path, false) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	slices.Sort(files)
	e.logger.Debug("discovered sources", "roots", len(roots), "files", len(files))
	return files, nil
}

func (e *Engine) skipDir(name string) bool {
	return e.exclude[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

func (e *Engine) isSource(path string, explicit bool) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if strings.HasSuffix(strings.ToLower(path), ".d.ts") {
		return false
	}
	if explicit {
		return e.extensions[ext] || source.IsSource(path)
	}
	return e.extensions[ext]
}
