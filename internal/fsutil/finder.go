// Package fsutil provides small filesystem helpers for the bake file loader.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension walks root recursively and returns the paths of all
// regular files carrying the given extension, in lexical walk order. The
// extension must include the leading dot, as in ".hcl".
func FindFilesByExtension(root, ext string) ([]string, error) {
	if !strings.HasPrefix(ext, ".") {
		return nil, fmt.Errorf("extension must include the leading dot, got %q", ext)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ext {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
