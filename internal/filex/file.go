// Package filex contains filesystem helpers for staging files before upload.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path. It fails if a non-directory
// already occupies the path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// CreateStaged creates a new empty file for name inside dir. The file name
// keeps the stem and extension of name with a random suffix, so earlier
// staged files are never overwritten. The caller closes it.
func CreateStaged(dir, name string) (*os.File, error) {
	d, err := EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	f, err := os.CreateTemp(d, strings.TrimSuffix(base, ext)+"-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create staged %s: %w", name, err)
	}
	return f, nil
}

// RemoveStaged deletes a staged file. A file that is already gone is not an
// error.
func RemoveStaged(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove staged %s: %w", path, err)
	}
	return nil
}
