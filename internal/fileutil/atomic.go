// Package fileutil replaces files so that a reader sees either the old or
// the new contents, never a partial write.
package fileutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// DirPermissions is used for parent directories created by WriteJSON.
const DirPermissions = 0o750

// ErrEmptyPath is returned for an empty target path.
var ErrEmptyPath = walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "empty file path"})

// WriteAtomic writes data to a temporary file next to path, syncs it and
// renames it over path. The parent directory must exist.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp, data, perm); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	syncDir(dir)
	return nil
}

func fill(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	return f.Close()
}

// syncDir makes the rename durable where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // G304: directory of a path the caller chose
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// WriteJSON creates the parent directory if needed and atomically writes
// v as indented JSON.
func WriteJSON(path string, v any, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return walleterr.WithCause(walleterr.ErrFormat, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return WriteAtomic(path, append(data, '\n'), perm)
}
