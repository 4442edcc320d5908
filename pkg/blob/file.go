package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileTarget stores blobs as files in a directory
type FileTarget struct {
	dir string
}

// NewFileTarget creates a file target rooted at dir. The directory is
// created on first Put.
func NewFileTarget(dir string) (*FileTarget, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid blob directory: %w", err)
	}
	return &FileTarget{dir: abs}, nil
}

// Driver returns DriverFile
func (t *FileTarget) Driver() Driver { return DriverFile }

// Dir returns the directory blobs are stored in
func (t *FileTarget) Dir() string { return t.dir }

// Path returns the file path a blob name maps to
func (t *FileTarget) Path(name string) string {
	return filepath.Join(t.dir, name)
}

// Put writes data to a temporary file and renames it over the destination,
// so a failed write leaves any previous blob intact.
func (t *FileTarget) Put(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(t.dir, 0750); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(t.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close blob: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set blob permissions: %w", err)
	}

	if err := os.Rename(tmpName, t.Path(name)); err != nil {
		return fmt.Errorf("failed to move blob into place: %w", err)
	}
	return nil
}

// Get reads the blob stored under name
func (t *FileTarget) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(t.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// Exists reports whether a blob is stored under name
func (t *FileTarget) Exists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(t.Path(name))
	return err == nil
}
