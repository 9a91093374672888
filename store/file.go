// ABOUTME: Loading and saving the context file on disk
// ABOUTME: Serialises access with an advisory lock and replaces the file atomically

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrExists is returned by Create when the context file is already present
var ErrExists = errors.New("context file already exists")

// Exists reports whether a context file is present at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the context at path. A missing file yields an empty context.
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}

		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	c, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Save writes the context to path via a temp file and rename
func Save(path string, c *Context) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}

	if err := writeFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	return nil
}

// Create writes an empty context, failing with ErrExists unless force is set
func Create(path string, force bool) error {
	if Exists(path) && !force {
		return fmt.Errorf("%w at %s", ErrExists, path)
	}

	return Save(path, New())
}

// Update loads the context under an exclusive lock, applies fn and saves the result
// if fn succeeds. Nothing is written when fn returns an error.
func Update(path string, fn func(*Context) error) error {
	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock context file: %w", err)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("Warning: failed to unlock context file: %v", err)
		}
	}()

	c, err := Load(path)
	if err != nil {
		return err
	}

	if err := fn(c); err != nil {
		return err
	}

	return Save(path, c)
}

// View loads the context under a shared lock
func View(path string) (*Context, error) {
	lock := flock.New(lockPath(path))
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock context file: %w", err)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("Warning: failed to unlock context file: %v", err)
		}
	}()

	return Load(path)
}

func lockPath(path string) string {
	return path + ".lock"
}

// writeFileAtomic writes data to a temp file in the same directory, syncs it
// and renames it over path
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	committed = true

	return nil
}
