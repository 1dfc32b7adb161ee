// Package jsonfile implements the ixv stores on top of small JSON files that
// are rewritten atomically on every change.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// readJSON decodes path into v. A missing or empty file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v to path atomically.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// document is a JSON file holding one value of T. Every access reloads
// the file so separate processes sharing the data dir see each other's
// writes.
type document[T any] struct {
	path string
	mu   sync.Mutex
}

// read decodes the current contents. A missing file yields the zero T.
func (d *document[T]) read() (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var v T
	err := readJSON(d.path, &v)
	return v, err
}

// update decodes the file, applies fn and writes the result back when fn
// reports a change.
func (d *document[T]) update(fn func(v *T) (changed bool)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var v T
	if err := readJSON(d.path, &v); err != nil {
		return err
	}
	if !fn(&v) {
		return nil
	}
	return writeJSON(d.path, v)
}
