// Package artifact writes output files atomically.
//
// Writers produce a uniquely named temporary file in the destination
// directory and rename it into place, so readers never observe a partially
// written artifact and a failed run never clobbers a previous one.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteFile writes data to path atomically. The parent directory is
// created if needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Marshaler is implemented by documents that serialize themselves to
// deterministic bytes.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// WriteJSON marshals m and writes the result to path atomically.
func WriteJSON(path string, m Marshaler) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return WriteFile(path, data)
}
