// Package fsutil writes output documents.
package fsutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	wferrors "github.com/caphetech/wfcatalog/internal/errors"
)

// EncodeJSON encodes v without HTML escaping. With indent set the output
// uses two-space indentation. No trailing newline is written.
func EncodeJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON encodes v and writes it atomically to path.
func WriteJSON(path string, v any, indent bool) error {
	data, err := EncodeJSON(v, indent)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return WriteFileAtomic(path, data, 0644)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers see either the old or the new contents.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", wferrors.ErrIO, dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: writing %s: %v", wferrors.ErrIO, path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %v", wferrors.ErrIO, path, err)
	}
	return nil
}
