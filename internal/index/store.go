package index

import (
	"encoding/json"
	"fmt"
	"os"

	wferrors "github.com/caphetech/wfcatalog/internal/errors"
	"github.com/caphetech/wfcatalog/internal/fsutil"
)

// Write writes idx pretty-printed to prettyPath and compact to minPath.
// Both files are replaced wholesale.
func Write(idx *Index, prettyPath, minPath string) error {
	if err := fsutil.WriteJSON(prettyPath, idx, true); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := fsutil.WriteJSON(minPath, idx, false); err != nil {
		return fmt.Errorf("failed to write minified index: %w", err)
	}
	return nil
}

// Load reads an index document. A missing file returns (nil, nil).
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading index %s: %v", wferrors.ErrIO, path, err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: index %s: %v", wferrors.ErrParse, path, err)
	}
	return &idx, nil
}
