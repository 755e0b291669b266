package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/caphetech/wfcatalog/internal/fsutil"
)

// Write encodes cfg as TOML and atomically replaces the file at path,
// creating parent directories as needed.
func Write(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
