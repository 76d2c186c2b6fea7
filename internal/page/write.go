package page

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write persists the rendered document at path, replacing any previous copy.
// The content is staged in a temp file in the same directory and renamed into
// place, so a failed write never leaves a truncated gateway behind.
func Write(path string, content []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".gateway-*.html")
	if err != nil {
		return fmt.Errorf("stage output in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write staged output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close staged output: %w", err)
	}

	// CreateTemp uses 0600; the gateway is public content.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod staged output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
