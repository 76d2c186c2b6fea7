// Package scan enumerates the gateway's input files.
package scan

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
)

// ErrDirUnreadable marks a failure to list the target directory. The run halts
// on it; there is no partial output.
var ErrDirUnreadable = errors.New("scan: target directory unreadable")

// Entry represents a single discovered file.
type Entry struct {
	Name      string // base filename, e.g. "meta-sprint-nma-v3.html"
	Extension string // lowercased, no leading dot; empty for extensionless files
	Path      string // absolute path to the file
}

// IsHTML reports whether the entry belongs to the HTML pages group.
func (e Entry) IsHTML() bool { return e.Extension == "html" }

// Scanner lists regular files in a single directory, non-recursively.
type Scanner struct {
	dir      string
	excluded map[string]struct{}
}

// New creates a scanner for dir. The names in exclude (exact matches) are
// skipped in addition to hidden files; callers pass at least the output
// filename so a previous run's page never indexes itself.
func New(dir string, exclude ...string) *Scanner {
	ex := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		if name != "" {
			ex[name] = struct{}{}
		}
	}
	return &Scanner{dir: dir, excluded: ex}
}

// Scan enumerates the directory and returns one Entry per regular file.
func (s *Scanner) Scan() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirUnreadable, s.dir, err)
	}

	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirUnreadable, s.dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, skip := s.excluded[name]; skip {
			slog.Debug("Skipping excluded file", logfields.File(name))
			continue
		}
		entries = append(entries, Entry{
			Name:      name,
			Extension: extensionOf(name),
			Path:      filepath.Join(absDir, name),
		})
		slog.Debug("Discovered file", logfields.File(name))
	}

	slog.Info("Scan completed", logfields.Path(s.dir), logfields.Count(len(entries)))
	return entries, nil
}

// extensionOf returns the lowercased extension without the leading dot.
func extensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
