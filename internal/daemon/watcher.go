package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
)

// Watcher monitors the scan directory and reports relevant changes on its
// trigger channel. Events are coalesced by the daemon's debounce loop.
type Watcher struct {
	dir     string
	output  string
	watcher *fsnotify.Watcher
	trigger chan string
}

// NewWatcher creates a watcher for dir. output is the gateway filename, whose
// events are ignored so a build never retriggers itself.
func NewWatcher(dir, output string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve watch directory: %w", err)
	}
	if err := fw.Add(absDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", absDir, err)
	}

	return &Watcher{
		dir:     absDir,
		output:  output,
		watcher: fw,
		trigger: make(chan string, 1),
	}, nil
}

// Trigger returns the channel carrying the names of changed files.
func (w *Watcher) Trigger() <-chan string { return w.trigger }

// Start begins the event loop; it exits when ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	slog.Info("Watching for changes", logfields.Path(w.dir))
	go w.loop(ctx)
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(event.Name)
			if w.ignored(name) {
				continue
			}
			slog.Debug("Filesystem event", logfields.File(name), slog.String("op", event.Op.String()))
			select {
			case w.trigger <- name:
			default: // a rebuild is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// ignored filters the gateway's own output, staging files and editor droppings.
func (w *Watcher) ignored(name string) bool {
	if name == w.output {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") {
		return true
	}
	switch filepath.Ext(name) {
	case ".swp", ".swx", ".tmp":
		return true
	}
	return false
}
