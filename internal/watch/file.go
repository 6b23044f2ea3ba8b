// Package watch feeds edits of a local file into a callback.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher calls OnChange with the file content after each write.
// The parent directory is watched so editors that save by rename-replace
// keep being followed.
type FileWatcher struct {
	path     string
	onChange func(content string)
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}

	mu   sync.Mutex
	last string
}

// File starts watching path. initial is the content the caller already
// has; identical reads are not reported.
func File(path, initial string, onChange func(content string), logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Warn("failed to close watcher after add error", "error", closeErr)
		}
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &FileWatcher{
		path:     abs,
		onChange: onChange,
		logger:   logger,
		watcher:  watcher,
		cancel:   cancel,
		done:     make(chan struct{}),
		last:     initial,
	}
	go w.run(ctx)
	return w, nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *FileWatcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *FileWatcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// replaced file not written yet; the next event picks it up
		w.logger.Debug("watched file unreadable", "path", w.path, "error", err)
		return
	}
	content := string(data)

	w.mu.Lock()
	if content == w.last {
		w.mu.Unlock()
		return
	}
	w.last = content
	w.mu.Unlock()

	w.onChange(content)
}
