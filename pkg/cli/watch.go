package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 500 * time.Millisecond

// fileWatcher reports changes to a single file. It watches the parent
// directory so that editors which replace the file on save are still seen.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *log.Logger
}

func newFileWatcher(path string, logger *log.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}
	return &fileWatcher{path: abs, watcher: watcher, logger: logger}, nil
}

// loop calls onChange after each write to the file until ctx is done.
func (w *fileWatcher) loop(ctx context.Context, onChange func()) {
	defer w.watcher.Close()

	debounce := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping file watcher")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: editors often emit several events per save
			if lastTime, exists := debounce[event.Name]; exists {
				if time.Since(lastTime) < debounceDelay {
					continue
				}
			}
			debounce[event.Name] = time.Now()

			w.logger.Info("file changed", "path", w.path)
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// watch runs fn once, then again on every change to path until ctx is done.
// An error from the first run is returned; later errors are logged so the
// watch keeps going while the file is being fixed.
func (a *app) watch(ctx context.Context, path string, fn func() error) error {
	w, err := newFileWatcher(path, a.logger)
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		w.watcher.Close()
		return err
	}
	a.logger.Info("watching for changes", "path", w.path)
	w.loop(ctx, func() {
		if err := fn(); err != nil {
			a.logger.Error(err.Error())
		}
	})
	return nil
}
