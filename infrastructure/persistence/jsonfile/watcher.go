package jsonfile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the workspace when the data file changes on disk, so an
// externally edited or synced file shows up without restarting the server.
// Saves go through a rename, so the watcher observes the parent directory
// and filters for the file name.
type Watcher struct {
	path     string
	onChange func()
	logger   *zap.Logger

	// events arriving within this window collapse into one reload
	debounce time.Duration
}

// NewWatcher creates a watcher that invokes onChange after the data file
// is written, created, or renamed into place.
func NewWatcher(path string, onChange func(), logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		debounce: 250 * time.Millisecond,
	}
}

// Run watches until the context is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return err
	}
	w.logger.Info("watching data file", zap.String("path", w.path))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Info("data file changed, reloading", zap.String("path", w.path))
			w.onChange()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
