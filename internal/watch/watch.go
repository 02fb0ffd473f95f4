// Package watch feeds a script file into the edit loop whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"scene-sandbox/internal/logger"
)

// Watcher watches one file. Editors often save by writing a temp file and renaming it over
// the original, so the parent directory is watched and events are filtered by name.
type Watcher struct {
	path string
	sink func(text string)
	log  *logger.Logger

	watcher *fsnotify.Watcher
	last    string
}

// New starts watching path. sink receives the file's content on every change that alters it.
func New(path string, sink func(text string), log *logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, sink: sink, log: log, watcher: fw}, nil
}

// Load reads the file once and passes it to the sink. Call it before Run to seed the store.
func (w *Watcher) Load() error {
	_, err := w.reload()
	return err
}

// Run delivers changes until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			changed, err := w.reload()
			switch {
			case errors.Is(err, fs.ErrNotExist):
				// Removed between the event and the read; the Create that follows reloads it.
			case err != nil:
				w.logf(logger.Warn, "watch: read %s: %v", w.path, err)
			case changed:
				w.logf(logger.Info, "Reloaded %s", filepath.Base(w.path))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logf(logger.Warn, "watch: %v", err)
		}
	}
}

func (w *Watcher) reload() (bool, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return false, err
	}
	text := string(data)
	if text == w.last {
		return false, nil
	}
	w.last = text
	w.sink(text)
	return true, nil
}

func (w *Watcher) logf(level logger.Level, format string, args ...any) {
	if w.log != nil {
		w.log.Log(level, fmt.Sprintf(format, args...))
	}
}
