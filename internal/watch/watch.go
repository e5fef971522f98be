// Package watch monitors a drop folder and submits summarization jobs
// for audio files that appear in it.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kulurunagavardhanreddy/lumio/internal/transcribe"
)

// settleDelay gives the writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

// Handler processes a newly dropped audio file.
type Handler func(path string) error

// Watcher monitors a directory for new audio files.
type Watcher struct {
	dir     string
	handler Handler
	watcher *fsnotify.Watcher
	log     *slog.Logger
}

func New(dir string, handler Handler, log *slog.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &Watcher{
		dir:     dir,
		handler: handler,
		watcher: fw,
		log:     log,
	}, nil
}

// Run processes events until the watcher is closed. It is meant to be
// called on its own goroutine.
func (w *Watcher) Run() {
	w.log.Info("drop folder watcher started", "dir", w.dir,
		"formats", transcribe.SupportedExtensions)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.log.Info("drop folder watcher stopped")
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !transcribe.IsSupportedExtension(event.Name) {
				w.log.Debug("ignoring unsupported file", "path", event.Name)
				continue
			}

			w.log.Info("new audio file detected", "path", event.Name)
			time.Sleep(settleDelay)
			if err := w.handler(event.Name); err != nil {
				w.log.Error("failed to process dropped file", "path", event.Name, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

// Close stops the watcher and unblocks Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
