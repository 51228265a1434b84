package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sebayufm/notulen/internal/logger"
	"github.com/sebayufm/notulen/internal/transcribe"
)

type implWatcher struct {
	inboxDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	settle   time.Duration

	// pending maps a path to the time of its last write event.
	pending map[string]time.Time
	wg      sync.WaitGroup
}

// Start picks up audio files already in the inbox, then monitors it until
// ctx is done.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.inboxDir)
	w.scanExisting(ctx)

	tick := time.NewTicker(w.settle / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for inbox handlers to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.onEvent(ctx, event)

		case now := <-tick.C:
			w.flush(ctx, now)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) onEvent(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if !transcribe.IsAudioFile(event.Name) {
			w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
			return
		}
		if _, seen := w.pending[event.Name]; !seen {
			w.logger.Info(ctx, "New recording detected: %s", event.Name)
		}
		w.pending[event.Name] = time.Now()
	}
}

// flush hands over every pending file that has been quiet for settle.
func (w *implWatcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	for _, path := range ready {
		delete(w.pending, path)
		w.dispatch(ctx, path)
	}
}

// scanExisting queues audio already in the inbox behind the same settle
// delay as new files, since a copy may still be in progress at startup.
func (w *implWatcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		w.logger.Warn(ctx, "Failed to scan inbox: %v", err)
		return
	}
	for _, e := range entries {
		if e.Type().IsRegular() && transcribe.IsAudioFile(e.Name()) {
			path := filepath.Join(w.inboxDir, e.Name())
			w.logger.Info(ctx, "Existing recording found: %s", path)
			w.pending[path] = time.Now()
		}
	}
}

func (w *implWatcher) dispatch(ctx context.Context, path string) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to submit %s: %v", path, err)
		}
	}()
}
