package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sebayufm/notulen/internal/logger"
)

const defaultSettle = 2 * time.Second

// New creates a Watcher on inboxDir. A file is handed to handler once no
// write event has been seen for settle.
func New(inboxDir string, handler EventHandler, log logger.Logger, settle time.Duration) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inboxDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle <= 0 {
		settle = defaultSettle
	}

	return &implWatcher{
		inboxDir: inboxDir,
		handler:  handler,
		logger:   log,
		watcher:  fsw,
		settle:   settle,
		pending:  make(map[string]time.Time),
	}, nil
}
