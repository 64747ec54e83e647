package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
)

type implWatcher struct {
	plansDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start begins monitoring the plans directory. A plan file dropped into
// the directory is handed to the handler once it settles on disk.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Plan watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.plansDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing plan runs to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Plan watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create == fsnotify.Create {
				if !w.isPlanFile(event.Name) {
					w.logger.Debug(ctx, "Ignoring non-plan file: %s", event.Name)
					continue
				}
				w.logger.Info(ctx, "New plan detected: %s", event.Name)

				// Small delay to ensure the file is fully written
				time.Sleep(500 * time.Millisecond)

				select {
				case w.semaphore <- struct{}{}:
					w.wg.Add(1)
					go func(planPath string) {
						defer w.wg.Done()
						defer func() { <-w.semaphore }()

						if err := w.handler(ctx, planPath); err != nil {
							w.logger.Error(ctx, "Failed to run plan %s: %v", planPath, err)
						}
					}(event.Name)
				case <-ctx.Done():
					return ctx.Err()
				}
			}

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

func (w *implWatcher) isPlanFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
