package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch calls fn with the absolute path of every file created in (or
// renamed into) dir whose name matches pattern, until ctx is done. fn runs
// on the watcher goroutine.
func Watch(ctx context.Context, dir, pattern string, fn func(path string), log *zap.Logger) error {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch folder: %w", err)
	}
	defer w.Close()
	if err := w.Add(abs); err != nil {
		return fmt.Errorf("watch folder %s: %w", abs, err)
	}
	log.Debug("watching folder", zap.String("dir", abs), zap.String("pattern", pattern))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if Match(pattern, event.Name) {
				fn(event.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("folder watcher error", zap.String("dir", abs), zap.Error(err))
		}
	}
}
