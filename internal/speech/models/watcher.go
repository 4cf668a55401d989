package models

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/pitabwire/util"
)

// Watch re-runs the checker whenever the models directory changes, so a model
// downloaded after startup flips to available without a restart. Blocks until
// the context is cancelled.
func (c *Checker) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", c.dir, err)
	}

	log := util.Log(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				if err := c.Reload(); err != nil {
					log.WithError(err).Error("model manifest reload failed")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
