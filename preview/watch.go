package preview

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch rebuilds the book when anything changes in watched directories.
// Bursts of events (editors tend to write, rename and chmod in quick
// succession) result in a single rebuild after debounce interval of quiet.
// It returns when context is canceled.
func (s *Server) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	defer w.Close()

	watched := 0
	for _, dir := range s.in.Watch {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			s.log.Debug("Not watching absent directory", zap.String("dir", dir))
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("unable to watch %s: %w", dir, err)
		}
		watched++
		s.log.Debug("Watching", zap.String("dir", dir))
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch for %s", s.in.Location)
	}

	var (
		timer   *time.Timer
		trigger = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			s.log.Debug("Change detected", zap.Stringer("event", ev))
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("File watcher problem", zap.Error(err))
		case <-trigger:
			// error is logged and reported by status page
			_ = s.Rebuild(ctx)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
