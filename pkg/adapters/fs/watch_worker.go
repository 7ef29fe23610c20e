package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/geotagx/builder/pkg/core"
)

// watchedFiles matches the base names that affect a project build.
const watchedFiles = "{project,tutorial}.{json,yaml,yml}"

type watchWorker struct {
	repo      *Repository
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

func newWatchWorker(repo *Repository, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		repo:   repo,
		events: events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	w.watcher = watcher
	if err := w.addRecursive(w.repo.Path); err != nil {
		_ = watcher.Close()
		return err
	}

	w.debouncer = newDebouncer(w.repo.config.Debounce)
	w.repo.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.reportError(fmt.Errorf("watcher stopped: %w", err))
	}))
	return nil
}

// addRecursive registers dir and every non-hidden subdirectory outside the output dir.
func (w *watchWorker) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.repo.Path && w.ignoredDir(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *watchWorker) ignoredDir(p string) bool {
	if strings.HasPrefix(filepath.Base(p), ".") {
		return true
	}
	return p == w.repo.config.OutputDir
}

// isWatched reports whether name is a file that can change a project.
func isWatched(name string) bool {
	base := filepath.Base(name)
	if base == ScriptFile || base == StylesheetFile {
		return true
	}
	ok, _ := doublestar.Match(watchedFiles, base)
	return ok
}

func statDir(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// processFilesystemEvent filters, maps and debounces a single fsnotify event.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	logger := w.repo.config.Logger
	logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := statDir(event.Name); err == nil && info {
			if !w.ignoredDir(event.Name) {
				if err := w.addRecursive(event.Name); err != nil {
					w.reportError(err)
				}
			}
			return false
		}
	}

	if !isWatched(event.Name) {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	w.repo.cache.Invalidate(event.Name)

	dir, err := filepath.Rel(w.repo.Path, filepath.Dir(event.Name))
	if err != nil {
		w.reportError(fmt.Errorf("failed to resolve project for %s: %w", event.Name, err))
		return false
	}

	w.debouncer.add(event.Name, core.Event{
		Type:      eType,
		Dir:       dir,
		File:      filepath.Base(event.Name),
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
	return true
}

func (w *watchWorker) reportError(err error) {
	w.repo.config.Logger.Error("watcher error", "error", err)
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
	}
}

// run is the main event loop for the watcher worker.
// Pending deliveries select on a worker-local context, which is cancelled
// before the debouncer is drained so none can block on the closed channel.
func (w *watchWorker) run(parent context.Context) (err error) {
	ctx, cancel := context.WithCancel(parent)

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.debouncer.stopAndWait(5 * time.Second)
	defer cancel()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.reportError(wErr)
		}
	}
}
