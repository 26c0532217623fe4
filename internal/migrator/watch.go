package migrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tobilg/dashconv/internal/logger"
)

// Watch converts every classic dashboard in dir once, then re-converts files
// as they are created or written until ctx is cancelled. Conversion failures
// are logged and do not stop the watcher.
func (m *Migrator) Watch(ctx context.Context, dir string) error {
	if m.opts.OutputDir == "" {
		return ErrNoOutputDir
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory: %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	initial, err := listConvertible(dir)
	if err != nil {
		return err
	}
	for _, path := range initial {
		m.convertWatched(ctx, path)
	}

	logger.Info("Watching for dashboard changes", "dir", dir, "output", m.opts.OutputDir, "files", len(initial))

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(m.opts.Debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching", "dir", dir)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConvertible(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
				m.state.forget(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)

		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < m.opts.Debounce {
					continue
				}
				delete(pending, path)
				m.convertWatched(ctx, path)
			}
		}
	}
}

func (m *Migrator) convertWatched(ctx context.Context, path string) {
	log := logger.WithFile(path)
	res, err := m.convertFile(ctx, path, true)
	if err != nil {
		log.Error("Failed to convert dashboard", "error", err)
		return
	}
	if res.Skipped {
		log.Debug("Dashboard unchanged")
	}
}

// listConvertible returns the convertible files directly inside dir in name order
func listConvertible(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isConvertible(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
