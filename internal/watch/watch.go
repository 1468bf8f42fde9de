// Package watch reloads practice texts when files in the content directory
// are created or written.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verte-zerg/furitype/internal/content"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher monitors one directory for practice texts.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	logger   *slog.Logger

	events chan content.Loaded
	errors chan error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before it is loaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New watches dir, creating it if needed.
func New(dir string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content dir: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		if cerr := fsw.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	w := &Watcher{
		fs:       fsw,
		dir:      abs,
		debounce: defaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
		events:   make(chan content.Loaded, 16),
		errors:   make(chan error, 4),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the absolute path of the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Events delivers parsed files. It is closed when Run returns.
func (w *Watcher) Events() <-chan content.Loaded {
	return w.events
}

// Errors delivers load failures. Errors are dropped when nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run processes filesystem events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer close(w.errors)
	defer func() {
		if err := w.fs.Close(); err != nil {
			// Best-effort close.
			_ = err
		}
	}()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	dirty := map[string]time.Time{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !content.IsContentFile(event.Name) {
				continue
			}
			dirty[event.Name] = time.Now()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "dir", w.dir, "error", err)
			w.report(err)
		case now := <-ticker.C:
			for path, touched := range dirty {
				if now.Sub(touched) < w.debounce {
					continue
				}
				delete(dirty, path)
				if err := w.load(ctx, path); err != nil {
					return nil
				}
			}
		}
	}
}

// load parses path and delivers it. It only fails when ctx is done.
func (w *Watcher) load(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	c, source, err := content.LoadFile(path)
	if err != nil {
		w.logger.Warn("failed to load content", "path", path, "error", err)
		w.report(err)
		return nil
	}
	w.logger.Debug("content loaded", "path", path, "title", c.Title)
	select {
	case w.events <- content.Loaded{Path: path, Source: source, Content: c}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
