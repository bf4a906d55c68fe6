// Package configwatch reloads archive configuration when its files change.
package configwatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/logging"
	"github.com/grovetools/archive/pkg/paths"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// LoadFunc produces the configuration after a change.
type LoadFunc func() (*config.Config, error)

// Watcher watches configuration files and calls OnReload with the freshly
// loaded configuration. Invalid configurations go to OnError instead.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	load     LoadFunc
	onReload func(*config.Config)
	onError  func(error)
	logger   *logrus.Entry

	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
	closed    bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLoader replaces the reload function.
func WithLoader(load LoadFunc) Option {
	return func(w *Watcher) { w.load = load }
}

// WithErrorHandler receives reload failures.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithLogger sets the watcher logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New watches files. fsnotify does not follow renames of the file itself,
// so the parent directories are watched and events filtered by path.
// Without WithLoader the first file is reloaded with config.Load.
func New(onReload func(*config.Config), files []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		debounce: DefaultDebounce,
		onReload: onReload,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.NewLogger("configwatch")
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		if file == "" {
			continue
		}
		abs, err := paths.Expand(file)
		if err != nil {
			fw.Close()
			return nil, err
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			w.files[resolved] = true
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
		dirs[dir] = true
		w.logger.WithField("dir", dir).Debug("Watching configuration directory")
	}

	if w.load == nil {
		if len(files) == 0 {
			fw.Close()
			return nil, errors.New(errors.ErrCodeConfigNotFound, "no configuration files to watch")
		}
		first := files[0]
		w.load = func() (*config.Config, error) { return config.Load(first) }
	}
	return w, nil
}

// Start processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	defer w.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// schedule restarts the debounce timer so only the last event of a burst
// triggers a reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := w.load()
	if err != nil {
		w.logger.WithError(err).Warn("Configuration reload failed, keeping previous configuration")
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	w.logger.Info("Configuration reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Close stops the watcher and any pending reload.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
