// Package watch rebuilds an index whenever files under a directory change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the tree must be quiet before a rebuild starts.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc performs one full index build.
type RebuildFunc func(ctx context.Context) error

// Watcher runs a RebuildFunc once at start and again after every burst of
// filesystem events under root.
type Watcher struct {
	root     string
	ignore   func(path string) bool
	rebuild  RebuildFunc
	debounce time.Duration
	log      *logrus.Entry
	watcher  *fsnotify.Watcher

	// rebuilt, when set, receives the result of every rebuild.
	rebuilt chan error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(w *Watcher) { w.log = log }
}

// New returns a Watcher for root. ignore reports paths whose events, and
// whose subtrees, are not watched.
func New(root string, ignore func(path string) bool, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		ignore:   ignore,
		rebuild:  rebuild,
		debounce: DefaultDebounce,
	}
	for _, o := range opts {
		o(w)
	}
	if w.log == nil {
		w.log = logrus.WithField("component", "watch")
	}
	if w.ignore == nil {
		w.ignore = func(string) bool { return false }
	}
	return w
}

// Run builds once, then rebuilds after changes until ctx is done.
// Rebuild failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create file watcher: %w", err)
	}
	w.watcher = fw
	defer fw.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.runRebuild(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.WithError(err).WithField("dir", event.Name).Warn("cannot watch new directory")
					}
				}
			}
			w.log.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("change detected")
			timer.Reset(w.debounce)

		case <-timer.C:
			w.runRebuild(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) runRebuild(ctx context.Context) {
	start := time.Now()
	err := w.rebuild(ctx)
	if err != nil {
		w.log.WithError(err).Error("rebuild failed")
	} else {
		w.log.WithField("took", time.Since(start).Round(time.Millisecond)).Info("index rebuilt")
	}
	if w.rebuilt != nil {
		w.rebuilt <- err
	}
}

// relevant drops events for ignored paths and anything inside them.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return !w.ignore(event.Name)
	}
	p := w.root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		p = filepath.Join(p, part)
		if w.ignore(p) {
			return false
		}
	}
	return true
}

// addRecursive watches dir and every non-ignored directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("cannot watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("cannot watch %s: %w", dir, err)
			}
			w.log.WithError(err).WithField("dir", path).Warn("cannot watch directory")
		}
		return nil
	})
}
