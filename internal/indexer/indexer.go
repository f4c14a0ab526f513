// Package indexer walks a directory tree and builds a word index of the
// text files it finds.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/kamusis/codesearch/internal/index"
)

// DefaultIgnore lists the basenames skipped when no ignore set is given.
var DefaultIgnore = []string{".git", ".venv"}

// Stats summarizes one MakeIndex run.
type Stats struct {
	FilesIndexed int
	FilesSkipped int // not UTF-8, or gone before it could be read
	PathsIgnored int
}

// Indexer fills an Index from a directory tree and saves it to IndexFile.
type Indexer struct {
	indexFile string
	ignore    map[string]struct{}
	fsys      FS
	log       *logrus.Entry
	index     *index.Index
	stats     Stats
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithIgnore replaces the ignore set with names. Matching is on basename only.
func WithIgnore(names ...string) Option {
	return func(ix *Indexer) {
		ix.ignore = make(map[string]struct{}, len(names))
		for _, n := range names {
			ix.ignore[n] = struct{}{}
		}
	}
}

// WithFS sets the filesystem to walk. The default is OSFS.
func WithFS(fsys FS) Option {
	return func(ix *Indexer) { ix.fsys = fsys }
}

// WithLogger sets the logger used for progress messages.
func WithLogger(log *logrus.Entry) Option {
	return func(ix *Indexer) { ix.log = log }
}

// New returns an Indexer with an empty index that will be saved to indexFile.
func New(indexFile string, opts ...Option) *Indexer {
	ix := &Indexer{
		indexFile: indexFile,
		fsys:      OSFS{},
		index:     index.New(),
	}
	WithIgnore(DefaultIgnore...)(ix)
	for _, o := range opts {
		o(ix)
	}
	if ix.log == nil {
		ix.log = logrus.WithField("component", "indexer")
	}
	return ix
}

// MakeIndex walks directory depth-first and adds every word of every eligible
// file to the index. Ignored entries are skipped together with their subtree.
func (ix *Indexer) MakeIndex(ctx context.Context, directory string) error {
	ix.log.WithField("root", directory).Debug("indexing started")
	if err := ix.indexFileOrDirectory(ctx, directory); err != nil {
		return err
	}
	ix.log.WithFields(logrus.Fields{
		"root":    directory,
		"files":   ix.stats.FilesIndexed,
		"skipped": ix.stats.FilesSkipped,
		"ignored": ix.stats.PathsIgnored,
		"words":   ix.index.Len(),
	}).Debug("indexing finished")
	return nil
}

// ShouldIgnorePath reports whether the basename of path is in the ignore set.
func (ix *Indexer) ShouldIgnorePath(path string) bool {
	_, ok := ix.ignore[filepath.Base(path)]
	return ok
}

// Save writes the index to the configured index file.
func (ix *Indexer) Save() error {
	if err := ix.index.Save(ix.indexFile); err != nil {
		return err
	}
	ix.log.WithFields(logrus.Fields{
		"file":  ix.indexFile,
		"words": ix.index.Len(),
		"paths": ix.index.PathCount(),
	}).Debug("index saved")
	return nil
}

// Index returns the index being built.
func (ix *Indexer) Index() *index.Index { return ix.index }

// Stats returns counters for the walk so far.
func (ix *Indexer) Stats() Stats { return ix.stats }

func (ix *Indexer) indexFileOrDirectory(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ix.ShouldIgnorePath(path) {
		ix.stats.PathsIgnored++
		return nil
	}

	if !ix.fsys.IsDir(path) {
		return ix.indexOneFile(path)
	}
	children, err := ix.fsys.ReadDir(path)
	if err != nil {
		return fmt.Errorf("cannot list directory %s: %w", path, err)
	}
	for _, name := range children {
		if err := ix.indexFileOrDirectory(ctx, joinPath(path, name)); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) indexOneFile(path string) error {
	text, err := ix.fsys.ReadText(path)
	switch {
	case errors.Is(err, ErrNotText), errors.Is(err, fs.ErrNotExist):
		ix.stats.FilesSkipped++
		return nil
	case err != nil:
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	for _, w := range Tokenize(text) {
		ix.index.AddWord(w, path)
	}
	ix.stats.FilesIndexed++
	return nil
}

// joinPath appends name to dir without cleaning the result, so the stored
// path keeps the exact form of the root the walk started from ("./a.txt",
// "x/../y/a.txt").
func joinPath(dir, name string) string {
	if dir == "" || os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
