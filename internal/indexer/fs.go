package indexer

import (
	"errors"
	"os"
	"unicode/utf8"
)

// ErrNotText is returned by FS.ReadText when a file is not valid UTF-8.
var ErrNotText = errors.New("file is not valid UTF-8 text")

// FS is the filesystem capability the indexer walks.
//
// ReadText must report invalid UTF-8 as ErrNotText and a vanished file as an
// error matching fs.ErrNotExist, so both can be told apart from real failures.
type FS interface {
	IsDir(path string) bool
	ReadDir(path string) ([]string, error)
	ReadText(path string) (string, error)
}

// OSFS implements FS on top of the operating system.
type OSFS struct{}

// IsDir follows symlinks; a missing path is not a directory.
func (OSFS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadDir returns the names of the immediate children of path.
func (OSFS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadText reads the whole file and checks that it decodes as UTF-8.
func (OSFS) ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrNotText
	}
	return string(b), nil
}
