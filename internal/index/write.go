package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockTimeout bounds how long Save waits for another writer of the same file.
const lockTimeout = 30 * time.Second

// Save writes the index to path, replacing any existing file.
//
// The data is written to a temp file in the same directory and renamed over
// path while holding path+".lock", so readers never observe a partial file.
func (ix *Index) Save(path string) error {
	doc := file{FormatVersion: FormatVersion, Words: ix.Words()}

	unlock, err := acquireLock(path+".lock", lockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temp index file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	bw := bufio.NewWriter(tmp)
	if err := json.NewEncoder(bw).Encode(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot encode index: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot write index %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(fileMode(path)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot set mode on %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write index %s: %w", tmpPath, err)
	}
	if err := replaceFile(tmpPath, path); err != nil {
		return fmt.Errorf("cannot install index %s: %w", path, err)
	}
	return nil
}

// fileMode keeps the permissions of an existing index, and uses 0644 for a new one.
func fileMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return 0o644
}

// acquireLock obtains an exclusive advisory lock on lockPath, polling until timeout.
func acquireLock(lockPath string, timeout time.Duration) (func(), error) {
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire index lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another index write is in progress (lock: %s)", lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
