//go:build windows

package index

import (
	"time"

	"golang.org/x/sys/windows"
)

// replaceFile renames src over dst.
//
// A searcher reading dst can briefly hold a handle that makes the move fail
// with a sharing violation; we retry for a short period before giving up.
func replaceFile(src, dst string) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 15; i++ {
		err := windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	return lastErr
}
