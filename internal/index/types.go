package index

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// FormatVersion is the on-disk format written by Save.
const FormatVersion = 1

// versionKey contains an underscore, so it can never be an indexed word.
const versionKey = "format_version"

// file is the serialized form of an Index.
type file struct {
	FormatVersion int                 `json:"format_version"`
	Words         map[string][]string `json:"words"`
}

// Index maps words to the set of file paths that contain them.
//
// Paths are interned to dense ids in first-seen order and each word's path
// set is kept as a roaring bitmap of those ids.
type Index struct {
	mu       sync.RWMutex
	paths    []string
	pathIDs  map[string]uint32
	postings map[string]*roaring.Bitmap
}
