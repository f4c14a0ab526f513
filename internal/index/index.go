package index

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// New returns an empty index.
func New() *Index {
	return &Index{
		pathIDs:  make(map[string]uint32),
		postings: make(map[string]*roaring.Bitmap),
	}
}

// AddWord records that path contains word. Adding the same pair twice is a no-op.
func (ix *Index) AddWord(word, path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	id, ok := ix.pathIDs[path]
	if !ok {
		id = uint32(len(ix.paths))
		ix.paths = append(ix.paths, path)
		ix.pathIDs[path] = id
	}
	bm, ok := ix.postings[word]
	if !ok {
		bm = roaring.New()
		ix.postings[word] = bm
	}
	bm.Add(id)
}

// Lookup returns the paths containing word, in first-seen order.
// It never modifies the index.
func (ix *Index) Lookup(word string) ([]string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	bm, ok := ix.postings[word]
	if !ok {
		return nil, false
	}
	return ix.pathsOf(bm), true
}

// Words returns a snapshot of the whole word -> paths mapping.
func (ix *Index) Words() map[string][]string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make(map[string][]string, len(ix.postings))
	for w, bm := range ix.postings {
		out[w] = ix.pathsOf(bm)
	}
	return out
}

// Len returns the number of distinct words.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.postings)
}

// PathCount returns the number of distinct paths referenced by any word.
func (ix *Index) PathCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.paths)
}

// pathsOf must be called with ix.mu held.
func (ix *Index) pathsOf(bm *roaring.Bitmap) []string {
	out := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, ix.paths[it.Next()])
	}
	return out
}
