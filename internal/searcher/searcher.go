// Package searcher answers single-word queries against a saved index.
package searcher

import (
	"github.com/kamusis/codesearch/internal/index"
)

// Searcher holds a loaded index. It is safe for concurrent use.
type Searcher struct {
	index *index.Index
}

// New loads the index at indexFile.
func New(indexFile string) (*Searcher, error) {
	ix, err := index.Load(indexFile)
	if err != nil {
		return nil, err
	}
	return &Searcher{index: ix}, nil
}

// Search returns the paths of files containing query as a whole word.
// An unknown word yields an empty slice.
func (s *Searcher) Search(query string) []string {
	paths, ok := s.index.Lookup(query)
	if !ok {
		return []string{}
	}
	return paths
}
