package index

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
)

// Load reads an index previously written by Save.
//
// Files without a format_version field are read as the legacy flat
// {"word": ["path", ...]} form.
func Load(path string) (*Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read index %s: %w", path, err)
	}
	words, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("cannot load index %s: %w", path, err)
	}

	ix := New()
	for _, w := range slices.Sorted(maps.Keys(words)) {
		for _, p := range words[w] {
			ix.AddWord(w, p)
		}
	}
	return ix, nil
}

func decode(b []byte) (map[string][]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidFormat)
	}

	if _, ok := top[versionKey]; !ok {
		words := make(map[string][]string, len(top))
		for w, raw := range top {
			var paths []string
			if err := json.Unmarshal(raw, &paths); err != nil {
				return nil, fmt.Errorf("%w: word %q: %v", ErrInvalidFormat, w, err)
			}
			words[w] = paths
		}
		return words, nil
	}

	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if f.FormatVersion < 1 || f.FormatVersion > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format_version %d (max %d)", ErrInvalidFormat, f.FormatVersion, FormatVersion)
	}
	if f.Words == nil {
		f.Words = map[string][]string{}
	}
	return f.Words, nil
}
