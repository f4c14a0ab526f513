package indexer

import (
	"strings"
	"unicode"
)

// Tokenize splits text on whitespace and returns the tokens made only of
// letters, in order of appearance. Case is preserved and duplicates are kept.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, isSpace)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if isWord(f) {
			out = append(out, f)
		}
	}
	return out
}

// isSpace also treats the ASCII file/group/record/unit separators as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isWord(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
