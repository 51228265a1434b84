// Package textutil holds the sentence splitting shared by the cleaner,
// the summarizer and the minutes classifier.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences cuts text after '.', '!' or '?' when followed by whitespace
// (the whole whitespace run is consumed), and at every run of at least
// minNewlines consecutive '\n'. Pieces are returned untrimmed; empty pieces
// are kept so callers decide what counts as blank.
func SplitSentences(text string, minNewlines int) []string {
	if minNewlines < 1 {
		minNewlines = 1
	}

	var (
		out   []string
		start int
		prev  rune
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		if unicode.IsSpace(r) && isTerminal(prev) {
			end := i
			for end < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[end:])
				if !unicode.IsSpace(r2) {
					break
				}
				end += s2
			}
			out = append(out, text[start:i])
			start, i, prev = end, end, 0
			continue
		}

		if r == '\n' {
			end := i
			for end < len(text) && text[end] == '\n' {
				end++
			}
			if end-i >= minNewlines {
				out = append(out, text[start:i])
				start, i, prev = end, end, '\n'
				continue
			}
		}

		prev = r
		i += size
	}
	return append(out, text[start:])
}

// NonEmpty trims every piece with strings.TrimSpace and drops the blank ones.
func NonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
