// Package textclean normalizes raw Indonesian speech transcripts: laughter,
// emoji, stretched words, informal abbreviations and filler phrases.
package textclean

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/sebayufm/notulen/internal/textutil"
)

const (
	fillerPasses       = 3
	maxFillerSentence  = 5
	maxCleanPasses     = 4
	minAggressiveRunes = 3
	misencodedEllipsis = "â€¦"
)

var (
	reLaugh = regexp.MustCompile(`(?i)\b(?:wk(?:wk)+w?|kw(?:kw)+k?|(?:ha){2,}h?a*|(?:he){2,}h?e*|(?:hi){2,}h?i*|lol|lmao|rofl)\b`)
	reEmoji = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2700}-\x{27BF}\x{2600}-\x{26FF}]`)

	reLonelyConnector = regexp.MustCompile(`(?i)\b(?:terus|lalu|jadi|nah)\b\s*(?:,|\.|$)`)
	reSpaceComma      = regexp.MustCompile(`[ \t]+,`)
	reSpacePeriod     = regexp.MustCompile(`[ \t]+\.`)
	reSpaces          = regexp.MustCompile(`[ \t\r\f\v]+`)

	fillerSet    = make(map[string]struct{}, len(fillers))
	fillersByLen []string
)

func init() {
	for _, f := range fillers {
		fillerSet[f] = struct{}{}
	}
	fillersByLen = append(fillersByLen, fillers...)
	sort.SliceStable(fillersByLen, func(i, j int) bool {
		if len(fillersByLen[i]) != len(fillersByLen[j]) {
			return len(fillersByLen[i]) > len(fillersByLen[j])
		}
		return fillersByLen[i] < fillersByLen[j]
	})
}

// Clean returns a tidied copy of text, one sentence per line. Blank input is
// returned as is. With aggressive set, lines shorter than three characters are
// dropped as noise.
func Clean(text string, aggressive bool) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	text = norm.NFKC.String(text)

	// Dropping a filler or splitting on a connector can expose new work for
	// the next pass, so run until the output settles.
	out := cleanPass(text, aggressive)
	for i := 1; i < maxCleanPasses; i++ {
		next := cleanPass(out, aggressive)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func cleanPass(text string, aggressive bool) string {
	var out []string
	for _, s := range textutil.SplitSentences(text, 1) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		for _, ln := range strings.Split(cleanSentence(s), "\n") {
			if ln = strings.TrimSpace(ln); ln != "" {
				out = append(out, ln)
			}
		}
	}

	if !aggressive {
		return strings.Join(out, "\n")
	}
	kept := out[:0]
	for _, ln := range out {
		if utf8.RuneCountInString(ln) >= minAggressiveRunes {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, "\n")
}

func cleanSentence(s string) string {
	var tokens []string
	for _, tok := range strings.Fields(s) {
		tok = normalizeToken(tok)
		rep, ok := replacements[strings.ToLower(tok)]
		if !ok {
			tokens = append(tokens, tok)
			continue
		}
		tokens = append(tokens, strings.Fields(rep)...)
	}

	s = dropFillers(tokens)
	s = reLonelyConnector.ReplaceAllString(s, ".\n")
	s = reSpaceComma.ReplaceAllString(s, ",")
	s = reSpacePeriod.ReplaceAllString(s, ".")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// dropFillers removes standalone fillers from short sentences and trims
// leading or trailing ones, repeating while either step shrinks the text.
func dropFillers(tokens []string) string {
	s := strings.Join(tokens, " ")
	for {
		pruned := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			if _, isFiller := fillerSet[strings.ToLower(tok)]; isFiller && len(tokens) <= maxFillerSentence {
				continue
			}
			pruned = append(pruned, tok)
		}
		next := stripFillers(strings.Join(pruned, " "))
		if next == s {
			return s
		}
		s = next
		tokens = strings.Fields(s)
	}
}

func normalizeToken(tok string) string {
	t := reLaugh.ReplaceAllString(tok, "")
	t = reEmoji.ReplaceAllString(t, "")
	t = strings.ReplaceAll(t, misencodedEllipsis, "...")
	return squashRepeats(t)
}

// squashRepeats shortens every run of three or more identical runes to two.
func squashRepeats(s string) string {
	var (
		b    strings.Builder
		prev rune = -1
		run  int
	)
	b.Grow(len(s))
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripFillers peels filler phrases off both ends of a sentence, longest
// phrase first so "gitu ya" wins over "gitu".
func stripFillers(s string) string {
	s = strings.TrimSpace(s)
	for pass := 0; pass < fillerPasses; pass++ {
		for _, f := range fillersByLen {
			if hasPrefixFold(s, f+" ") {
				s = strings.TrimLeft(s[len(f):], " \t")
			}
		}
		for _, f := range fillersByLen {
			if hasSuffixFold(s, " "+f) {
				s = strings.TrimRight(s[:len(s)-len(f)], " \t")
			}
		}
	}
	return s
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
