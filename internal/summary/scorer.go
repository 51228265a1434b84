// Package summary extracts the salient sentences of a transcript and exposes
// the Summarizer backends used by transcription jobs.
package summary

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sebayufm/notulen/internal/textutil"
)

const (
	keywordBoost = 28

	// EmptyPlaceholder is returned when text has no sentence to summarize.
	EmptyPlaceholder = "- (tidak cukup konten untuk diringkas)"

	// FailurePrefix marks a summary that could not be produced.
	FailurePrefix = "[Gagal"
)

// keywords is the governance and meeting vocabulary that boosts a sentence.
var keywords = []string{
	"keputusan", "tindak lanjut", "action", "deadline", "anggaran", "solusi", "usulan",
	"disepakati", "menyetujui", "ditetapkan", "menetapkan", "menugaskan", "pic", "owner",
	"target", "paling lambat", "kua", "ppas", "tapd", "rkpd",
}

type scored struct {
	score int
	text  string
}

// Sentences splits text on terminal punctuation followed by whitespace and on
// blank lines, returning the trimmed non-empty sentences.
func Sentences(text string) []string {
	return textutil.NonEmpty(textutil.SplitSentences(text, 2))
}

// Score is the sentence length in runes plus a fixed boost per distinct
// vocabulary keyword found in it.
func Score(sentence string) int {
	low := strings.ToLower(sentence)
	score := utf8.RuneCountInString(sentence)
	for _, k := range keywords {
		if strings.Contains(low, k) {
			score += keywordBoost
		}
	}
	return score
}

// Summarize renders the maxSentences best scoring sentences of text as a
// "- " bullet list. Equal scores keep their input order.
func Summarize(text string, maxSentences int) string {
	sents := Sentences(text)
	if len(sents) == 0 || maxSentences <= 0 {
		return EmptyPlaceholder
	}

	ranked := make([]scored, len(sents))
	for i, s := range sents {
		ranked[i] = scored{score: Score(s), text: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > maxSentences {
		ranked = ranked[:maxSentences]
	}
	bullets := make([]string, len(ranked))
	for i, r := range ranked {
		bullets[i] = "- " + r.text
	}
	return strings.Join(bullets, "\n")
}

// IsFailure reports whether summary is a recorded summarization failure.
func IsFailure(summary string) bool {
	return strings.HasPrefix(strings.TrimSpace(summary), FailurePrefix)
}
