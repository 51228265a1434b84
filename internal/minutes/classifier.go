// Package minutes classifies summary lines into meeting-minutes categories
// and renders the resulting minutes as structured data, markdown or DOCX.
package minutes

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sebayufm/notulen/internal/summary"
	"github.com/sebayufm/notulen/internal/textutil"
)

const (
	decisionBoost = 1.6
	actionBoost   = 1.1
	dueBoost      = 0.8
	ownerBoost    = 0.8

	// FallbackSentences is how many scored sentences stand in for a missing summary.
	FallbackSentences = 30

	candidateTrim = "â€¢•- \t\r\n"
)

var (
	reDate = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/\-.]\d{1,2}(?:[/\-.]\d{2,4})?|` +
		`\d{1,2}\s+(?:jan|feb|mar|apr|mei|jun|jul|agu|sep|okt|nov|des)[a-z]*\s+\d{2,4}|` +
		`paling lambat|selambat-lambatnya|sebelum tanggal|minggu ke-\d+|akhir bulan|awal bulan)\b`)
	reOwner = regexp.MustCompile(`(?i:\b(?:PIC|owner|penanggung jawab|ditugaskan kepada|menugaskan|oleh)\b)[: ]+` +
		`([A-Z][\w.]*(?: [A-Z][\w.]*)*)`)
	reOwnerFallback = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*)\b[^.]{0,30}?\b(?:akan|agar|diminta|ditugaskan)\b`)
	reDecisionVerb  = regexp.MustCompile(`(?i)\b(?:diputuskan|memutuskan|menetapkan|ditetapkan|disepakati|menyepakati|` +
		`menyetujui|disetujui|menolak|dengan catatan)\b`)
	reActionVerb = regexp.MustCompile(`(?i)\b(?:dilakukan|ditindaklanjuti|dikerjakan|menindaklanjuti|menyelesaikan|` +
		`melakukan|follow[- ]?up|menugaskan|ditugaskan|koordinasi|menyusun|mengirim|` +
		`mengajukan|merevisi|memperbaiki|menyampaikan)\b`)

	baseCompiled = mustCompileBase()
)

// Item is one classified minutes line.
type Item struct {
	Text       string  `json:"text"`
	Owner      string  `json:"owner,omitempty"`
	DueDate    string  `json:"due_date,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Buckets maps every canonical category to its ordered items.
type Buckets map[Category][]Item

func newBuckets() Buckets {
	b := make(Buckets, len(Categories))
	for _, c := range Categories {
		b[c] = []Item{}
	}
	return b
}

// Texts returns the item texts of category c.
func (b Buckets) Texts(c Category) []string {
	out := make([]string, 0, len(b[c]))
	for _, it := range b[c] {
		out = append(out, it.Text)
	}
	return out
}

// Classifier scores lines against the built-in keyword table merged with
// caller supplied patterns. It holds no mutable state.
type Classifier struct {
	order    []Category
	patterns map[Category][]*regexp.Regexp
}

type classified struct {
	label Category
	score float64
	item  Item
}

func mustCompileBase() map[Category][]*regexp.Regexp {
	out := make(map[Category][]*regexp.Regexp, len(baseKeysets))
	for c, pats := range baseKeysets {
		for _, p := range pats {
			out[c] = append(out[c], regexp.MustCompile("(?i)"+p))
		}
	}
	return out
}

// NewClassifier merges custom patterns into the built-in table. Custom
// categories outside the canonical five are scored after them in name order.
// Patterns that fail to compile are skipped and reported in the returned
// error; the Classifier is usable either way.
func NewClassifier(custom map[Category][]string) (*Classifier, error) {
	c := &Classifier{
		order:    append([]Category(nil), Categories...),
		patterns: make(map[Category][]*regexp.Regexp, len(baseCompiled)+len(custom)),
	}
	for cat, regs := range baseCompiled {
		c.patterns[cat] = append([]*regexp.Regexp(nil), regs...)
	}

	var extra []Category
	for cat := range custom {
		if _, ok := baseCompiled[cat]; !ok && len(custom[cat]) > 0 {
			extra = append(extra, cat)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	c.order = append(c.order, extra...)

	var errs []error
	for _, cat := range c.order {
		for _, p := range custom[cat] {
			if strings.TrimSpace(p) == "" {
				continue
			}
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				errs = append(errs, fmt.Errorf("keyword %q for %s: %w", p, cat, err))
				continue
			}
			c.patterns[cat] = append(c.patterns[cat], re)
		}
	}
	return c, errors.Join(errs...)
}

// Extract classifies the summary, or a scored fallback drawn from the
// transcript when the summary is empty or a failure marker, into buckets of
// at most maxEach items each.
func (c *Classifier) Extract(transcript, summaryText string, maxEach int) Buckets {
	buckets := newBuckets()

	source := summaryText
	if strings.TrimSpace(source) == "" || summary.IsFailure(source) {
		source = summary.Summarize(transcript, FallbackSentences)
	}
	if strings.TrimSpace(source) == summary.EmptyPlaceholder {
		return buckets
	}

	var (
		ranked  []classified
		prevDue string
	)
	for _, line := range Candidates(source) {
		r := c.classify(line)
		due := r.item.DueDate
		if r.label == TindakLanjut && r.item.Owner != "" && due == "" {
			r.item.DueDate = prevDue
		}
		prevDue = due
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	for _, r := range ranked {
		items, ok := buckets[r.label]
		if !ok || len(items) >= maxEach || containsText(items, r.item.Text) {
			continue
		}
		buckets[r.label] = append(items, r.item)
	}
	return buckets
}

// Scores returns the per-category score of line.
func (c *Classifier) Scores(line string) map[Category]float64 {
	scores, _, _ := c.score(line)
	return scores
}

func (c *Classifier) classify(line string) classified {
	scores, owner, due := c.score(line)

	label := c.order[0]
	for _, cat := range c.order[1:] {
		if scores[cat] > scores[label] {
			label = cat
		}
	}
	return classified{
		label: label,
		score: scores[label],
		item: Item{
			Text:       strings.TrimSpace(line),
			Owner:      owner,
			DueDate:    due,
			Confidence: math.Round(scores[label]*100) / 100,
		},
	}
}

func (c *Classifier) score(line string) (map[Category]float64, string, string) {
	scores := make(map[Category]float64, len(c.order))
	for _, cat := range c.order {
		for _, re := range c.patterns[cat] {
			if re.MatchString(line) {
				scores[cat] += 1.0
			}
		}
	}

	owner := InferOwner(line)
	due := InferDueDate(line)

	if reDecisionVerb.MatchString(line) {
		scores[Keputusan] += decisionBoost
	}
	if reActionVerb.MatchString(line) {
		scores[TindakLanjut] += actionBoost
	}
	if due != "" {
		scores[TindakLanjut] += dueBoost
	}
	if owner != "" {
		scores[TindakLanjut] += ownerBoost
	}
	return scores, owner, due
}

// Extract classifies with a one-off Classifier. Invalid custom patterns are ignored.
func Extract(transcript, summaryText string, maxEach int, custom map[Category][]string) Buckets {
	c, _ := NewClassifier(custom)
	return c.Extract(transcript, summaryText, maxEach)
}

// Candidates splits text into candidate lines on blank lines and sentence
// ends, stripping bullet decorations.
func Candidates(text string) []string {
	var out []string
	for _, p := range textutil.SplitSentences(text, 2) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if p = strings.Trim(p, candidateTrim); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InferOwner returns the person a line assigns work to, or "".
func InferOwner(line string) string {
	if m := reOwner.FindStringSubmatch(line); m != nil {
		if owner := strings.TrimRight(m[1], ". "); owner != "" {
			return owner
		}
	}
	if m := reOwnerFallback.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// InferDueDate returns the first date or deadline phrase in line, or "".
func InferDueDate(line string) string {
	return reDate.FindString(line)
}

func containsText(items []Item, text string) bool {
	for _, it := range items {
		if it.Text == text {
			return true
		}
	}
	return false
}
