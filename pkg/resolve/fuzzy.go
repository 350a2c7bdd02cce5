package resolve

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Default similarity thresholds. Lenient is used when a single best guess is
// clicked directly; Strict gates the options offered for disambiguation.
const (
	DefaultLenient = 0.4
	DefaultStrict  = 0.5
)

// Similarity returns a ratio in [0, 1]: twice the number of runes the two
// strings share in a character diff, over their combined length. Both
// strings are lowercased and whitespace-collapsed first.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	if a == b {
		return 1
	}
	dmp := diffmatchpatch.New()
	matched := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return 2 * float64(matched) / float64(total)
}

// Matches returns up to n candidates whose similarity to target is at least
// threshold, best first. Equal scores keep scan order.
func Matches(target string, cands []Candidate, threshold float64, n int) []Candidate {
	type scored struct {
		c     Candidate
		score float64
	}
	var hits []scored
	for _, c := range cands {
		if s := Similarity(target, c.Label); s >= threshold {
			hits = append(hits, scored{c: c, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	out := make([]Candidate, len(hits))
	for i, h := range hits {
		out[i] = h.c
	}
	return out
}

// BestMatch returns the candidate most similar to target, if any reaches
// threshold.
func BestMatch(target string, cands []Candidate, threshold float64) (Candidate, bool) {
	m := Matches(target, cands, threshold, 1)
	if len(m) == 0 {
		return Candidate{}, false
	}
	return m[0], true
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
