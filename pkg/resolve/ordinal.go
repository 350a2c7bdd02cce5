package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

var ordinalWords = []string{
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth",
}

var numberWords = []string{
	"one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "ten",
}

var numeral = regexp.MustCompile(`(\d+)(st|nd|rd|th)?`)

// Ordinal extracts a zero-based position from text. Ordinal words first
// through tenth are checked in that order, then the first numeral, with or
// without an ordinal suffix.
func Ordinal(text string) (int, bool) {
	lower := strings.ToLower(text)
	for i, w := range ordinalWords {
		if strings.Contains(lower, w) {
			return i, true
		}
	}
	m := numeral.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// PickOrdinal resolves an ordinal reference in text against cands. An
// ordinal beyond the end of cands is not a match.
func PickOrdinal(text string, cands []Candidate) (Candidate, bool) {
	idx, ok := Ordinal(text)
	if !ok || idx >= len(cands) {
		return Candidate{}, false
	}
	return cands[idx], true
}

// ParseChoice reads a one-based option number out of a follow-up utterance
// such as "2", "two" or "option number three". It succeeds only for 1..n.
func ParseChoice(text string, n int) (int, bool) {
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?#:;'\"")
		choice := 0
		if v, err := strconv.Atoi(tok); err == nil {
			choice = v
		} else {
			for i, w := range numberWords {
				if tok == w {
					choice = i + 1
					break
				}
			}
		}
		if choice == 0 {
			continue
		}
		if choice >= 1 && choice <= n {
			return choice, true
		}
		return 0, false
	}
	return 0, false
}
