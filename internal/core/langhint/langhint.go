// Package langhint guesses the script and, for Latin script text, the language of a document.
// The guess picks sentence segmentation rules and the boilerplate stoplist
package langhint

import (
	"sort"
	"strings"
	"unicode"
)

// scripts checked in priority order; Latin is the fallback bucket
var scripts = []struct {
	name  string
	table *unicode.RangeTable
	lang  string // set only where the script alone decides the language
}{
	{"Hiragana", unicode.Hiragana, "ja"},
	{"Katakana", unicode.Katakana, "ja"},
	{"Hangul", unicode.Hangul, "ko"},
	{"Han", unicode.Han, ""},
	{"Arabic", unicode.Arabic, "ar"},
	{"Hebrew", unicode.Hebrew, "he"},
	{"Thai", unicode.Thai, "th"},
	{"Greek", unicode.Greek, "el"},
	{"Cyrillic", unicode.Cyrillic, ""},
	{"Devanagari", unicode.Devanagari, ""},
	{"Latin", unicode.Latin, ""},
}

// minLetters below which no language is claimed
const minLetters = 20

// Script returns the predominant script name, "" when s has no letters
func Script(s string) string {
	name, _, _ := dominant(s)
	return name
}

func dominant(s string) (name, lang string, letters int) {
	counts := make([]int, len(scripts))
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for i, sc := range scripts {
			if unicode.Is(sc.table, r) {
				counts[i]++
				break
			}
		}
	}
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", "", letters
	}
	return scripts[best].name, scripts[best].lang, letters
}

// Guess returns an ISO 639-1 code, or "" when the text is too short or ambiguous.
// Latin script text is scored by stopword hits against each known stoplist
func Guess(s string) string {
	name, lang, letters := dominant(s)
	if letters < minLetters {
		return ""
	}
	if name != "Latin" {
		return lang
	}

	hits := map[string]int{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && r != '\'' }) {
		w = strings.ToLower(w)
		for code, set := range stopsets {
			if _, ok := set[w]; ok {
				hits[code]++
			}
		}
	}

	codes := make([]string, 0, len(hits))
	for c := range hits {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	best, bestN, tie := "", 0, false
	for _, c := range codes {
		switch n := hits[c]; {
		case n > bestN:
			best, bestN, tie = c, n, false
		case n == bestN:
			tie = true
		}
	}
	if bestN < 2 || tie {
		return ""
	}
	return best
}
