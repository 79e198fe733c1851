// Package normalize puts synonyms and document text into one canonical Unicode form
// so that composed and decomposed accents, ligatures and fullwidth forms compare equal.
// Pipeline order
// 1 drop control bytes and invalid UTF-8
// 2 NFKC
// 3 strip format characters (soft hyphen, zero widths, BOM)
// 4 width fold
// 5 collapse horizontal whitespace, keep one newline per line break run, trim
// Case is preserved so evidence can be quoted as written
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is safe for concurrent use
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

var foldPool = sync.Pool{
	New: func() any { c := cases.Fold(); return &c },
}

// New returns a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize applies the pipeline described in the package doc
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = s
	}
	return collapseSpaces(out)
}

// Key returns the case folded form of a normalized string, used wherever two
// spellings must compare equal regardless of case
func Key(s string) string {
	c := foldPool.Get().(*cases.Caser)
	k := c.String(s)
	foldPool.Put(c)
	return k
}

// collapseSpaces turns each whitespace run into one space, or one newline when the
// run contained a line break, and trims both ends
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending, newline := false, false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = true
			newline = newline || r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
			continue
		}
		if pending && b.Len() > 0 {
			if newline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		pending, newline = false, false
		b.WriteRune(r)
	}
	return b.String()
}
