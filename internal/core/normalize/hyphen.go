package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Dehyphenate rejoins words split across lines by a trailing hyphen, as laid out
// PDF pages do: "éduca-\ntion" becomes "éducation". Hyphens not followed by a
// line break, or not between letters, are kept
func Dehyphenate(s string) string {
	if !strings.Contains(s, "-\n") && !strings.Contains(s, "-\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '-' {
			j := i + 1
			if j < len(s) && s[j] == '\r' {
				j++
			}
			if j < len(s) && s[j] == '\n' {
				before, _ := utf8.DecodeLastRuneInString(s[:i])
				k := j + 1
				for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
					k++
				}
				after, _ := utf8.DecodeRuneInString(s[k:])
				if unicode.IsLetter(before) && unicode.IsLower(after) {
					i = k
					continue
				}
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
