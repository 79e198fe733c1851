package acquire

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"jangat/internal/core/langhint"
	perr "jangat/internal/platform/errors"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Paragraph classifier after the jusText method: blocks are judged on length, link density
// and stopword density, then short and borderline blocks take the class of their neighbours.
// The stopword thresholds sit lower than jusText's because our stoplists are shorter
const (
	lengthLow      = 70
	lengthHigh     = 200
	stopwordsLow   = 0.20
	stopwordsHigh  = 0.26
	maxLinkDensity = 0.2
)

type class int

const (
	classBad class = iota
	classShort
	classNearGood
	classGood
)

type paragraph struct {
	text      strings.Builder
	linkChars int
	class     class
}

func (p *paragraph) String() string { return strings.Join(strings.Fields(p.text.String()), " ") }

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true, "template": true,
	"svg": true, "head": true, "select": true, "button": true, "textarea": true,
	"object": true, "embed": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "body": true,
	"br": true, "center": true, "dd": true, "details": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

// extractHTML returns the non boilerplate paragraphs of an HTML page, one per line
func extractHTML(r io.Reader, contentType, lang string) (string, error) {
	if cr, err := charset.NewReader(r, contentType); err == nil {
		r = cr
	}
	doc, err := html.Parse(r)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse html")
	}

	paras := segmentBlocks(doc)
	classify(paras, stoplistFor(lang, paras))

	var kept []string
	for _, p := range paras {
		if p.class == classGood {
			kept = append(kept, p.String())
		}
	}
	return strings.Join(kept, "\n"), nil
}

// segmentBlocks cuts the visible text into paragraphs at block element boundaries
func segmentBlocks(doc *html.Node) []*paragraph {
	var (
		out []*paragraph
		cur = &paragraph{}
	)
	flush := func() {
		if strings.TrimSpace(cur.text.String()) != "" {
			out = append(out, cur)
		}
		cur = &paragraph{}
	}

	var walk func(n *html.Node, inLink bool)
	walk = func(n *html.Node, inLink bool) {
		switch n.Type {
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
			block := blockTags[n.Data]
			if block {
				flush()
			}
			link := inLink || n.Data == "a"
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, link)
			}
			if block {
				flush()
			}
			return
		case html.TextNode:
			cur.text.WriteString(n.Data)
			cur.text.WriteByte(' ')
			if inLink {
				cur.linkChars += utf8.RuneCountInString(strings.TrimSpace(n.Data))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inLink)
		}
	}
	walk(doc, false)
	flush()
	return out
}

func stoplistFor(lang string, paras []*paragraph) map[string]struct{} {
	code := strings.ToLower(strings.TrimSpace(lang))
	if code == "auto" {
		var b strings.Builder
		for _, p := range paras {
			b.WriteString(p.String())
			b.WriteByte(' ')
		}
		code = langhint.Guess(b.String())
	}
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if s := langhint.Stoplist(code); s != nil {
		return s
	}
	return langhint.Stoplist("fr")
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
}

func classify(paras []*paragraph, stop map[string]struct{}) {
	for _, p := range paras {
		p.class = contextFree(p, stop)
	}
	for i, p := range paras {
		if p.class != classShort {
			continue
		}
		prev, next := neighbour(paras, i, -1, true), neighbour(paras, i, 1, true)
		switch {
		case prev == classGood && next == classGood:
			p.class = classGood
		case prev == classBad && next == classBad:
			p.class = classBad
		case (prev == classBad && neighbour(paras, i, -1, false) == classNearGood) ||
			(next == classBad && neighbour(paras, i, 1, false) == classNearGood):
			p.class = classGood
		default:
			p.class = classBad
		}
	}
	for i, p := range paras {
		if p.class != classNearGood {
			continue
		}
		if neighbour(paras, i, -1, true) == classBad && neighbour(paras, i, 1, true) == classBad {
			p.class = classBad
		} else {
			p.class = classGood
		}
	}
}

func contextFree(p *paragraph, stop map[string]struct{}) class {
	text := p.String()
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return classBad
	}
	if float64(p.linkChars)/float64(n) > maxLinkDensity {
		return classBad
	}
	if strings.Contains(text, "©") || strings.Contains(text, "&copy") {
		return classBad
	}
	if n < lengthLow {
		if p.linkChars > 0 {
			return classBad
		}
		return classShort
	}
	ws := words(text)
	if len(ws) == 0 {
		return classBad
	}
	hits := 0
	for _, w := range ws {
		if _, ok := stop[w]; ok {
			hits++
		}
	}
	density := float64(hits) / float64(len(ws))
	switch {
	case density >= stopwordsHigh && n > lengthHigh:
		return classGood
	case density >= stopwordsLow:
		return classNearGood
	}
	return classBad
}

// neighbour returns the class of the closest paragraph in direction dir that is not short
// (and, when skipNear is set, not near good either). The document edges count as bad
func neighbour(paras []*paragraph, i, dir int, skipNear bool) class {
	for j := i + dir; j >= 0 && j < len(paras); j += dir {
		c := paras[j].class
		if c == classShort || (skipNear && c == classNearGood) {
			continue
		}
		return c
	}
	return classBad
}
