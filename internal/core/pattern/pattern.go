// Package pattern compiles each subject's synonyms into one case insensitive expression
// anchored on Unicode word boundaries.
//
// Go's \b only knows ASCII word characters, so "é" would count as a boundary and
// "santé" would match inside "santéx". The expression spells the boundary out instead:
//
//	(?i)(?:^|[^\p{L}\p{N}\p{M}\p{Pc}])(alt1|alt2|...)(?:[^\p{L}\p{N}\p{M}\p{Pc}]|$)
//
// Every synonym is quoted word by word and the words are joined with \s+, so a phrase
// broken across a line still matches. Alternatives are ordered longest first, then
// lexically, which makes the expression text a pure function of the synonym set
package pattern

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"jangat/internal/core/normalize"
	"jangat/internal/core/taxonomy"
	perr "jangat/internal/platform/errors"
)

const wordClass = `\p{L}\p{N}\p{M}\p{Pc}`

// ErrEmptySynonyms is returned instead of compiling an expression that can never match
var ErrEmptySynonyms = perr.New(perr.ErrorCodeValidation, "empty synonym set")

// Hit is the first occurrence of a subject in a string
type Hit struct {
	Term  string `json:"term"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Pattern is the compiled expression of one subject; safe for concurrent use
type Pattern struct {
	Subject string
	re      *regexp.Regexp
}

// String returns the expression text
func (p *Pattern) String() string { return p.re.String() }

// Match reports whether s contains any synonym as a whole word or phrase
func (p *Pattern) Match(s string) bool { return p.re.MatchString(s) }

// Find returns the first boundary valid occurrence in s
func (p *Pattern) Find(s string) (Hit, bool) {
	loc := p.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return Hit{}, false
	}
	return Hit{Term: s[loc[2]:loc[3]], Start: loc[2], End: loc[3]}, true
}

// Expression builds the expression text for a synonym set. Synonyms keep their spelling and
// the expression ignores case. Blanks are skipped and case folded duplicates collapse to the
// first spelling; nothing left is ErrEmptySynonyms
func Expression(synonyms []string) (string, error) {
	type alt struct {
		plain string
		key   string
		expr  string
	}
	alts := make([]alt, 0, len(synonyms))
	seen := make(map[string]struct{}, len(synonyms))
	for _, s := range synonyms {
		words := strings.Fields(s)
		if len(words) == 0 {
			continue
		}
		plain := strings.Join(words, " ")
		k := normalize.Key(plain)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, alt{plain: plain, key: k, expr: strings.Join(words, `\s+`)})
	}
	if len(alts) == 0 {
		return "", ErrEmptySynonyms
	}
	sort.Slice(alts, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(alts[i].plain), utf8.RuneCountInString(alts[j].plain)
		if li != lj {
			return li > lj
		}
		if alts[i].key != alts[j].key {
			return alts[i].key < alts[j].key
		}
		return alts[i].plain < alts[j].plain
	})
	parts := make([]string, len(alts))
	for i, a := range alts {
		parts[i] = a.expr
	}
	return `(?i)(?:^|[^` + wordClass + `])(` + strings.Join(parts, "|") + `)(?:[^` + wordClass + `]|$)`, nil
}

// Compiler memoizes compiled expressions by their text, so equal synonym sets share one
// regexp across subjects, documents and taxonomies
type Compiler struct {
	mu     sync.Mutex
	cache  map[string]*regexp.Regexp
	hits   int
	misses int
}

// NewCompiler returns an empty Compiler
func NewCompiler() *Compiler { return &Compiler{cache: map[string]*regexp.Regexp{}} }

var shared = NewCompiler()

// Compile compiles one subject with the process wide compiler
func Compile(s taxonomy.Subject) (*Pattern, error) { return shared.Compile(s) }

// Compile returns the pattern for s, compiling at most once per distinct synonym set
func (c *Compiler) Compile(s taxonomy.Subject) (*Pattern, error) {
	expr, err := Expression(s.Synonyms)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "subject %q", s.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	re, ok := c.cache[expr]
	if ok {
		c.hits++
		return &Pattern{Subject: s.Name, re: re}, nil
	}
	re, err = regexp.Compile(expr)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "compile subject %q", s.Name)
	}
	c.misses++
	c.cache[expr] = re
	return &Pattern{Subject: s.Name, re: re}, nil
}

// Stats reports cache hits and misses
func (c *Compiler) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Stats reports the process wide compiler's cache hits and misses
func Stats() (hits, misses int) { return shared.Stats() }

// Set is the compiled form of a taxonomy. It is built once and only read afterwards
type Set struct {
	tax      *taxonomy.Taxonomy
	patterns []*Pattern
}

// CompileSet compiles every subject of t with the process wide compiler
func CompileSet(t *taxonomy.Taxonomy) (*Set, error) { return shared.Set(t) }

// Set compiles every subject of t in taxonomy order
func (c *Compiler) Set(t *taxonomy.Taxonomy) (*Set, error) {
	subjects := t.Subjects()
	set := &Set{tax: t, patterns: make([]*Pattern, 0, len(subjects))}
	for _, s := range subjects {
		p, err := c.Compile(s)
		if err != nil {
			return nil, err
		}
		set.patterns = append(set.patterns, p)
	}
	return set, nil
}

// Taxonomy returns the taxonomy the set was compiled from
func (s *Set) Taxonomy() *taxonomy.Taxonomy { return s.tax }

// Len returns the number of patterns
func (s *Set) Len() int { return len(s.patterns) }

// Patterns returns the patterns in taxonomy order
func (s *Set) Patterns() []*Pattern { return append([]*Pattern(nil), s.patterns...) }

// Pattern returns the pattern of the named subject
func (s *Set) Pattern(name string) (*Pattern, bool) {
	for _, p := range s.patterns {
		if p.Subject == name {
			return p, true
		}
	}
	return nil, false
}
