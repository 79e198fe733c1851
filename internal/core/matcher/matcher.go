// Package matcher attributes sentences to subjects. A sentence counts at most once per
// subject however many synonyms it holds, and may count for several subjects
package matcher

import (
	"strings"

	"jangat/internal/core/pattern"
	"jangat/internal/core/segment"
	perr "jangat/internal/platform/errors"
)

// Dedup decides which sentences are the same occurrence
type Dedup int

const (
	// DedupByPosition counts every sentence on its own, repeated text included
	DedupByPosition Dedup = iota
	// DedupByText counts identical sentence texts once per subject
	DedupByText
)

func (d Dedup) String() string {
	if d == DedupByText {
		return "text"
	}
	return "position"
}

// ParseDedup accepts "position" and "text"; blank means position
func ParseDedup(s string) (Dedup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "position":
		return DedupByPosition, nil
	case "text":
		return DedupByText, nil
	}
	return 0, perr.WithField(perr.InvalidArgf("unknown dedup policy %q", s), "dedup")
}

// MarshalText implements encoding.TextMarshaler
func (d Dedup) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Dedup) UnmarshalText(b []byte) error {
	v, err := ParseDedup(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Options tune a Match call
type Options struct {
	Dedup Dedup
	// MaxEvidence caps the occurrences kept per subject; counts are unaffected. Zero keeps all
	MaxEvidence int
}

// Occurrence is one sentence counted for a subject. Start and End locate Term in Text
type Occurrence struct {
	Sentence int    `json:"sentence"`
	Text     string `json:"text"`
	Term     string `json:"term"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

type accumulator struct {
	name     string
	byIndex  map[int]struct{}
	byText   map[string]struct{}
	indices  []int
	evidence []Occurrence
}

// seen marks s as counted and reports whether it already was
func (a *accumulator) seen(s segment.Sentence, d Dedup) bool {
	if d == DedupByText {
		if _, ok := a.byText[s.Text]; ok {
			return true
		}
		a.byText[s.Text] = struct{}{}
		return false
	}
	if _, ok := a.byIndex[s.Index]; ok {
		return true
	}
	a.byIndex[s.Index] = struct{}{}
	return false
}

// MatchSet holds, per subject, the sentences that evidence it
type MatchSet struct {
	dedup     Dedup
	sentences []segment.Sentence
	subjects  []*accumulator
	index     map[string]int
}

// Match scans every sentence once per subject of set
func Match(sentences []segment.Sentence, set *pattern.Set, opts Options) *MatchSet {
	patterns := set.Patterns()
	ms := &MatchSet{
		dedup:     opts.Dedup,
		sentences: append([]segment.Sentence(nil), sentences...),
		subjects:  make([]*accumulator, 0, len(patterns)),
		index:     make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		acc := &accumulator{
			name:    p.Subject,
			byIndex: map[int]struct{}{},
			byText:  map[string]struct{}{},
		}
		for _, s := range ms.sentences {
			hit, ok := p.Find(s.Text)
			if !ok || acc.seen(s, opts.Dedup) {
				continue
			}
			acc.indices = append(acc.indices, s.Index)
			if opts.MaxEvidence <= 0 || len(acc.evidence) < opts.MaxEvidence {
				acc.evidence = append(acc.evidence, Occurrence{
					Sentence: s.Index, Text: s.Text, Term: hit.Term, Start: hit.Start, End: hit.End,
				})
			}
		}
		ms.index[p.Subject] = len(ms.subjects)
		ms.subjects = append(ms.subjects, acc)
	}
	return ms
}

// Dedup returns the policy the set was built with
func (m *MatchSet) Dedup() Dedup { return m.dedup }

// TotalSentences returns the number of sentences scanned
func (m *MatchSet) TotalSentences() int { return len(m.sentences) }

// Sentences returns the scanned sentences
func (m *MatchSet) Sentences() []segment.Sentence {
	return append([]segment.Sentence(nil), m.sentences...)
}

// Names returns subject names in taxonomy order
func (m *MatchSet) Names() []string {
	out := make([]string, len(m.subjects))
	for i, a := range m.subjects {
		out[i] = a.name
	}
	return out
}

// Count returns the number of sentences counted for name, 0 for unknown names
func (m *MatchSet) Count(name string) int {
	if i, ok := m.index[name]; ok {
		return len(m.subjects[i].indices)
	}
	return 0
}

// Indices returns the counted sentence indices for name in document order
func (m *MatchSet) Indices(name string) []int {
	if i, ok := m.index[name]; ok {
		return append([]int(nil), m.subjects[i].indices...)
	}
	return nil
}

// Occurrences returns the kept evidence for name in document order
func (m *MatchSet) Occurrences(name string) []Occurrence {
	if i, ok := m.index[name]; ok {
		return append([]Occurrence(nil), m.subjects[i].evidence...)
	}
	return nil
}

// Has reports whether name is part of the set
func (m *MatchSet) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}
