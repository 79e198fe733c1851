// Package taxonomy holds the validated, immutable set of subjects an analysis looks for.
// Each subject is a display name plus the literal surface forms that count as evidence of it.
// Order is insertion order and drives every report; it never changes a score
package taxonomy

import (
	"sort"
	"strings"

	"jangat/internal/core/normalize"
	"jangat/internal/platform/digest"
	perr "jangat/internal/platform/errors"
)

// All is the selection keyword that stands for every subject
const All = "all"

var (
	// ErrInvalidTaxonomy reports a blank name, an empty synonym set or a duplicate subject
	ErrInvalidTaxonomy = perr.New(perr.ErrorCodeValidation, "invalid taxonomy")

	// ErrUnknownSubject reports a selection naming a subject the taxonomy lacks
	ErrUnknownSubject = perr.New(perr.ErrorCodeNotFound, "unknown subject")
)

// Entry is one subject as supplied by a caller or a file, before validation
type Entry struct {
	Name     string
	Synonyms []string
}

// Subject is a validated subject. Synonyms are normalized, non-empty and unique ignoring case,
// kept in first seen order with the first spelling
type Subject struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

// Taxonomy is an ordered, immutable collection of subjects
type Taxonomy struct {
	subjects []Subject
	index    map[string]int
	fp       uint64
}

var norm = normalize.New()

// Build validates entries and returns a Taxonomy in the same order
func Build(entries []Entry) (*Taxonomy, error) {
	t := &Taxonomy{
		subjects: make([]Subject, 0, len(entries)),
		index:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := oneLine(norm.Normalize(e.Name))
		if name == "" {
			return nil, perr.Wrapf(ErrInvalidTaxonomy, perr.ErrorCodeValidation, "subject #%d has a blank name", i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, perr.Wrapf(ErrInvalidTaxonomy, perr.ErrorCodeValidation, "subject %q is defined twice", name)
		}
		syns := cleanSynonyms(e.Synonyms)
		if len(syns) == 0 {
			return nil, perr.Wrapf(ErrInvalidTaxonomy, perr.ErrorCodeValidation, "subject %q has no synonyms", name)
		}
		t.index[name] = len(t.subjects)
		t.subjects = append(t.subjects, Subject{Name: name, Synonyms: syns})
	}
	t.fp = fingerprint(t.subjects)
	return t, nil
}

// FromMap builds a taxonomy from a map. Maps carry no order, so subjects are sorted by name
func FromMap(m map[string][]string) (*Taxonomy, error) {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, Entry{Name: n, Synonyms: m[n]})
	}
	return Build(entries)
}

func cleanSynonyms(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = oneLine(norm.Normalize(s))
		if s == "" {
			continue
		}
		k := normalize.Key(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// oneLine folds the newlines the normalizer keeps into single spaces
func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }

func fingerprint(subjects []Subject) uint64 {
	parts := make([]string, 0, len(subjects)*4)
	for _, s := range subjects {
		parts = append(parts, s.Name)
		parts = append(parts, s.Synonyms...)
		parts = append(parts, "\x00")
	}
	return digest.Parts(parts...)
}

// Len returns the number of subjects
func (t *Taxonomy) Len() int { return len(t.subjects) }

// Names returns subject names in taxonomy order
func (t *Taxonomy) Names() []string {
	out := make([]string, len(t.subjects))
	for i, s := range t.subjects {
		out[i] = s.Name
	}
	return out
}

// Subjects returns a copy of all subjects in taxonomy order
func (t *Taxonomy) Subjects() []Subject {
	out := make([]Subject, len(t.subjects))
	for i, s := range t.subjects {
		out[i] = Subject{Name: s.Name, Synonyms: append([]string(nil), s.Synonyms...)}
	}
	return out
}

// Subject returns a copy of the named subject
func (t *Taxonomy) Subject(name string) (Subject, bool) {
	i, ok := t.index[name]
	if !ok {
		return Subject{}, false
	}
	s := t.subjects[i]
	return Subject{Name: s.Name, Synonyms: append([]string(nil), s.Synonyms...)}, true
}

// Subset returns a taxonomy restricted to names, in the parent's order.
// No names, or the single name "all", selects everything
func (t *Taxonomy) Subset(names ...string) (*Taxonomy, error) {
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), All)) {
		return t, nil
	}
	keep := make(map[int]struct{}, len(names))
	for _, n := range names {
		n = oneLine(norm.Normalize(n))
		i, ok := t.index[n]
		if !ok {
			return nil, perr.WithField(perr.Wrapf(ErrUnknownSubject, perr.ErrorCodeNotFound, "subject %q", n), "subjects")
		}
		keep[i] = struct{}{}
	}
	sub := &Taxonomy{
		subjects: make([]Subject, 0, len(keep)),
		index:    make(map[string]int, len(keep)),
	}
	for i, s := range t.subjects {
		if _, ok := keep[i]; ok {
			sub.index[s.Name] = len(sub.subjects)
			sub.subjects = append(sub.subjects, s)
		}
	}
	sub.fp = fingerprint(sub.subjects)
	return sub, nil
}

// Fingerprint is a stable hash of names, synonyms and order
func (t *Taxonomy) Fingerprint() string { return digest.Hex(t.fp) }
