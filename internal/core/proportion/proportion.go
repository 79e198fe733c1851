// Package proportion turns per subject counts into comparable scores in [0, 1].
//
// Share divides by the sum of counts over the requested subjects and compares subjects
// within one document. Density divides by the document's sentence count and compares one
// subject across documents of different length. Empty denominators are explicit outcomes:
// a document without sentences has no data, a document without matches scores zero
package proportion

import (
	"encoding/json"
	"strings"

	"jangat/internal/core/matcher"
	perr "jangat/internal/platform/errors"
)

// Policy selects the denominator
type Policy int

const (
	// PolicyShare is count / sum of counts
	PolicyShare Policy = iota
	// PolicyDensity is count / sentences
	PolicyDensity
)

func (p Policy) String() string {
	if p == PolicyDensity {
		return "density"
	}
	return "share"
}

// ParsePolicy accepts "share" and "density"; blank means share
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "share":
		return PolicyShare, nil
	case "density":
		return PolicyDensity, nil
	}
	return 0, perr.WithField(perr.InvalidArgf("unknown policy %q", s), "policy")
}

// MarshalText implements encoding.TextMarshaler
func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Status tells a real zero apart from a missing result
type Status int

const (
	// StatusOK means at least one subject matched
	StatusOK Status = iota
	// StatusNoMatches means the document had sentences but no subject matched; scores are 0
	StatusNoMatches
	// StatusNoData means there was nothing to measure; scores are undefined
	StatusNoData
)

var statusNames = [...]string{"ok", "no_matches", "no_data"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Row is one subject's score and the count it came from
type Row struct {
	Subject string
	Count   int
	Score   float64
	// Defined is false when the document had no data; Score is then meaningless
	Defined bool
}

// MarshalJSON renders an undefined score as null
func (r Row) MarshalJSON() ([]byte, error) {
	var score *float64
	if r.Defined {
		score = &r.Score
	}
	return json.Marshal(struct {
		Subject string   `json:"subject"`
		Count   int      `json:"count"`
		Score   *float64 `json:"score"`
	}{r.Subject, r.Count, score})
}

// Table holds one document's scores in taxonomy order
type Table struct {
	Policy      Policy `json:"policy"`
	Denominator int    `json:"denominator"`
	Status      Status `json:"status"`
	Rows        []Row  `json:"rows"`
}

// Calculate scores every subject of ms under policy
func Calculate(ms *matcher.MatchSet, policy Policy) Table {
	names := ms.Names()
	counts := make([]int, len(names))
	for i, n := range names {
		counts[i] = ms.Count(n)
	}
	return FromCounts(names, counts, ms.TotalSentences(), policy)
}

// FromCounts scores counts[i] for names[i] given the document's sentence count
func FromCounts(names []string, counts []int, sentences int, policy Policy) Table {
	t := Table{Policy: policy, Rows: make([]Row, len(names))}
	total := 0
	for i, n := range names {
		t.Rows[i] = Row{Subject: n, Count: counts[i]}
		total += counts[i]
	}

	switch {
	case sentences <= 0:
		t.Status = StatusNoData
		return t
	case total == 0:
		t.Status = StatusNoMatches
	default:
		t.Status = StatusOK
	}

	t.Denominator = sentences
	if policy == PolicyShare {
		t.Denominator = total
	}
	for i := range t.Rows {
		t.Rows[i].Defined = true
		if t.Denominator > 0 {
			t.Rows[i].Score = float64(t.Rows[i].Count) / float64(t.Denominator)
		}
	}
	return t
}

// Row returns the named row
func (t Table) Row(name string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Subject == name {
			return r, true
		}
	}
	return Row{}, false
}

// Score returns the named score; false when absent or undefined
func (t Table) Score(name string) (float64, bool) {
	r, ok := t.Row(name)
	if !ok || !r.Defined {
		return 0, false
	}
	return r.Score, true
}

// Sum adds all defined scores. Under share it is 1 when anything matched and 0 otherwise
func (t Table) Sum() float64 {
	var s float64
	for _, r := range t.Rows {
		if r.Defined {
			s += r.Score
		}
	}
	return s
}

// Defined reports whether the table carries scores at all
func (t Table) Defined() bool { return t.Status != StatusNoData }
