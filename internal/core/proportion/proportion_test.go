package proportion

import (
	"encoding/json"
	"math/rand"
	"testing"

	"jangat/internal/core/matcher"
	"jangat/internal/core/pattern"
	"jangat/internal/core/segment"
	"jangat/internal/core/taxonomy"
	perr "jangat/internal/platform/errors"
	kit "jangat/internal/platform/testkit"
)

func TestShare(t *testing.T) {
	tb := FromCounts([]string{"A", "B", "C"}, []int{3, 1, 0}, 10, PolicyShare)
	if tb.Status != StatusOK || tb.Denominator != 4 {
		t.Fatalf("status %v denominator %d", tb.Status, tb.Denominator)
	}
	kit.MustNear(t, "A", tb.Rows[0].Score, 0.75)
	kit.MustNear(t, "B", tb.Rows[1].Score, 0.25)
	kit.MustNear(t, "C", tb.Rows[2].Score, 0)
	kit.MustNear(t, "sum", tb.Sum(), 1)
}

func TestShareNoMatches(t *testing.T) {
	tb := FromCounts([]string{"A", "B"}, []int{0, 0}, 5, PolicyShare)
	if tb.Status != StatusNoMatches || !tb.Defined() {
		t.Fatalf("status = %v", tb.Status)
	}
	for _, r := range tb.Rows {
		if !r.Defined || r.Score != 0 {
			t.Fatalf("row %+v should be a defined zero", r)
		}
	}
	kit.MustNear(t, "sum", tb.Sum(), 0)
}

func TestDensity(t *testing.T) {
	tb := FromCounts([]string{"Eau"}, []int{2}, 3, PolicyDensity)
	if tb.Denominator != 3 || tb.Status != StatusOK {
		t.Fatalf("table %+v", tb)
	}
	got, ok := tb.Score("Eau")
	if !ok {
		t.Fatalf("Eau undefined")
	}
	kit.MustNear(t, "density", got, 2.0/3.0)
}

func TestNoSentencesIsNoData(t *testing.T) {
	for _, p := range []Policy{PolicyShare, PolicyDensity} {
		tb := FromCounts([]string{"A"}, []int{0}, 0, p)
		if tb.Status != StatusNoData || tb.Defined() {
			t.Fatalf("%v: status %v", p, tb.Status)
		}
		if _, ok := tb.Score("A"); ok {
			t.Fatalf("%v: score must be undefined", p)
		}
		b, _ := json.Marshal(tb.Rows[0])
		if string(b) != `{"subject":"A","count":0,"score":null}` {
			t.Fatalf("%v: json = %s", p, b)
		}
	}
}

func TestDensityMonotonic(t *testing.T) {
	prev := -1.0
	for c := 0; c <= 20; c++ {
		tb := FromCounts([]string{"A"}, []int{c}, 20, PolicyDensity)
		if tb.Rows[0].Score < prev {
			t.Fatalf("density decreased at count %d", c)
		}
		if tb.Rows[0].Score < 0 || tb.Rows[0].Score > 1 {
			t.Fatalf("density out of range: %v", tb.Rows[0].Score)
		}
		prev = tb.Rows[0].Score
	}
}

func TestShareSumsToOne(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	names := []string{"A", "B", "C", "D", "E"}
	for i := 0; i < 200; i++ {
		counts := make([]int, len(names))
		matched := false
		for j := range counts {
			counts[j] = r.Intn(4)
			matched = matched || counts[j] > 0
		}
		tb := FromCounts(names, counts, 50, PolicyShare)
		want := 0.0
		if matched {
			want = 1
		}
		if d := tb.Sum() - want; d > 1e-9 || d < -1e-9 {
			t.Fatalf("counts %v: sum %v", counts, tb.Sum())
		}
	}
}

func TestCalculateFromMatchSet(t *testing.T) {
	tx, _ := taxonomy.Build([]taxonomy.Entry{
		{Name: "Eau", Synonyms: []string{"eau", "hydrique"}},
		{Name: "Gaz", Synonyms: []string{"gaz"}},
	})
	set, err := pattern.NewCompiler().Set(tx)
	if err != nil {
		t.Fatal(err)
	}
	ms := matcher.Match([]segment.Sentence{
		{Index: 0, Text: "L'accès à l'eau potable reste limité."},
		{Index: 1, Text: "Le stress hydrique augmente."},
		{Index: 2, Text: "Rien sur ce sujet."},
	}, set, matcher.Options{})

	density := Calculate(ms, PolicyDensity)
	if r, _ := density.Row("Eau"); r.Count != 2 {
		t.Fatalf("Eau count = %d", r.Count)
	}
	s, _ := density.Score("Eau")
	kit.MustNear(t, "Eau density", s, 2.0/3.0)

	share := Calculate(ms, PolicyShare)
	s, _ = share.Score("Eau")
	kit.MustNear(t, "Eau share", s, 1)
	if share.Rows[1].Subject != "Gaz" {
		t.Fatalf("rows out of taxonomy order: %+v", share.Rows)
	}
}

func TestDeterministicJSON(t *testing.T) {
	a, _ := json.Marshal(FromCounts([]string{"A", "B"}, []int{1, 2}, 7, PolicyShare))
	b, _ := json.Marshal(FromCounts([]string{"A", "B"}, []int{1, 2}, 7, PolicyShare))
	if string(a) != string(b) {
		t.Fatalf("output differs between runs")
	}
	kit.MustContain(t, string(a), `"policy":"share"`)
	kit.MustContain(t, string(a), `"status":"ok"`)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyShare, "SHARE": PolicyShare, "density": PolicyDensity} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("ratio"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
	var p Policy
	if err := p.UnmarshalText([]byte("density")); err != nil || p != PolicyDensity {
		t.Fatalf("UnmarshalText = %v, %v", p, err)
	}
	if Status(9).String() != "unknown" {
		t.Fatalf("out of range status")
	}
}
