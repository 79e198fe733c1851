package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"jangat/internal/core/matcher"
	"jangat/internal/core/proportion"
	"jangat/internal/core/segment"
	"jangat/internal/core/taxonomy"
	"jangat/internal/platform/config"
	perr "jangat/internal/platform/errors"
	kit "jangat/internal/platform/testkit"
)

// bySentence splits after every period, enough for hand written fixtures
var bySentence = segment.Func(func(s string) []string { return strings.SplitAfter(s, ".") })

func newEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	tx, err := taxonomy.Build([]taxonomy.Entry{
		{Name: "Eau", Synonyms: []string{"eau", "hydrique"}},
		{Name: "Santé", Synonyms: []string{"santé", "médical"}},
		{Name: "Justice", Synonyms: []string{"justice"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(tx, cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestAnalyzeWithPunkt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = proportion.PolicyDensity
	e := newEngine(t, cfg)

	res, err := e.Analyze(Document{
		Label: "programme",
		Text:  "L'accès à l'eau potable reste limité. Le stress hydrique augmente. Rien sur ce sujet.",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Sentences != 3 || res.Language != "fr" {
		t.Fatalf("sentences %d language %q", res.Sentences, res.Language)
	}
	if got := res.Matches.Indices("Eau"); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("Eau indices %v", got)
	}
	s, ok := res.Table.Score("Eau")
	if !ok {
		t.Fatalf("Eau undefined")
	}
	kit.MustNear(t, "Eau density", s, 2.0/3.0)

	ev := res.Evidence()
	if len(ev) != 1 || ev[0].Subject != "Eau" || len(ev[0].Occurrences) != 2 {
		t.Fatalf("evidence %+v", ev)
	}
}

func TestAnalyzeNormalizesBeforeMatching(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	res, err := e.Analyze(Document{Label: "pdf", Text: "La sante\u0301 d'abord. Le système médi-\ncal tient."})
	if err != nil {
		t.Fatal(err)
	}
	if res.Matches.Count("Santé") != 2 {
		t.Fatalf("decomposed accent or hyphenated break missed: %d", res.Matches.Count("Santé"))
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	doc := Document{Label: "a", Text: "La justice. La santé. L'eau et la santé. Rien."}
	r1, _ := e.Analyze(doc)
	r2, _ := e.Analyze(doc)
	b1, _ := json.Marshal(r1.Table)
	b2, _ := json.Marshal(r2.Table)
	if string(b1) != string(b2) || r1.Fingerprint != r2.Fingerprint {
		t.Fatalf("runs differ:\n%s\n%s", b1, b2)
	}
}

func TestAnalyzeBlankIsNoData(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	res, err := e.Analyze(Document{Label: "vide", Text: "  \n "})
	if err != nil {
		t.Fatalf("blank text should not error: %v", err)
	}
	if res.Table.Status != proportion.StatusNoData {
		t.Fatalf("status = %v", res.Table.Status)
	}
}

func TestAnalyzeUpstreamError(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	cause := errors.New("connection reset")
	_, err := e.Analyze(Document{Label: "site", Err: cause})
	if !errors.Is(err, cause) || !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("got %v (%v)", err, perr.CodeOf(err))
	}
	kit.MustContain(t, err.Error(), `"site"`)

	_, err = e.Analyze(Document{Label: "big", Err: perr.New(perr.ErrorCodeTooLarge, "too big")})
	if !perr.IsCode(err, perr.ErrorCodeTooLarge) {
		t.Fatalf("coded upstream errors keep their code, got %v", perr.CodeOf(err))
	}
}

func TestCompareEmptyAgainstMatching(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = proportion.PolicyDensity
	e := newEngine(t, cfg, WithSegmenter(bySentence))

	full := strings.Repeat("L'eau manque. ", 5)
	cmp, err := e.Compare(context.Background(), []Document{
		{Label: "vide", Text: ""},
		{Label: "plein", Text: full},
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.RunID == "" || cmp.Taxonomy != e.Taxonomy().Fingerprint() {
		t.Fatalf("run metadata missing: %+v", cmp)
	}

	empty := cmp.Outcomes[0]
	if !empty.Failed || !errors.Is(empty.Err, ErrEmptyDocument) {
		t.Fatalf("empty document should be a recorded failure: %+v", empty)
	}
	for _, c := range cmp.Subject("Eau") {
		switch c.Label {
		case "vide":
			if c.Score != nil || c.Status != proportion.StatusNoData {
				t.Fatalf("empty document must read as no data, got %+v", c)
			}
		case "plein":
			if c.Score == nil || *c.Score != 1 || c.Count != 5 {
				t.Fatalf("full document cell %+v", c)
			}
		}
	}
	b, _ := json.Marshal(cmp.Cells()[0])
	kit.MustContain(t, string(b), `"score":null`)
	kit.MustContain(t, string(b), `"status":"no_data"`)
}

func TestCompareKeepsGoingAfterFailures(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	cmp, err := e.Compare(context.Background(), []Document{
		{Label: "a", Text: "La justice."},
		{Label: "b", Err: errors.New("404")},
		{Label: "c", Text: "La santé."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if f := cmp.Failures(); len(f) != 1 || f[0].Label != "b" || f[0].Result != nil {
		t.Fatalf("failures %+v", f)
	}
	cells := cmp.Cells()
	if len(cells) != 9 {
		t.Fatalf("cells %d", len(cells))
	}
	if cells[0].Label != "a" || cells[3].Label != "b" || cells[6].Label != "c" {
		t.Fatalf("cells out of input order")
	}
	if cells[3].Score != nil {
		t.Fatalf("failed document must not be zero filled")
	}
	if s := cells[2]; s.Subject != "Justice" || s.Score == nil || *s.Score != 1 {
		t.Fatalf("a/Justice = %+v", s)
	}
}

func TestCompareOrderInvariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = proportion.PolicyDensity
	cfg.Workers = 3
	e := newEngine(t, cfg, WithSegmenter(bySentence))

	docs := make([]Document, 12)
	for i := range docs {
		docs[i] = Document{Label: fmt.Sprintf("doc-%02d", i), Text: strings.Repeat("L'eau. Rien. ", i+1)}
	}
	forward, _ := e.Compare(context.Background(), docs)

	reversed := make([]Document, len(docs))
	for i, d := range docs {
		reversed[len(docs)-1-i] = d
	}
	backward, _ := e.Compare(context.Background(), reversed)

	for i, o := range forward.Outcomes {
		if o.Label != docs[i].Label {
			t.Fatalf("outcome %d is %q", i, o.Label)
		}
		other := backward.Outcomes[len(docs)-1-i]
		a, _ := o.Result.Table.Score("Eau")
		b, _ := other.Result.Table.Score("Eau")
		if a != b {
			t.Fatalf("%s scored %v then %v", o.Label, a, b)
		}
		kit.MustNear(t, o.Label, a, 0.5)
	}
}

func TestCompareRejectsLabels(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	_, err := e.Compare(context.Background(), []Document{{Label: "x", Text: "a"}, {Label: " x ", Text: "b"}})
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("want ErrDuplicateLabel, got %v", err)
	}
	_, err = e.Compare(context.Background(), []Document{{Label: " ", Text: "a"}})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("blank label: %v", err)
	}
}

func TestCompareCanceledStopsLaunching(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmp, err := e.Compare(ctx, []Document{{Label: "a", Text: "La justice."}, {Label: "b", Text: "La santé."}})
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range cmp.Outcomes {
		if !o.Failed || !errors.Is(o.Err, context.Canceled) || !perr.IsCode(o.Err, perr.ErrorCodeCanceled) {
			t.Fatalf("outcome %+v", o)
		}
	}
}

func TestNewValidates(t *testing.T) {
	empty, _ := taxonomy.Build(nil)
	if _, err := New(empty, DefaultConfig()); !errors.Is(err, taxonomy.ErrInvalidTaxonomy) {
		t.Fatalf("empty taxonomy: %v", err)
	}
	tx, _ := taxonomy.Default()
	cfg := DefaultConfig()
	cfg.MaxEvidence = -1
	if _, err := New(tx, cfg); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("negative max evidence: %v", err)
	}
	cfg = DefaultConfig()
	cfg.Language = "ja"
	if _, err := New(tx, cfg); !errors.Is(err, segment.ErrUnsupportedLanguage) {
		t.Fatalf("unsupported language: %v", err)
	}
}

func TestWithSubset(t *testing.T) {
	e := newEngine(t, DefaultConfig(), WithSegmenter(bySentence))
	sub, err := e.Taxonomy().Subset("Justice")
	if err != nil {
		t.Fatal(err)
	}
	cfg := e.Config()
	cfg.Dedup = matcher.DedupByText
	se, err := e.With(sub, cfg)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	res, _ := se.Analyze(Document{Label: "a", Text: "La justice. La justice. La santé."})
	if res.Matches.Count("Justice") != 1 || res.Matches.Has("Santé") {
		t.Fatalf("subset engine counted %v", res.Matches.Names())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TE_POLICY", "density")
	t.Setenv("TE_DEDUP", "TEXT")
	t.Setenv("TE_WORKERS", "3")
	t.Setenv("TE_LANG", "auto")
	t.Setenv("TE_MAX_EVIDENCE", "5")
	cfg := LoadConfig(config.New().Prefix("TE_"))
	if cfg.Policy != proportion.PolicyDensity || cfg.Dedup != matcher.DedupByText ||
		cfg.Workers != 3 || cfg.Language != "auto" || cfg.MaxEvidence != 5 || cfg.TaxonomyFile != "" {
		t.Fatalf("cfg = %+v", cfg)
	}

	def := LoadConfig(config.New().Prefix("TE_ABSENT_"))
	if def != DefaultConfig() {
		t.Fatalf("defaults = %+v", def)
	}

	t.Setenv("TE_BAD_POLICY", "ratio")
	kit.MustPanic(t, func() { LoadConfig(config.New().Prefix("TE_BAD_")) })
}

func TestLoadTaxonomy(t *testing.T) {
	tx, err := LoadTaxonomy("")
	if err != nil || tx.Len() != 24 {
		t.Fatalf("default taxonomy: %v", err)
	}
	if _, err := LoadTaxonomy("/nonexistent/t.yaml"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file: %v", err)
	}
}
