package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	perr "jangat/internal/platform/errors"
	kit "jangat/internal/platform/testkit"
)

const (
	healthPara = "Le gouvernement a présenté son programme pour la santé et pour l'éducation de tous les enfants. " +
		"Les écoles de la région seront rénovées dans les prochaines années, et les hôpitaux recevront des moyens " +
		"supplémentaires pour accueillir les patients dans de bonnes conditions."
	waterPara = "L'accès à l'eau potable reste limité dans les villages, et le stress hydrique augmente chaque année. " +
		"Nous proposons un plan national pour la gestion de l'eau, avec des investissements dans les réseaux et " +
		"une meilleure protection des nappes pour les générations futures."
)

var articleHTML = `<html><head><title>Programme</title><style>p { color: red }</style></head><body>
<nav><ul><li><a href="/">Accueil</a></li><li><a href="/contact">Contact</a></li></ul></nav>
<h1>Programme</h1>
<p>` + healthPara + `</p>
<p>` + waterPara + `</p>
<div class="footer">© 2026 Parti, tous droits réservés</div>
<script>var theme = "justice";</script>
</body></html>`

type site struct {
	srv      *httptest.Server
	articles atomic.Int32
	robots   atomic.Int32
}

func newSite(t *testing.T) *site {
	t.Helper()
	s := &site{}
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		s.robots.Add(1)
		fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, _ *http.Request) {
		s.articles.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	})
	mux.HandleFunc("/latin", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		body := "<html><body><p>" + strings.ReplaceAll(healthPara, "é", "\xe9") + "</p></body></html>"
		body = strings.ReplaceAll(body, "ô", "\xf4")
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "La santé publique.")
	})
	mux.HandleFunc("/doc.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(buildPDF("Acces a l eau potable.", "Le stress hydrique augmente."))
	})
	mux.HandleFunc("/private/page", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "secret") })
	mux.HandleFunc("/big", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, strings.Repeat("a", 5000))
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	mux.HandleFunc("/busy", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) })
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func testConfig() Config {
	return Config{
		Timeout:  5 * time.Second,
		MaxBytes: 4096,
		Rate:     1000,
		Burst:    100,
		CacheTTL: time.Minute,
		Robots:   true,
		Language: "fr",
	}
}

func TestWebArticleDropsBoilerplate(t *testing.T) {
	s := newSite(t)
	a := New(testConfig())

	doc, err := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + "/article"})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if want := healthPara + "\n" + waterPara; doc.Text != want {
		t.Fatalf("text =\n%s\nwant\n%s", doc.Text, want)
	}
	if !strings.HasSuffix(doc.Label, "/article") || doc.Bytes == 0 || doc.FetchedAt.IsZero() {
		t.Fatalf("provenance %+v", doc)
	}
}

func TestWebCachesAndReadsRobotsOnce(t *testing.T) {
	s := newSite(t)
	a := New(testConfig())
	src := Source{Kind: KindWeb, Location: s.srv.URL + "/article"}
	for i := 0; i < 3; i++ {
		if _, err := a.Acquire(context.Background(), src); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + "/plain"}); err != nil {
		t.Fatal(err)
	}
	if n := s.articles.Load(); n != 1 {
		t.Fatalf("article fetched %d times", n)
	}
	if n := s.robots.Load(); n != 1 {
		t.Fatalf("robots.txt fetched %d times", n)
	}
	if a.cache.Len() != 2 {
		t.Fatalf("cache holds %d", a.cache.Len())
	}

	relabeled, _ := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: src.Location, Label: "PS"})
	if relabeled.Label != "PS" {
		t.Fatalf("cached document kept old label %q", relabeled.Label)
	}
}

func TestWebContentTypes(t *testing.T) {
	s := newSite(t)
	a := New(testConfig())

	plain, err := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + "/plain"})
	if err != nil || plain.Text != "La santé publique." {
		t.Fatalf("plain = %+v, %v", plain, err)
	}

	latin, err := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + "/latin"})
	if err != nil {
		t.Fatalf("latin: %v", err)
	}
	kit.MustContain(t, latin.Text, "la santé et pour l'éducation")

	pdfDoc, err := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + "/doc.pdf"})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if pdfDoc.Pages != 2 {
		t.Fatalf("pages = %d", pdfDoc.Pages)
	}
	kit.MustContain(t, pdfDoc.Text, "hydrique")
}

func TestWebFailures(t *testing.T) {
	s := newSite(t)
	a := New(testConfig())
	cases := []struct {
		path string
		code perr.ErrorCode
	}{
		{"/private/page", perr.ErrorCodeForbidden},
		{"/missing", perr.ErrorCodeNotFound},
		{"/big", perr.ErrorCodeTooLarge},
		{"/image", perr.ErrorCodeInvalidArgument},
		{"/busy", perr.ErrorCodeUnavailable},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			_, err := a.Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + c.path})
			var ae *AcquisitionError
			if !errors.As(err, &ae) {
				t.Fatalf("want *AcquisitionError, got %T %v", err, err)
			}
			if ae.Source.Location != s.srv.URL+c.path {
				t.Fatalf("error attributed to %v", ae.Source)
			}
			if got := perr.CodeOf(err); got != c.code {
				t.Fatalf("code = %v, want %v (%v)", got, c.code, err)
			}
		})
	}
}

func TestRobotsCanBeDisabled(t *testing.T) {
	s := newSite(t)
	cfg := testConfig()
	cfg.Robots = false
	doc, err := New(cfg).Acquire(context.Background(), Source{Kind: KindWeb, Location: s.srv.URL + "/private/page"})
	if err != nil {
		t.Fatalf("robots off: %v", err)
	}
	if doc.Text != "secret" || s.robots.Load() != 0 {
		t.Fatalf("doc %q robots hits %d", doc.Text, s.robots.Load())
	}
}

func TestWebRejectsBadURL(t *testing.T) {
	_, err := New(testConfig()).Acquire(context.Background(), Source{Kind: KindWeb, Location: "ftp://example.org/x"})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("got %v", err)
	}
}

func TestHostLimiterHonoursContext(t *testing.T) {
	l := newHostLimiter(0.001, 1)
	if err := l.wait(context.Background(), "h", 0); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.wait(ctx, "h", 0); err == nil {
		t.Fatalf("second wait should give up with the context")
	}
	if err := l.wait(context.Background(), "other", 0); err != nil {
		t.Fatalf("hosts are limited separately: %v", err)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	a := New(testConfig())

	txt := writeFile(t, dir, "programme.txt", "La justice pour tous.")
	doc, err := a.Acquire(context.Background(), Infer(txt))
	if err != nil || doc.Text != "La justice pour tous." || doc.Label != "programme" {
		t.Fatalf("text file = %+v, %v", doc, err)
	}

	pdfPath := writeFile(t, dir, "manifeste.pdf", string(buildPDF("La justice sociale.")))
	doc, err = a.Acquire(context.Background(), Infer(pdfPath))
	if err != nil {
		t.Fatalf("pdf file: %v", err)
	}
	if doc.Pages != 1 || doc.Label != "manifeste" {
		t.Fatalf("pdf doc %+v", doc)
	}
	kit.MustContain(t, doc.Text, "justice")

	broken := writeFile(t, dir, "broken.pdf", "%PDF-1.4 garbage")
	if _, err := a.Acquire(context.Background(), Infer(broken)); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("broken pdf: %v", err)
	}

	if _, err := a.Acquire(context.Background(), Infer(filepath.Join(dir, "absent.txt"))); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file: %v", err)
	}

	big := writeFile(t, dir, "big.txt", strings.Repeat("x", 5000))
	if _, err := a.Acquire(context.Background(), Infer(big)); !perr.IsCode(err, perr.ErrorCodeTooLarge) {
		t.Fatalf("big file: %v", err)
	}
}

func TestUnsupportedSources(t *testing.T) {
	a := New(testConfig())
	_, err := a.Acquire(context.Background(), Source{Kind: KindTranscript, Location: "https://video.example/v=1"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("transcript: %v", err)
	}
	_, err = a.Acquire(context.Background(), Source{Kind: KindText, Location: "  "})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("blank location: %v", err)
	}
}

func TestDocumentsKeepOrderAndRecordFailures(t *testing.T) {
	dir := t.TempDir()
	a := New(testConfig())
	srcs := []Source{
		Infer(writeFile(t, dir, "a/programme.txt", "La santé.")),
		Infer(filepath.Join(dir, "absent.txt")),
		Infer(writeFile(t, dir, "b/programme.txt", "L'eau.")),
	}
	docs := a.Documents(context.Background(), srcs, 2)
	if len(docs) != 3 {
		t.Fatalf("got %d documents", len(docs))
	}
	if docs[0].Label != "programme" || docs[0].Text != "La santé." || docs[0].Err != nil {
		t.Fatalf("doc 0 = %+v", docs[0])
	}
	var ae *AcquisitionError
	if docs[1].Label != "absent" || !errors.As(docs[1].Err, &ae) {
		t.Fatalf("doc 1 = %+v", docs[1])
	}
	if docs[2].Label != "programme (2)" || docs[2].Text != "L'eau." {
		t.Fatalf("doc 2 = %+v", docs[2])
	}
}

func TestDocumentsSuffixesNeverCollide(t *testing.T) {
	dir := t.TempDir()
	a := New(testConfig())
	srcs := []Source{
		{Kind: KindText, Location: writeFile(t, dir, "1.txt", "un"), Label: "x"},
		{Kind: KindText, Location: writeFile(t, dir, "2.txt", "deux"), Label: "x"},
		{Kind: KindText, Location: writeFile(t, dir, "3.txt", "trois"), Label: "x (2)"},
		{Kind: KindText, Location: writeFile(t, dir, "4.txt", "quatre"), Label: "x"},
	}
	docs := a.Documents(context.Background(), srcs, 2)
	want := []string{"x", "x (3)", "x (2)", "x (4)"}
	seen := map[string]bool{}
	for i, d := range docs {
		if d.Label != want[i] {
			t.Fatalf("label %d = %q, want %q", i, d.Label, want[i])
		}
		if seen[d.Label] {
			t.Fatalf("label %q repeated", d.Label)
		}
		seen[d.Label] = true
	}
}

func TestWebRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if hits.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "La santé publique.")
		case "/limited":
			hits.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		case "/missing":
			hits.Add(1)
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.Robots = false
	cfg.Retries = 2
	cfg.Backoff = time.Millisecond

	cases := []struct {
		path string
		code perr.ErrorCode
		hits int32
	}{
		{"/flaky", perr.ErrorCodeUnknown, 3},
		{"/limited", perr.ErrorCodeTooManyRequests, 3},
		{"/missing", perr.ErrorCodeNotFound, 1},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			hits.Store(0)
			doc, err := New(cfg).Acquire(context.Background(), Source{Kind: KindWeb, Location: srv.URL + c.path})
			if c.code == perr.ErrorCodeUnknown {
				if err != nil || doc.Text != "La santé publique." {
					t.Fatalf("doc %+v err %v", doc, err)
				}
			} else if got := perr.CodeOf(err); got != c.code {
				t.Fatalf("code = %v, want %v (%v)", got, c.code, err)
			}
			if hits.Load() != c.hits {
				t.Fatalf("server hit %d times, want %d", hits.Load(), c.hits)
			}
		})
	}
}

func TestWebRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.Robots = false
	cfg.Retries = 5
	cfg.Backoff = time.Hour
	_, err := New(cfg).Acquire(ctx, Source{Kind: KindWeb, Location: srv.URL + "/x"})
	if !perr.IsCode(err, perr.ErrorCodeCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestInferAndLabels(t *testing.T) {
	cases := []struct {
		in    string
		kind  Kind
		label string
	}{
		{"https://parti.example/programme/", KindWeb, "parti.example/programme"},
		{"HTTP://parti.example", KindWeb, "parti.example"},
		{"/tmp/Manifeste 2026.PDF", KindPDF, "Manifeste 2026"},
		{"notes.md", KindText, "notes"},
	}
	for _, c := range cases {
		s := Infer(c.in)
		if s.Kind != c.kind || s.DisplayLabel() != c.label {
			t.Fatalf("Infer(%q) = %v label %q", c.in, s.Kind, s.DisplayLabel())
		}
	}
	if _, err := ParseKind("video"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("ParseKind should reject video")
	}
	if k, _ := ParseKind(" PDF "); k != KindPDF {
		t.Fatalf("ParseKind = %q", k)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TA_TIMEOUT", "3s")
	t.Setenv("TA_MAX_BYTES", "1024")
	t.Setenv("TA_ROBOTS", "false")
	t.Setenv("TA_RATE", "2.5")
	t.Setenv("TA_RETRIES", "4")
	cfg := LoadConfig(configFor("TA_"))
	if cfg.Timeout != 3*time.Second || cfg.MaxBytes != 1024 || cfg.Robots || cfg.Rate != 2.5 || cfg.Retries != 4 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.UserAgent != DefaultConfig().UserAgent || cfg.Backoff != DefaultConfig().Backoff {
		t.Fatalf("user agent default lost")
	}
}
