package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "jangat/internal/platform/net/http"
	kit "jangat/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func fetchDoc(t *testing.T) (int, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec.Code, spec
}

func TestDocJSONDecorated(t *testing.T) {
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")
	var seen bool
	kit.Swap(t, &mutators, nil)
	Register(func(map[string]any) { seen = true })

	code, spec := fetchDoc(t)
	if code != http.StatusOK || !seen {
		t.Fatalf("code %d mutator %v", code, seen)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if title := spec["info"].(map[string]any)["title"]; title != "jangat API (staging)" {
		t.Fatalf("title = %v", title)
	}
	op := spec["paths"].(map[string]any)["/analysis/text"].(map[string]any)["post"].(map[string]any)
	responses := op["responses"].(map[string]any)
	for _, s := range []string{"200", "400", "401", "404", "500"} {
		if _, ok := responses[s]; !ok {
			t.Fatalf("missing %s response", s)
		}
	}
}

func TestDocJSONBroken(t *testing.T) {
	kit.Swap(t, &docReader, func() []byte { return []byte("{") })

	if code, _ := fetchDoc(t); code != http.StatusInternalServerError {
		t.Fatalf("code %d", code)
	}
}

func TestMountDisabled(t *testing.T) {
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), false)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code %d", rec.Code)
	}
}
