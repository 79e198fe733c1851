package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "jangat/internal/platform/errors"
)

type analyzeBody struct {
	Label    string   `json:"label"    validate:"notblank,max=40"`
	Text     string   `json:"text"     validate:"required"`
	Subjects []string `json:"subjects" validate:"omitempty,dive,notblank"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/analysis/text", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	in, err := ParseJSON[analyzeBody](post(`{"label":"A","text":"La santé.","subjects":["Santé"]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if in.Label != "A" || in.Subjects[0] != "Santé" {
		t.Fatalf("decoded %+v", in)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{"empty", "   ", perr.ErrorCodeJSON, "", "empty body"},
		{"syntax", `{"label":`, perr.ErrorCodeJSON, "", "invalid JSON"},
		{"unknown field", `{"label":"A","text":"x","extra":1}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"trailing", `{"label":"A","text":"x"} {}`, perr.ErrorCodeJSON, "", "trailing"},
		{"blank label", `{"label":"  ","text":"x"}`, perr.ErrorCodeValidation, "label", "label must not be blank"},
		{"missing text", `{"label":"A"}`, perr.ErrorCodeValidation, "text", "text"},
		{"long label", `{"label":"` + strings.Repeat("x", 41) + `","text":"x"}`, perr.ErrorCodeValidation, "label", "at most 40"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[analyzeBody](post(c.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			e, ok := perr.As(err)
			if !ok || e.Code() != c.code {
				t.Fatalf("code = %v, want %v (%v)", perr.CodeOf(err), c.code, err)
			}
			if e.Field() != c.field {
				t.Fatalf("field = %q, want %q", e.Field(), c.field)
			}
			if !strings.Contains(err.Error(), c.msg) {
				t.Fatalf("message %q does not mention %q", err.Error(), c.msg)
			}
		})
	}
}

func TestParseJSON_TooLarge(t *testing.T) {
	body := `{"label":"A","text":"` + strings.Repeat("a", 64) + `"}`
	_, err := ParseJSON[analyzeBody](post(body), JSONOptions{MaxBytes: 32, DisallowUnknown: true})
	if !perr.IsCode(err, perr.ErrorCodeTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
}
