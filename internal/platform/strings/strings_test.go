package strings

import (
	"reflect"
	"testing"

	kit "jangat/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	if got := IfEmpty([]string{}, []string{"GET"}); !reflect.DeepEqual(got, []string{"GET"}) {
		t.Fatalf("IfEmpty default = %v", got)
	}
	if got := IfEmpty([]int{1}, []int{2}); got[0] != 1 {
		t.Fatalf("IfEmpty kept = %v", got)
	}
}

func TestMustString(t *testing.T) {
	if MustString("analysis", "name") != "analysis" {
		t.Fatalf("MustString changed input")
	}
	kit.MustPanic(t, func() { _ = MustString("  ", "name") })
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"analysis":    "/analysis",
		" /meta/ ":    "/meta",
		"//subjects/": "/subjects",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { _ = MustPrefix(" / ") })
}

func TestEllipsis(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"santé publique", 40, "santé publique"},
		{"santé publique", 6, "santé…"},
		{"éducation", 1, "…"},
		{"éducation", 0, ""},
	}
	for _, c := range cases {
		if got := Ellipsis(c.in, c.n); got != c.want {
			t.Fatalf("Ellipsis(%q,%d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" Santé, ,Énergie ,")
	if !reflect.DeepEqual(got, []string{"Santé", "Énergie"}) {
		t.Fatalf("SplitList = %v", got)
	}
	if SplitList("") != nil {
		t.Fatalf("SplitList(\"\") should be nil")
	}
}
