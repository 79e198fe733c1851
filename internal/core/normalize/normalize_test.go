package normalize

import "testing"

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity", "La santé publique", "La santé publique"},
		{"case preserved", "ÉNERGIE Fossile", "ÉNERGIE Fossile"},
		{"decomposed accent composes", "sante\u0301", "sant\u00e9"},
		{"ligature", "\ufb01nances", "finances"},
		{"soft hyphen and zero width removed", "\u00e9du\u00adca\u200btion", "\u00e9ducation"},
		{"fullwidth folds", "\uff30\uff29\uff22", "PIB"},
		{"nbsp becomes space", "gaz\u00a0naturel", "gaz naturel"},
		{"controls and invalid bytes dropped", "a\x00b\x7f" + string([]byte{0xff}) + "c", "abc"},
		{"horizontal runs collapse", "gaz \t  naturel", "gaz naturel"},
		{"line break runs keep one newline", "Fin.\r\n\r\n  Début.", "Fin.\nDébut."},
		{"edges trimmed", "\n  emploi  \t", "emploi"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New()
	in := "  \uff25\uff23\uff2f\uff2e\uff2f\uff2d\uff29\uff25\u200d et  sante\u0301\n\n publique "
	once := n.Normalize(in)
	if twice := n.Normalize(once); twice != once {
		t.Fatalf("not idempotent: %q then %q", once, twice)
	}
}

func TestKey(t *testing.T) {
	if Key("Santé Publique") != Key("SANTÉ PUBLIQUE") {
		t.Fatalf("Key should fold case")
	}
	if Key("santé") == Key("sante") {
		t.Fatalf("Key must keep accents")
	}
}

func TestSanitize_CleanInputUnchanged(t *testing.T) {
	s := "Économie\tet\nfinances"
	if got := Sanitize(s); got != s {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
	if got := Sanitize("a\u0085b"); got != "ab" {
		t.Fatalf("C1 control kept: %q", got)
	}
}

func TestDehyphenate(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"l'éduca-\ntion nationale", "l'éducation nationale"},
		{"l'éduca-\r\n  tion", "l'éducation"},
		{"Franco-\nAllemand", "Franco-\nAllemand"},
		{"sous-marin", "sous-marin"},
		{"fin -\nla suite", "fin -\nla suite"},
	}
	for _, c := range cases {
		if got := Dehyphenate(c.in); got != c.out {
			t.Fatalf("Dehyphenate(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}
