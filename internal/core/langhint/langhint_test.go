package langhint

import "testing"

func TestScript(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"123 !!":            "",
		"La santé publique": "Latin",
		"Здравоохранение":   "Cyrillic",
		"Η υγεία είναι σημαντική": "Greek",
	}
	for in, want := range cases {
		if got := Script(in); got != want {
			t.Fatalf("Script(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGuess(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"french", "Le programme propose une réforme de la santé et des investissements dans les écoles pour tous.", "fr"},
		{"english", "The program proposes a reform of the health system and new investment in the schools of the region.", "en"},
		{"german", "Das Programm ist für die Bildung und die Gesundheit, und es wird mit den Schulen umgesetzt.", "de"},
		{"too short", "la santé", ""},
		{"greek by script", "Το πρόγραμμα προτείνει μεταρρύθμιση της υγείας", "el"},
		{"no stopwords", "Xylophone zephyr quixotic jukebox wavelength", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Guess(c.in); got != c.want {
				t.Fatalf("Guess = %q, want %q", got, c.want)
			}
		})
	}
}

func TestStoplist(t *testing.T) {
	fr := Stoplist("FR")
	if _, ok := fr["les"]; !ok {
		t.Fatalf("french stoplist missing 'les'")
	}
	if Stoplist("xx") != nil {
		t.Fatalf("unknown language should yield nil")
	}
	for _, code := range Languages() {
		if len(Stoplist(code)) == 0 {
			t.Fatalf("no stoplist for %q", code)
		}
	}
}
