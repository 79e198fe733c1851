// Package segment splits document text into sentences with a Punkt tokenizer trained per language.
// The sentences it returns are authoritative: downstream code never re-splits them
package segment

import (
	"embed"
	"strings"
	"sync"

	"jangat/internal/core/langhint"
	perr "jangat/internal/platform/errors"

	"github.com/neurosnap/sentences"
	"golang.org/x/text/language"
)

// Auto selects the training language per document from its content
const Auto = "auto"

// DefaultLanguage is used by Auto when the guess is inconclusive
const DefaultLanguage = "fr"

// ErrUnsupportedLanguage reports a language without Punkt training data
var ErrUnsupportedLanguage = perr.New(perr.ErrorCodeInvalidArgument, "unsupported language")

// Sentence is one unit of text. Index is its identity within the document;
// Start and End are byte offsets into the segmented text, -1 when unknown
type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Segmenter splits text into ordered sentences
type Segmenter interface {
	Segment(text string) []Sentence
}

// Func adapts a plain function to Segmenter
type Func func(text string) []string

// Segment implements Segmenter
func (f Func) Segment(text string) []Sentence { return assemble(text, f(text)) }

// Punkt parameters from the sentences project, one file per language
//
//go:embed training/*.json
var training embed.FS

var readTraining = training.ReadFile

// training asset per ISO 639-1 code
var assets = map[string]string{
	"cs": "czech",
	"da": "danish",
	"de": "german",
	"el": "greek",
	"en": "english",
	"es": "spanish",
	"et": "estonian",
	"fi": "finnish",
	"fr": "french",
	"it": "italian",
	"nl": "dutch",
	"no": "norwegian",
	"pl": "polish",
	"pt": "portuguese",
	"sl": "slovene",
	"sv": "swedish",
	"tr": "turkish",
}

// Supported lists the accepted ISO 639-1 codes, sorted
func Supported() []string {
	return []string{"cs", "da", "de", "el", "en", "es", "et", "fi", "fr", "it", "nl", "no", "pl", "pt", "sl", "sv", "tr"}
}

// Resolve maps a BCP 47 tag ("fr", "fr-CA") or a training name ("french") to an ISO 639-1 code
func Resolve(lang string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(lang))
	for code, name := range assets {
		if l == name {
			return code, nil
		}
	}
	tag, err := language.Parse(l)
	if err != nil {
		return "", perr.Wrapf(ErrUnsupportedLanguage, perr.ErrorCodeInvalidArgument, "language %q", lang)
	}
	base, _ := tag.Base()
	code := base.String()
	if code == "nb" || code == "nn" {
		code = "no"
	}
	if _, ok := assets[code]; !ok {
		return "", perr.Wrapf(ErrUnsupportedLanguage, perr.ErrorCodeInvalidArgument, "language %q", lang)
	}
	return code, nil
}

// New returns a Segmenter for lang, or one that guesses per document for Auto
func New(lang string) (Segmenter, error) {
	if strings.EqualFold(strings.TrimSpace(lang), Auto) {
		fallback, err := punkt(DefaultLanguage)
		if err != nil {
			return nil, err
		}
		return &auto{fallback: fallback}, nil
	}
	code, err := Resolve(lang)
	if err != nil {
		return nil, err
	}
	return punkt(code)
}

// Punkt wraps a trained tokenizer for one language
type Punkt struct {
	Lang string
	tok  *sentences.DefaultSentenceTokenizer
}

var (
	loadedMu sync.Mutex
	loaded   = map[string]*Punkt{}
)

// punkt loads training data once per language; tokenizers are read only afterwards
func punkt(code string) (*Punkt, error) {
	loadedMu.Lock()
	defer loadedMu.Unlock()
	if p, ok := loaded[code]; ok {
		return p, nil
	}
	b, err := readTraining("training/" + assets[code] + ".json")
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "training data for %q", code)
	}
	storage, err := sentences.LoadTraining(b)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "load training data for %q", code)
	}
	p := &Punkt{Lang: code, tok: sentences.NewSentenceTokenizer(storage)}
	loaded[code] = p
	return p, nil
}

// Segment implements Segmenter
func (p *Punkt) Segment(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := p.tok.Tokenize(text)
	parts := make([]string, 0, len(raw))
	for _, s := range raw {
		parts = append(parts, s.Text)
	}
	return assemble(text, parts)
}

// auto picks a tokenizer per document; fallback is loaded up front and used
// whenever the guessed language cannot be loaded
type auto struct {
	fallback *Punkt
}

func (a *auto) Segment(text string) []Sentence {
	code := Language(text)
	if code == a.fallback.Lang {
		return a.fallback.Segment(text)
	}
	p, err := punkt(code)
	if err != nil {
		return a.fallback.Segment(text)
	}
	return p.Segment(text)
}

// Language reports the language Auto would pick for text
func Language(text string) string {
	if code := langhint.Guess(text); assets[code] != "" {
		return code
	}
	return DefaultLanguage
}

// assemble trims parts, drops blank ones, numbers them densely and locates each in text
func assemble(text string, parts []string) []Sentence {
	out := make([]Sentence, 0, len(parts))
	cursor := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s := Sentence{Index: len(out), Text: p, Start: -1, End: -1}
		if i := strings.Index(text[cursor:], p); i >= 0 {
			s.Start = cursor + i
			s.End = s.Start + len(p)
			cursor = s.End
		}
		out = append(out, s)
	}
	return out
}
