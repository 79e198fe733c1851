// Package engine runs the occurrence pipeline over documents.
//
// One document goes through normalize, segment, match and proportion. Compare repeats that
// independently per document on a bounded worker pool; the only state shared between
// documents is the compiled pattern set, which is read only
package engine

import (
	"time"

	"jangat/internal/core/matcher"
	"jangat/internal/core/normalize"
	"jangat/internal/core/pattern"
	"jangat/internal/core/proportion"
	"jangat/internal/core/segment"
	"jangat/internal/core/taxonomy"
	"jangat/internal/platform/digest"
	perr "jangat/internal/platform/errors"
	"jangat/internal/platform/logger"
)

// Document is acquisition output. Err carries an upstream failure; Text is then ignored
type Document struct {
	Label string
	Text  string
	Err   error
}

// Result is the analysis of one document
type Result struct {
	Label string `json:"label"`
	// Fingerprint hashes the normalized text, so equal content is recognizable across runs
	Fingerprint string            `json:"fingerprint"`
	Language    string            `json:"language"`
	Sentences   int               `json:"sentences"`
	Table       proportion.Table  `json:"table"`
	Matches     *matcher.MatchSet `json:"-"`
	Elapsed     time.Duration     `json:"-"`
}

// Evidence is the quoted support for one subject
type Evidence struct {
	Subject     string               `json:"subject"`
	Count       int                  `json:"count"`
	Occurrences []matcher.Occurrence `json:"occurrences"`
}

// Evidence lists kept occurrences per subject in taxonomy order, skipping subjects without any
func (r *Result) Evidence() []Evidence {
	var out []Evidence
	for _, n := range r.Matches.Names() {
		if c := r.Matches.Count(n); c > 0 {
			out = append(out, Evidence{Subject: n, Count: c, Occurrences: r.Matches.Occurrences(n)})
		}
	}
	return out
}

// Option customizes an Engine
type Option func(*Engine)

// WithSegmenter replaces the Punkt segmenter chosen from Config.Language
func WithSegmenter(s segment.Segmenter) Option { return func(e *Engine) { e.seg = s } }

// WithCompiler compiles through c instead of the process wide compiler
func WithCompiler(c *pattern.Compiler) Option { return func(e *Engine) { e.compiler = c } }

// WithLogger sets the engine logger
func WithLogger(l *logger.Logger) Option { return func(e *Engine) { e.log = l } }

// Engine is immutable after New and safe for concurrent use
type Engine struct {
	cfg      Config
	tax      *taxonomy.Taxonomy
	set      *pattern.Set
	seg      segment.Segmenter
	compiler *pattern.Compiler
	norm     *normalize.Normalizer
	log      *logger.Logger
}

// New compiles tax and prepares the segmenter
func New(tax *taxonomy.Taxonomy, cfg Config, opts ...Option) (*Engine, error) {
	if tax == nil || tax.Len() == 0 {
		return nil, perr.Wrap(taxonomy.ErrInvalidTaxonomy, perr.ErrorCodeValidation, "no subjects to analyze")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Language == "" {
		cfg.Language = segment.DefaultLanguage
	}

	e := &Engine{cfg: cfg, tax: tax, norm: normalize.New()}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = logger.Named("engine")
	}

	var err error
	if e.compiler != nil {
		e.set, err = e.compiler.Set(tax)
	} else {
		e.set, err = pattern.CompileSet(tax)
	}
	if err != nil {
		return nil, err
	}
	if e.seg == nil {
		if e.seg, err = segment.New(cfg.Language); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Config returns the configuration the engine runs with
func (e *Engine) Config() Config { return e.cfg }

// Taxonomy returns the analyzed taxonomy
func (e *Engine) Taxonomy() *taxonomy.Taxonomy { return e.tax }

// With returns an engine sharing compiled patterns and segmenter but analyzing sub,
// a subset of the engine's taxonomy, under cfg
func (e *Engine) With(sub *taxonomy.Taxonomy, cfg Config) (*Engine, error) {
	opts := []Option{WithLogger(e.log)}
	if e.compiler != nil {
		opts = append(opts, WithCompiler(e.compiler))
	}
	if cfg.Language == "" || cfg.Language == e.cfg.Language {
		cfg.Language = e.cfg.Language
		opts = append(opts, WithSegmenter(e.seg))
	}
	return New(sub, cfg, opts...)
}

// Analyze runs the pipeline on one document. Blank text is not an error: the result
// carries a no data table. An upstream failure in doc.Err is returned wrapped
func (e *Engine) Analyze(doc Document) (*Result, error) {
	if doc.Err != nil {
		code := perr.CodeOf(doc.Err)
		if code == perr.ErrorCodeUnknown {
			code = perr.ErrorCodeUnavailable
		}
		return nil, perr.Wrapf(doc.Err, code, "document %q", doc.Label)
	}

	start := time.Now()
	text := normalize.Dehyphenate(e.norm.Normalize(doc.Text))
	sentences := e.seg.Segment(text)
	ms := matcher.Match(sentences, e.set, matcher.Options{Dedup: e.cfg.Dedup, MaxEvidence: e.cfg.MaxEvidence})

	lang := e.cfg.Language
	if lang == segment.Auto {
		lang = segment.Language(text)
	}
	res := &Result{
		Label:       doc.Label,
		Fingerprint: digest.Hex(digest.Sum64([]byte(text))),
		Language:    lang,
		Sentences:   len(sentences),
		Table:       proportion.Calculate(ms, e.cfg.Policy),
		Matches:     ms,
		Elapsed:     time.Since(start),
	}
	e.log.Debug().
		Str("label", doc.Label).
		Int("sentences", res.Sentences).
		Str("status", res.Table.Status.String()).
		Dur("elapsed", res.Elapsed).
		Msg("document analyzed")
	return res, nil
}
