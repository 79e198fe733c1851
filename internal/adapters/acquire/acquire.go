// Package acquire turns sources (web pages, PDF files, plain text files) into document text.
// Failures are reported per source as *AcquisitionError so that a comparison can record
// them and carry on with the other documents
package acquire

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"jangat/internal/core/engine"
	perr "jangat/internal/platform/errors"
	"jangat/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Kind is the type of a source
type Kind string

const (
	KindWeb        Kind = "web"
	KindPDF        Kind = "pdf"
	KindText       Kind = "text"
	KindTranscript Kind = "transcript"
)

// ParseKind accepts web, pdf, text and transcript; blank is inferred by Infer
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindWeb, KindPDF, KindText, KindTranscript:
		return k, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unknown source kind %q", s), "kind")
}

// Source names something to acquire
type Source struct {
	Kind     Kind   `json:"kind"`
	Location string `json:"location"`
	// Label overrides the label derived from Location
	Label string `json:"label,omitempty"`
}

// Infer builds a Source from a bare location: http(s) URLs are web pages, *.pdf files are
// PDF, anything else is plain text
func Infer(location string) Source {
	loc := strings.TrimSpace(location)
	lower := strings.ToLower(loc)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return Source{Kind: KindWeb, Location: loc}
	case strings.HasSuffix(lower, ".pdf"):
		return Source{Kind: KindPDF, Location: loc}
	}
	return Source{Kind: KindText, Location: loc}
}

func (s Source) String() string { return string(s.Kind) + ":" + s.Location }

// DisplayLabel is Label, or the host and path of a URL, or a file name without extension
func (s Source) DisplayLabel() string {
	if l := strings.TrimSpace(s.Label); l != "" {
		return l
	}
	if s.Kind == KindWeb {
		if u, err := url.Parse(s.Location); err == nil && u.Host != "" {
			return u.Host + strings.TrimSuffix(u.EscapedPath(), "/")
		}
		return s.Location
	}
	base := filepath.Base(s.Location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Document is acquired text with provenance
type Document struct {
	Source    Source    `json:"source"`
	Label     string    `json:"label"`
	Text      string    `json:"text"`
	Pages     int       `json:"pages,omitempty"`
	Bytes     int       `json:"bytes"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AcquisitionError attributes a failure to its source
type AcquisitionError struct {
	Source Source
	Err    error
}

func (e *AcquisitionError) Error() string {
	return "acquire " + e.Source.String() + ": " + e.Err.Error()
}

// Unwrap exposes the cause, which carries the perr code
func (e *AcquisitionError) Unwrap() error { return e.Err }

func fail(src Source, err error) error {
	if perr.CodeOf(err) == perr.ErrorCodeUnknown {
		err = perr.Wrap(err, perr.ErrorCodeUnavailable, "unavailable")
	}
	return &AcquisitionError{Source: src, Err: err}
}

// Acquirer dispatches sources to the matching extractor and caches successes
type Acquirer struct {
	cfg   Config
	web   *webFetcher
	cache *textCache
	log   *logger.Logger
}

// New returns an Acquirer
func New(cfg Config, opts ...Option) *Acquirer {
	cfg = cfg.withDefaults()
	a := &Acquirer{cfg: cfg}
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	a.log = o.log
	if a.log == nil {
		a.log = logger.Named("acquire")
	}
	a.cache = newTextCache(cfg.CacheTTL, o.redis, a.log)
	a.web = newWebFetcher(cfg, o.client)
	return a
}

// Acquire returns the text of src or an *AcquisitionError
func (a *Acquirer) Acquire(ctx context.Context, src Source) (*Document, error) {
	if src.Kind == "" {
		src = Source{Kind: Infer(src.Location).Kind, Location: src.Location, Label: src.Label}
	}
	if strings.TrimSpace(src.Location) == "" {
		return nil, &AcquisitionError{Source: src, Err: perr.WithField(perr.Validationf("location is required"), "location")}
	}
	if d, ok := a.cache.get(ctx, src); ok {
		return d, nil
	}

	start := time.Now()
	var (
		doc *Document
		err error
	)
	switch src.Kind {
	case KindWeb:
		doc, err = a.web.fetch(ctx, src)
	case KindPDF:
		doc, err = readPDFFile(src, a.cfg.MaxBytes)
	case KindText:
		doc, err = readTextFile(src, a.cfg.MaxBytes)
	case KindTranscript:
		err = perr.InvalidArgf("transcript retrieval is not supported")
	default:
		err = perr.InvalidArgf("unknown source kind %q", src.Kind)
	}
	if err != nil {
		a.log.Warn().Str("source", src.String()).Err(err).Msg("acquisition failed")
		return nil, fail(src, err)
	}

	doc.Source = src
	doc.Label = src.DisplayLabel()
	doc.FetchedAt = time.Now().UTC()
	a.cache.set(ctx, src, doc)
	a.log.Debug().Str("source", src.String()).Int("bytes", doc.Bytes).Int("pages", doc.Pages).
		Dur("elapsed", time.Since(start)).Msg("acquired")
	return doc, nil
}

// Documents acquires srcs with at most workers in flight and returns them as engine
// documents in input order. Failures travel on Document.Err. Repeated labels get a
// numeric suffix so that a comparison can tell them apart
func (a *Acquirer) Documents(ctx context.Context, srcs []Source, workers int) []engine.Document {
	out := make([]engine.Document, len(srcs))
	if workers <= 0 {
		workers = 4
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, src := range srcs {
		g.Go(func() error {
			d, err := a.Acquire(ctx, src)
			if err != nil {
				out[i] = engine.Document{Label: src.DisplayLabel(), Err: err}
				return nil
			}
			out[i] = engine.Document{Label: d.Label, Text: d.Text}
			return nil
		})
	}
	_ = g.Wait()

	taken := make(map[string]bool, len(out))
	for _, d := range out {
		taken[d.Label] = true
	}
	kept := make(map[string]bool, len(out))
	for i := range out {
		label := out[i].Label
		if !kept[label] {
			kept[label] = true
			continue
		}
		for n := 2; ; n++ {
			if next := fmt.Sprintf("%s (%d)", label, n); !taken[next] {
				out[i].Label = next
				taken[next] = true
				break
			}
		}
	}
	return out
}
