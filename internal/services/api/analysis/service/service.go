// Package service contains analysis workflows
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jangat/internal/adapters/acquire"
	"jangat/internal/core/engine"
	"jangat/internal/core/matcher"
	"jangat/internal/core/proportion"
	"jangat/internal/core/segment"
	perr "jangat/internal/platform/errors"
	"jangat/internal/platform/logger"
	"jangat/internal/services/api/analysis/domain"
)

// Service defines the analysis service contract
type Service interface {
	domain.ServicePort
}

// Fetcher turns remote sources into engine documents, failures included
type Fetcher interface {
	Documents(ctx context.Context, srcs []acquire.Source, workers int) []engine.Document
}

// Svc implements the analysis service
type Svc struct {
	base  *engine.Engine
	fetch Fetcher
}

// New constructs an analysis service. fetch may be nil, in which case URL documents are refused
func New(base *engine.Engine, fetch Fetcher) *Svc {
	if base == nil {
		panic("analysis.Service requires a non nil engine")
	}
	return &Svc{base: base, fetch: fetch}
}

// Subjects returns the configured taxonomy
func (s *Svc) Subjects(_ context.Context) (domain.SubjectsResponse, error) {
	tax := s.base.Taxonomy()
	return domain.SubjectsResponse{Fingerprint: tax.Fingerprint(), Subjects: tax.Subjects()}, nil
}

// AnalyzeText analyzes one inline document
func (s *Svc) AnalyzeText(ctx context.Context, in domain.TextInput) (domain.AnalysisResponse, error) {
	e, err := s.engineFor(in.Settings)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = "document"
	}
	res, err := e.Analyze(engine.Document{Label: label, Text: in.Text})
	if err != nil {
		return domain.AnalysisResponse{}, err
	}
	logger.C(ctx).Debug().Str("label", label).Str("status", res.Table.Status.String()).Msg("text analyzed")
	return ToAnalysis(res), nil
}

// Compare analyzes every document under the same settings. Per document failures are
// reported on their outcome; only malformed requests fail as a whole
func (s *Svc) Compare(ctx context.Context, in domain.CompareInput) (domain.CompareResponse, error) {
	e, err := s.engineFor(in.Settings)
	if err != nil {
		return domain.CompareResponse{}, err
	}
	docs, err := s.documents(ctx, in.Documents, e.Config().Workers)
	if err != nil {
		return domain.CompareResponse{}, err
	}
	cmp, err := e.Compare(ctx, docs)
	if err != nil {
		return domain.CompareResponse{}, err
	}
	return ToCompare(cmp), nil
}

// documents resolves inline and URL documents in request order. URL documents are fetched
// together; their acquisition failures travel on Document.Err
func (s *Svc) documents(ctx context.Context, in []domain.DocumentInput, workers int) ([]engine.Document, error) {
	docs := make([]engine.Document, len(in))
	var (
		srcs []acquire.Source
		at   []int
	)
	for i, d := range in {
		u := strings.TrimSpace(d.URL)
		if u == "" {
			docs[i] = engine.Document{Label: labelOr(d.Label, i), Text: d.Text}
			continue
		}
		if strings.TrimSpace(d.Text) != "" {
			return nil, perr.WithField(perr.Validationf("document #%d has both text and url", i+1), "documents")
		}
		srcs = append(srcs, acquire.Source{Kind: acquire.KindWeb, Location: u, Label: strings.TrimSpace(d.Label)})
		at = append(at, i)
	}
	if len(srcs) == 0 {
		return docs, nil
	}
	if s.fetch == nil {
		return nil, perr.WithField(perr.InvalidArgf("url documents are disabled on this server"), "documents")
	}
	fetched := s.fetch.Documents(ctx, srcs, workers)
	for j, i := range at {
		docs[i] = fetched[j]
	}
	return docs, nil
}

func labelOr(label string, i int) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return fmt.Sprintf("document %d", i+1)
}

// engineFor applies request settings over the server configuration
func (s *Svc) engineFor(in domain.Settings) (*engine.Engine, error) {
	if len(in.Subjects) == 0 && in.Policy == "" && in.Dedup == "" && in.Language == "" && in.MaxEvidence == nil {
		return s.base, nil
	}
	cfg := s.base.Config()
	if in.Policy != "" {
		p, err := proportion.ParsePolicy(in.Policy)
		if err != nil {
			return nil, err
		}
		cfg.Policy = p
	}
	if in.Dedup != "" {
		d, err := matcher.ParseDedup(in.Dedup)
		if err != nil {
			return nil, err
		}
		cfg.Dedup = d
	}
	if in.MaxEvidence != nil {
		cfg.MaxEvidence = *in.MaxEvidence
	}
	if l := strings.TrimSpace(in.Language); l != "" {
		cfg.Language = l
	}

	sub, err := s.base.Taxonomy().Subset(in.Subjects...)
	if err != nil {
		return nil, err
	}
	e, err := s.base.With(sub, cfg)
	if errors.Is(err, segment.ErrUnsupportedLanguage) {
		return nil, perr.WithField(err, "language")
	}
	return e, err
}

// ToAnalysis maps an engine result onto the wire shape
func ToAnalysis(res *engine.Result) domain.AnalysisResponse {
	return domain.AnalysisResponse{
		Label:       res.Label,
		Fingerprint: res.Fingerprint,
		Language:    res.Language,
		Sentences:   res.Sentences,
		Policy:      res.Table.Policy,
		Status:      res.Table.Status,
		Denominator: res.Table.Denominator,
		Rows:        res.Table.Rows,
		Evidence:    res.Evidence(),
	}
}

// ToCompare maps a comparison onto the wire shape. Evidence is kept for successful
// documents only
func ToCompare(cmp *engine.Comparison) domain.CompareResponse {
	out := domain.CompareResponse{
		RunID:     cmp.RunID,
		Policy:    cmp.Policy,
		Taxonomy:  cmp.Taxonomy,
		Subjects:  cmp.Subjects,
		Documents: make([]domain.DocumentOutcome, 0, len(cmp.Outcomes)),
		Cells:     cmp.Cells(),
	}
	for _, o := range cmp.Outcomes {
		d := domain.DocumentOutcome{Label: o.Label, Failed: o.Failed, Reason: o.Reason, Status: proportion.StatusNoData}
		if o.Result != nil {
			d.Fingerprint = o.Result.Fingerprint
			d.Sentences = o.Result.Sentences
			d.Status = o.Result.Table.Status
			if !o.Failed {
				d.Evidence = o.Result.Evidence()
			}
		}
		out.Documents = append(out.Documents, d)
	}
	return out
}
