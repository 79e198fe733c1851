package engine

import (
	"context"
	"strings"

	"jangat/internal/core/proportion"
	perr "jangat/internal/platform/errors"
	"jangat/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicateLabel rejects a comparison whose documents cannot be told apart
var ErrDuplicateLabel = perr.New(perr.ErrorCodeInvalidArgument, "duplicate document label")

// ErrEmptyDocument marks a document whose text holds no sentence
var ErrEmptyDocument = perr.New(perr.ErrorCodeInvalidArgument, "document has no text")

// Outcome is one document's place in a comparison. A failed outcome never has scores;
// an empty document still carries its no data result
type Outcome struct {
	Label  string  `json:"label"`
	Failed bool    `json:"failed"`
	Reason string  `json:"reason,omitempty"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// Comparison is the cross document result, outcomes in input order
type Comparison struct {
	RunID    string            `json:"run_id"`
	Policy   proportion.Policy `json:"policy"`
	Subjects []string          `json:"subjects"`
	Taxonomy string            `json:"taxonomy"`
	Outcomes []Outcome         `json:"outcomes"`
}

// Cell is one (document, subject) score. Score is nil when the document has no data
type Cell struct {
	Label   string            `json:"label"`
	Subject string            `json:"subject"`
	Count   int               `json:"count"`
	Score   *float64          `json:"score"`
	Status  proportion.Status `json:"status"`
}

// Compare analyzes docs independently, at most Config.Workers at a time. A failed or empty
// document is recorded on its outcome and the rest still run. Once ctx ends no further
// document starts; those left are recorded as failed with the context error
func (e *Engine) Compare(ctx context.Context, docs []Document) (*Comparison, error) {
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		label := strings.TrimSpace(d.Label)
		if label == "" {
			return nil, perr.WithField(perr.InvalidArgf("document #%d has no label", i+1), "documents")
		}
		if _, dup := seen[label]; dup {
			return nil, perr.WithField(perr.Wrapf(ErrDuplicateLabel, perr.ErrorCodeInvalidArgument, "label %q", label), "documents")
		}
		seen[label] = struct{}{}
	}

	cmp := &Comparison{
		RunID:    uuid.NewString(),
		Policy:   e.cfg.Policy,
		Subjects: e.tax.Names(),
		Taxonomy: e.tax.Fingerprint(),
		Outcomes: make([]Outcome, len(docs)),
	}
	log := logger.C(logger.WithRun(ctx, cmp.RunID))
	log.Info().Int("documents", len(docs)).Int("subjects", len(cmp.Subjects)).Str("policy", cmp.Policy.String()).Msg("comparison started")

	var g errgroup.Group
	g.SetLimit(e.cfg.workers())
	for i, d := range docs {
		if err := perr.FromContext(ctx, "not started"); err != nil {
			cmp.Outcomes[i] = failed(d.Label, err, nil)
			continue
		}
		g.Go(func() error {
			cmp.Outcomes[i] = e.outcome(d)
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for _, o := range cmp.Outcomes {
		if o.Failed {
			failures++
			log.Warn().Str("label", o.Label).Str("reason", o.Reason).Msg("document failed")
		}
	}
	log.Info().Int("failed", failures).Msg("comparison finished")
	return cmp, nil
}

func (e *Engine) outcome(d Document) Outcome {
	res, err := e.Analyze(d)
	if err != nil {
		return failed(d.Label, err, nil)
	}
	if res.Sentences == 0 {
		return failed(d.Label, perr.Wrapf(ErrEmptyDocument, perr.ErrorCodeInvalidArgument, "document %q", d.Label), res)
	}
	return Outcome{Label: d.Label, Result: res}
}

func failed(label string, err error, res *Result) Outcome {
	return Outcome{Label: label, Failed: true, Reason: err.Error(), Result: res, Err: err}
}

// Cells flattens the comparison into (document, subject) rows, documents in input order and
// subjects in taxonomy order. Failed documents get StatusNoData and no score, never a zero
func (c *Comparison) Cells() []Cell {
	out := make([]Cell, 0, len(c.Outcomes)*len(c.Subjects))
	for _, o := range c.Outcomes {
		for _, s := range c.Subjects {
			out = append(out, cell(o, s))
		}
	}
	return out
}

// Subject returns the cells of one subject across documents, for charting a theme
func (c *Comparison) Subject(name string) []Cell {
	out := make([]Cell, 0, len(c.Outcomes))
	for _, o := range c.Outcomes {
		out = append(out, cell(o, name))
	}
	return out
}

// Failures returns the failed outcomes
func (c *Comparison) Failures() []Outcome {
	var out []Outcome
	for _, o := range c.Outcomes {
		if o.Failed {
			out = append(out, o)
		}
	}
	return out
}

func cell(o Outcome, subject string) Cell {
	c := Cell{Label: o.Label, Subject: subject, Status: proportion.StatusNoData}
	if o.Result != nil {
		if r, ok := o.Result.Table.Row(subject); ok {
			c.Count = r.Count
		}
	}
	if o.Failed || o.Result == nil {
		return c
	}
	c.Status = o.Result.Table.Status
	if s, ok := o.Result.Table.Score(subject); ok {
		c.Score = &s
	}
	return c
}
