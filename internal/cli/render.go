package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"jangat/internal/core/engine"
	"jangat/internal/core/proportion"
	perr "jangat/internal/platform/errors"
	str "jangat/internal/platform/strings"
	"jangat/internal/services/api/analysis/domain"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func (a *app) format() (string, error) {
	f := strings.ToLower(strings.TrimSpace(a.v.GetString("format")))
	switch f {
	case formatJSON, formatTable:
		return f, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unknown output format %q", f), "format")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// percent renders a proportion; nil is a document without data
func percent(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *score*100)
}

func rowScore(r proportion.Row) *float64 {
	if !r.Defined {
		return nil
	}
	s := r.Score
	return &s
}

func renderAnalysis(w io.Writer, res domain.AnalysisResponse) error {
	fmt.Fprintf(w, "%s  (%s, %d sentences, %s, %s)\n\n", res.Label, res.Language, res.Sentences, res.Policy, res.Status)

	tw := newTable(w)
	fmt.Fprintln(tw, "SUBJECT\tCOUNT\tSCORE")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Subject, r.Count, percent(rowScore(r)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	renderEvidence(w, res.Evidence)
	return nil
}

func renderEvidence(w io.Writer, ev []engine.Evidence) {
	header := false
	for _, e := range ev {
		if len(e.Occurrences) == 0 {
			continue
		}
		if !header {
			fmt.Fprintln(w, "\nEvidence")
			header = true
		}
		fmt.Fprintf(w, "  %s (%d)\n", e.Subject, e.Count)
		for _, o := range e.Occurrences {
			fmt.Fprintf(w, "    [%d] %s\n", o.Sentence, str.Ellipsis(o.Text, 160))
		}
	}
}

// renderComparison prints one row per subject and one column per document
func renderComparison(w io.Writer, cmp domain.CompareResponse) error {
	fmt.Fprintf(w, "run %s  (%s, taxonomy %s)\n\n", cmp.RunID, cmp.Policy, cmp.Taxonomy)

	grid := make(map[string]map[string]engine.Cell, len(cmp.Subjects))
	for _, c := range cmp.Cells {
		if grid[c.Subject] == nil {
			grid[c.Subject] = make(map[string]engine.Cell, len(cmp.Documents))
		}
		grid[c.Subject][c.Label] = c
	}

	tw := newTable(w)
	head := []string{"SUBJECT"}
	for _, d := range cmp.Documents {
		head = append(head, d.Label)
	}
	fmt.Fprintln(tw, strings.Join(head, "\t"))
	for _, s := range cmp.Subjects {
		line := []string{s}
		for _, d := range cmp.Documents {
			c := grid[s][d.Label]
			if d.Failed && c.Score == nil {
				line = append(line, "-")
				continue
			}
			line = append(line, fmt.Sprintf("%s (%d)", percent(c.Score), c.Count))
		}
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	first := true
	for _, d := range cmp.Documents {
		if !d.Failed {
			continue
		}
		if first {
			fmt.Fprintln(w)
			first = false
		}
		fmt.Fprintf(w, "failed  %s: %s\n", d.Label, d.Reason)
	}
	return nil
}
