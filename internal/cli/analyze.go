package cli

import (
	"context"
	"io"
	"strings"

	"jangat/internal/adapters/acquire"
	"jangat/internal/core/engine"
	perr "jangat/internal/platform/errors"
	"jangat/internal/services/api/analysis/service"

	"github.com/spf13/cobra"
)

func (a *app) analyzeCmd() *cobra.Command {
	var text, label string
	cmd := &cobra.Command{
		Use:   "analyze [source]",
		Short: "Analyze one document",
		Long: `Analyze one document and print, per subject, the number of sentences that mention it
and its proportion.

The source is a URL, a PDF file, a text file, or - for standard input. --text analyzes
the given text instead.

Example:
  jangat analyze https://example.org/programme
  jangat analyze programme.pdf --subjects Santé,Emploi -o table
  jangat analyze --text "La santé avant tout." --policy density`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			doc, err := a.document(ctx, args, text, label)
			if err != nil {
				return err
			}
			res, err := e.Analyze(doc)
			if err != nil {
				return err
			}
			out := service.ToAnalysis(res)
			if f == formatJSON {
				return writeJSON(a.out, out)
			}
			return renderAnalysis(a.out, out)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "analyze this text instead of a source")
	cmd.Flags().StringVar(&label, "label", "", "document label (default: derived from the source)")
	return cmd
}

// document resolves the analyze input: --text, standard input, or an acquired source
func (a *app) document(ctx context.Context, args []string, text, label string) (engine.Document, error) {
	label = strings.TrimSpace(label)
	switch {
	case text != "" && len(args) > 0:
		return engine.Document{}, perr.Validationf("give either a source or --text, not both")
	case text != "":
		return engine.Document{Label: labelOr(label, "text"), Text: text}, nil
	case len(args) == 0:
		return engine.Document{}, perr.Validationf("a source, - or --text is required")
	case args[0] == "-":
		raw, err := io.ReadAll(a.in)
		if err != nil {
			return engine.Document{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read stdin")
		}
		return engine.Document{Label: labelOr(label, "stdin"), Text: string(raw)}, nil
	}

	src := acquire.Infer(args[0])
	src.Label = label
	d, err := a.acquirer().Acquire(ctx, src)
	if err != nil {
		return engine.Document{}, err
	}
	return engine.Document{Label: d.Label, Text: d.Text}, nil
}

func labelOr(label, def string) string {
	if label != "" {
		return label
	}
	return def
}
