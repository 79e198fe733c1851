package cli

import (
	"strings"

	"jangat/internal/adapters/acquire"
	perr "jangat/internal/platform/errors"
	"jangat/internal/services/api/analysis/service"

	"github.com/spf13/cobra"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		labels []string
		xlsx   string
	)
	cmd := &cobra.Command{
		Use:   "compare <source>...",
		Short: "Compare subject proportions across documents",
		Long: `Analyze every source under the same settings and print the subject by document grid.

A source that cannot be fetched or has no text is reported as failed; the others are
still compared. The command fails only when every source failed.

Example:
  jangat compare https://a.example/programme https://b.example/programme.pdf
  jangat compare a.txt b.txt --label "Parti A" --label "Parti B" --xlsx grid.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			if len(labels) > len(args) {
				return perr.WithField(perr.Validationf("%d labels for %d sources", len(labels), len(args)), "label")
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			srcs := make([]acquire.Source, len(args))
			for i, loc := range args {
				if loc == "-" {
					return perr.Validationf("standard input cannot be compared")
				}
				srcs[i] = acquire.Infer(loc)
				if i < len(labels) {
					srcs[i].Label = strings.TrimSpace(labels[i])
				}
			}
			docs := a.acquirer().Documents(ctx, srcs, e.Config().Workers)

			cmp, err := e.Compare(ctx, docs)
			if err != nil {
				return err
			}
			out := service.ToCompare(cmp)
			if xlsx != "" {
				if err := writeWorkbook(xlsx, out); err != nil {
					return err
				}
			}
			if f == formatJSON {
				err = writeJSON(a.out, out)
			} else {
				err = renderComparison(a.out, out)
			}
			if err != nil {
				return err
			}
			if len(cmp.Failures()) == len(cmp.Outcomes) {
				return perr.Unavailablef("every document failed")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&labels, "label", nil, "labels for the sources, in order")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the grid to this Excel workbook")
	return cmd
}
