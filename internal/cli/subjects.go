package cli

import (
	"fmt"
	"strings"

	str "jangat/internal/platform/strings"
	"jangat/internal/services/api/analysis/domain"

	"github.com/spf13/cobra"
)

func (a *app) subjectsCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects and synonyms analyzed",
		Long: `List the subjects of the taxonomy in use, restricted by --subjects.

With --yaml the taxonomy is written in the file format accepted by --taxonomy,
which is a convenient starting point for a custom taxonomy.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tax, err := a.taxonomy()
			if err != nil {
				return err
			}
			if asYAML {
				return tax.Encode(a.out)
			}
			f, err := a.format()
			if err != nil {
				return err
			}
			if f == formatJSON {
				return writeJSON(a.out, domain.SubjectsResponse{Fingerprint: tax.Fingerprint(), Subjects: tax.Subjects()})
			}

			tw := newTable(a.out)
			fmt.Fprintln(tw, "SUBJECT\tSYNONYMS\tEXAMPLES")
			for _, s := range tax.Subjects() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, len(s.Synonyms), str.Ellipsis(strings.Join(s.Synonyms, ", "), 60))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "write the taxonomy as YAML")
	return cmd
}
