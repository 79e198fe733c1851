package cli

import (
	"fmt"

	"jangat/internal/core/version"

	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			bi := version.Info("jangat")
			f, err := a.format()
			if err != nil {
				return err
			}
			if f == formatJSON {
				return writeJSON(a.out, bi)
			}
			_, err = fmt.Fprintf(a.out, "jangat %s (commit %s, built %s, %s)\n", bi.Version, bi.Commit, bi.Date, bi.GoVersion)
			return err
		},
	}
}
