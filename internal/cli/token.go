package cli

import (
	"fmt"
	"time"

	"jangat/internal/modkit/httpkit"
	"jangat/internal/platform/config"

	"github.com/spf13/cobra"
)

func (a *app) tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		secret  string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with the server's JWT secret",
		Long: `Issue a bearer token accepted by jangat-api when CORE_API_JWT_SECRET is set.
The secret is read from --secret or CORE_API_JWT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if secret == "" {
				secret = config.New().Prefix("CORE_API_").MayString("JWT_SECRET", "")
			}
			tok, err := httpkit.IssueToken(secret, subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, tok)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "client name carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default: CORE_API_JWT_SECRET)")
	return cmd
}
