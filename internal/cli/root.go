// Package cli implements the jangat command line
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "jangat/internal/platform/errors"
	"jangat/internal/platform/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every command shares: resolved settings and the streams to use
type app struct {
	v       *viper.Viper
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	cfgFile string
}

// NewRootCmd builds the command tree reading from in and writing to out and errOut
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "jangat",
		Short: "Jangat - thematic occurrence and proportion analysis",
		Long: `Jangat counts, for each subject of a taxonomy, the sentences of a document that
mention one of the subject's synonyms, and turns the counts into proportions.

Documents are web pages, PDF files or plain text. Several documents can be compared
subject by subject under the same settings.

Settings come from flags, then JANGAT_* environment variables, then the config file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.jangat/config.yaml)")
	pf.String("policy", "share", "proportion policy: share or density")
	pf.String("dedup", "position", "sentence deduplication: position or text")
	pf.String("lang", "fr", "document language for sentence splitting, or auto")
	pf.String("taxonomy", "", "taxonomy YAML file replacing the embedded one")
	pf.StringSlice("subjects", nil, "subjects to analyze (default: all)")
	pf.Int("max-evidence", 2, "evidence sentences quoted per subject")
	pf.Int("workers", 0, "documents analyzed at once (default: number of CPUs)")
	pf.StringP("format", "o", "json", "output format: json or table")
	pf.Duration("timeout", 2*time.Minute, "overall timeout for fetching and analysis")
	pf.Bool("no-robots", false, "ignore robots.txt when fetching web pages")
	pf.BoolP("verbose", "v", false, "log engine and fetch activity to stderr")

	root.AddCommand(
		a.subjectsCmd(),
		a.analyzeCmd(),
		a.compareCmd(),
		a.versionCmd(),
		a.tokenCmd(),
	)
	return root
}

// Execute runs the root command on the process streams
func Execute() error {
	return NewRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute()
}

// initConfig binds flags, JANGAT_* variables and the config file, then sets up logging
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("JANGAT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "read config"), "config")
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".jangat"))
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return perr.Wrap(err, perr.ErrorCodeValidation, "read config")
			}
		}
	}

	opts := logger.FromEnv()
	opts.Writer = a.errOut
	opts.Format = "console"
	if opts.Service == "" {
		opts.Service = "jangat"
	}
	switch {
	case a.v.GetBool("verbose"):
		opts.Level = "debug"
	case os.Getenv("LOG_LEVEL") == "":
		opts.Level = "warn"
	}
	logger.Init(opts)
	return nil
}

// context bounds a command by --timeout
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := a.v.GetDuration("timeout"); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
