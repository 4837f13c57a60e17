package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sigmetrics/sigsite"
	"github.com/sigmetrics/sigsite/internal/log"
)

type globalFlags struct {
	logLevel string
	pretty   bool
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "sigsite",
		Short: "ACM SIGMETRICS website and frequent-authors dataset",
		Long: `sigsite serves the ACM SIGMETRICS website from its built-in content
records and maintains the frequent-authors dataset fetched from dblp.

Settings come from the environment (SITE_URL, DATABASE_PATH, ...) and can
be overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Configure(log.Config{Level: g.logLevel, Pretty: g.pretty, Output: cmd.ErrOrStderr()})
		},
	}
	pretty, _ := strconv.ParseBool(sigsite.EnvOr("LOG_PRETTY", "false"))
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", sigsite.EnvOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.pretty, "log-pretty", pretty, "Human-readable log output")

	root.AddCommand(
		newServeCommand(),
		newFetchCommand(),
		newLinksCommand(),
		newExportCommand(),
		newValidateCommand(),
		newInitCommand(),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sigsite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sigsite %s (commit: %s)\n", version, commit)
		},
	}
}
