// Command sssom is the toolbox for SSSOM mapping files: linting them
// into canonical form, exporting them to other formats, and serving a
// curation API over a mapping database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cthoyt/sssom-go/internal/log"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "sssom",
		Short:         "Work with SSSOM semantic mapping files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newLintCommand(),
		newServeCommand(),
		newExportCommand(),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		logger := log.Base()
		logger.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
