package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/internal/log"
)

func newLintCommand() *cobra.Command {
	var (
		dropDuplicates bool
		excludeColumns []string
		excludePath    string
	)
	cmd := &cobra.Command{
		Use:   "lint FILE...",
		Short: "Rewrite SSSOM files into canonical form",
		Long: `Lint sorts rows, condenses constant propagatable columns into the
frontmatter, prunes the curie_map to the prefixes in use, and writes the
frontmatter deterministically. Linting a linted file changes nothing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts := &sssom.LintOptions{
				DropDuplicates: dropDuplicates,
				ExcludeColumns: excludeColumns,
			}
			if excludePath != "" {
				excluded, _, _, err := sssom.Read(excludePath, nil)
				if err != nil {
					return fmt.Errorf("read exclusions: %w", err)
				}
				opts.Exclude = excluded
			}
			logger := log.WithComponent("lint")
			for _, path := range args {
				if err := sssom.Lint(path, opts); err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				logger.Info().Str("path", path).Msg("linted")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dropDuplicates, "drop-duplicates", false, "collapse duplicate subject/object pairs onto the preferred predicate")
	cmd.Flags().StringSliceVar(&excludeColumns, "exclude-column", nil, "column to drop from the output (repeatable)")
	cmd.Flags().StringVar(&excludePath, "exclude", "", "SSSOM file whose triples are removed")
	return cmd
}
