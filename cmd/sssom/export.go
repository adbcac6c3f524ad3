package main

import (
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/cx"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export SSSOM files to other formats",
	}
	cmd.AddCommand(newExportCXCommand())
	return cmd
}

func newExportCXCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "cx FILE",
		Short: "Export a mapping file as a CX network for NDEx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings, conv, meta, err := sssom.Read(args[0], nil)
			if err != nil {
				return err
			}
			network := cx.FromMappings(mappings, meta, conv)

			if output == "" || output == "-" {
				return network.Encode(cmd.OutOrStdout())
			}
			t, err := renameio.TempFile("", output)
			if err != nil {
				return err
			}
			defer func() { _ = t.Cleanup() }()
			if err := network.Encode(t); err != nil {
				return err
			}
			return t.CloseAtomicallyReplace()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout)")
	return cmd
}
