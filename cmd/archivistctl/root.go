package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/archivist/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "archivistctl",
		Short:         "Archive catalog tooling",
		Long:          "Runs list queries over record fixtures without a server and seeds configured stores.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newQueryCmd(), newSeedCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
