package main

import (
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout())
			p.printPanel("Version Info",
				p.label.Render("MerlinDB")+" v"+version,
				"",
				"Parse and export Microsoft Access Database files",
				"used by GeniSys lighting control software.",
			)
			return nil
		},
	}
}
