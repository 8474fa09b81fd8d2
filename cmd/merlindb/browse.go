package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tordrt/merlindb/internal/provider"
	"github.com/tordrt/merlindb/internal/tui"
)

var errNoTerminal = errors.New("browse needs an interactive terminal")

func newBrowseCmd(a *app) *cobra.Command {
	var (
		mode     string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "browse [database]",
		Short: "Browse tables interactively",
		Long: `Browse opens a full screen table browser. Switch between the raw, dynalite
and device views with m, open a table with enter and filter its rows with f.`,
		Example: `  merlindb browse project.mdb
  merlindb browse project.mdb --mode dynalite`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(provider.Modes(), strings.ToLower(mode)) {
				return &usageError{fmt.Errorf("unsupported mode: %s. Available modes: %s", mode, strings.Join(provider.Modes(), ", "))}
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}

			ctx := cmd.Context()
			dbArg, _ := splitDatabaseArg(args, 0)

			d, err := a.open(ctx, dbArg)
			if err != nil {
				return err
			}
			defer closeDatabase(cmd, d)

			a.logger.Debug("starting browser", "source", d.Path(), "mode", mode)
			return tui.Run(ctx, d, tui.Options{
				Source:   d.Path(),
				Mode:     mode,
				Validate: validate,
			})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "raw", "Initial view: raw, dynalite or device")
	cmd.Flags().BoolVarP(&validate, "validate", "v", false, "Normalize raw tables against their schema")
	return cmd
}
