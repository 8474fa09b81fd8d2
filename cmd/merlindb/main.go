package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/merlindb"
	"github.com/tordrt/merlindb/internal/config"
	"github.com/tordrt/merlindb/internal/logging"
)

const version = "1.0.0"

// usageError marks missing or invalid arguments and flags. It exits with 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a positional argument validator so its failures exit with 2.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// app holds the settings resolved before any subcommand runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// open resolves the database source from the argument or the configuration.
func (a *app) open(ctx context.Context, arg string) (*merlindb.Database, error) {
	source, err := a.cfg.ResolveDatabase(arg)
	if err != nil {
		return nil, &usageError{err}
	}
	return merlindb.Open(ctx, source, &merlindb.Options{
		Logger:     a.logger,
		SchemaName: a.cfg.PostgresSchema,
	})
}

// closeDatabase reports close failures without failing the command.
func closeDatabase(cmd *cobra.Command, d *merlindb.Database) {
	if err := d.Close(); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to close database: %v\n", err)
	}
}

// splitDatabaseArg separates an optional leading database argument from the
// want positional arguments that follow it.
func splitDatabaseArg(args []string, want int) (string, []string) {
	if len(args) > want {
		return args[0], args[1:]
	}
	return "", args
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "merlindb",
		Short: "Parse and export GeniSys lighting control databases",
		Long: `MerlinDB reads the Microsoft Access databases used by GeniSys lighting control
software, validates their tables against the known GeniSys record layouts and
exports them to JSON, YAML, CSV, XLSX, Parquet, Markdown or text.

The database is the first argument of each command. It can be omitted when
the config file or MERLINDB_MDB_PATH names one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = a.logFormat
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return &usageError{err}
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.AddCommand(
		newInfoCmd(a),
		newTablesCmd(a),
		newInspectCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
		newBrowseCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return 2
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
