package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// !!!!! This MUST match the version given in the release notes !!!!!
const version = "0_4_0"

// Exit codes of the command line tool.
const (
	exitSuccess      = 0
	exitFailure      = 1 // computation failed
	exitCommandError = 2 // unreadable or invalid input
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func commandError(format string, args ...any) error {
	return &exitError{code: exitCommandError, err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitFailure
}

// rootOptions holds the global flags.
type rootOptions struct {
	LogLevel string
	LogJSON  bool
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, commandError("invalid log level %q: %w", o.LogLevel, err)
	}
	cfg := zap.NewDevelopmentConfig()
	if o.LogJSON {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "layeredem",
		Short: "Electromagnetic responses of layered earth models",
		Long: `layeredem computes the electromagnetic field of electric and magnetic
dipoles, finite bipoles and loops over a one-dimensional, vertically
anisotropic layered earth, in the frequency or the time domain.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.LogJSON, "log-json", false, "log as JSON instead of console text")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newFiltersCommand(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "layeredem version %s\n", version)
		},
	})
	return cmd
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n\t%v\n\n", err)
		os.Exit(exitCode(err))
	}
}
