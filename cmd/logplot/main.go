// logplot parses controller log lines (friction wheel, trigger) into numeric series and plots them,
// either as a saved PNG figure or in an interactive viewer with a sliding detail window.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GKD-RM-Lab/logplot/src/logging"
	"github.com/GKD-RM-Lab/logplot/src/logparse"
	"github.com/GKD-RM-Lab/logplot/src/series"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(Execute(os.Args[1:]))
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var ue usageError
	var mm *logparse.MalformedMatchError
	switch {
	case errors.As(err, &ue):
		return exitUsage
	case errors.Is(err, logparse.ErrFileNotFound), errors.Is(err, series.ErrEmptyDataset), errors.As(err, &mm):
		logging.Debugf("run failed: %v", err)
		return exitFailure
	default:
		return exitFailure
	}
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

// usageError marks configuration and flag problems.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "logplot",
		Short: "Plot numeric series extracted from controller logs",
		Long: `logplot reads a controller log, extracts the fields of one line layout
(variant) from every matching line and plots them.

Variants:
  fric      left: <f>, right: <f>            (left is sign-inverted)
  fric_set  set: <f>, left: <f>, right: <f>  (left is sign-inverted)
  trigger   set: <n>, trigger: <n>

Use "render" to write a PNG figure and "view" to browse the log with a sliding window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	opts.bind(root)

	root.AddCommand(newRenderCommand(opts))
	root.AddCommand(newViewCommand(opts))
	root.AddCommand(newStatsCommand(opts))
	root.AddCommand(newVariantsCommand(opts))
	return root
}
