package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// ErrTestsFailed is returned by the run command when any case failed. The
// console output has already described the failures, so it is not printed.
var ErrTestsFailed = errors.New("one or more tests failed")

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "usercheck",
		Short:   "Contract checks for the ReqRes users API",
		Version: version,
		Long: `usercheck drives a fixed set of request/assertion cases against a users
REST API (https://reqres.in/api by default): pagination, single-user lookups,
create/update/delete behavior, JSON Schema conformance and, on request,
latency budgets. It exits non-zero when any case fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "settings file (YAML, or JSON by .json extension)")
	rootCmd.PersistentFlags().String("env-file", "", "dotenv file to load (default .env when present)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newPostCmd())
	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newDeleteCmd())

	return rootCmd
}

// Execute runs the command line in os.Args and returns the process exit code.
// Interrupts cancel the run.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ExecuteContext(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteContext runs args with the given streams: 0 on success, 1 on any
// error including failed cases.
func ExecuteContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrTestsFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
