// Package cli implements the sqlcanvas command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sqlcanvas",
		Short:         "Canvas query engine",
		Long:          "Run SQL against cached canvas node results, either as a server or one-off from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnvFlags(cmd.Flags())
		},
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newQueryCmd())

	return rootCmd
}

// applyEnvFlags fills flags that were not set on the command line from
// SQLCANVAS_* environment variables. Precedence: flag > env > default.
func applyEnvFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		envName := "SQLCANVAS_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(envName); ok {
			if setErr := flags.Set(f.Name, v); setErr != nil {
				err = fmt.Errorf("invalid value for %s: %w", envName, setErr)
			}
		}
	})
	return err
}
