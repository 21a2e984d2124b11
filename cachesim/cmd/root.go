// Package cmd provides the command-line interface for cachesim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "cachesim simulates a write-back set-associative cache.",
	Long: `cachesim simulates a write-back set-associative cache in front ` +
		`of an ideal memory. It drives the cache with a workload, checks ` +
		`every read against the data written before, and reports the ` +
		`cache statistics.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The process always leaves through atexit so that the
// recorders are flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
