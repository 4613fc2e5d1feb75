package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mergejoindemo",
	Short: "Run partial merge join scenarios against hand-built blocks",
	Long: `mergejoindemo exercises the merge join driver against small,
hand-built columnar blocks and prints the resulting rows.

It has no query planner, no storage backend, and no network server — it
exists to demonstrate the join core in isolation.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
