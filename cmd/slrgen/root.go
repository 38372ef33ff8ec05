package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slrgen",
	Short: "Generate a portable SLR(1) parsing table from a grammar",
	Long: `slrgen compiles an in-memory grammar (given as JSON) into an SLR(1)
parsing table:
- Reports token/rule/state/conflict statistics.
- Dumps the grammar and automaton in human-readable form.
- Emits a compiled table for consumption by a runtime driver.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
