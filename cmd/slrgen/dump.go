package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	verr "github.com/slrgen/slrgen/error"
	"github.com/slrgen/slrgen/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:     "dump",
		Short:   "Dump a grammar as an s-expression",
		Example: `  slrgen dump grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDump,
	}
	rootCmd.AddCommand(cmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return verr.Wrap(args[0], err)
	}
	defer f.Close()

	src, err := grammar.LoadSource(f)
	if err != nil {
		return verr.Wrap(args[0], err)
	}

	fmt.Println(dumpSource(src))
	return nil
}

func dumpSource(src *grammar.Source) string {
	var b strings.Builder
	b.WriteString("(grammar")
	defs := src.Grammar
	if len(defs) == 0 {
		defs = src.BNF
	}
	for _, def := range defs {
		fmt.Fprintf(&b, "\n  (rule %s", def.Name)
		for _, alt := range def.Alternatives {
			fmt.Fprintf(&b, "\n    (alt %q", alt.Pattern)
			if alt.Action != nil {
				fmt.Fprintf(&b, " (action %v)", alt.Action)
			}
			if alt.PrecSymbol != "" {
				fmt.Fprintf(&b, " (prec %s)", alt.PrecSymbol)
			}
			b.WriteString(")")
		}
		b.WriteString(")")
	}
	if len(src.Operators) > 0 {
		b.WriteString("\n  (operators")
		for _, row := range src.Operators {
			fmt.Fprintf(&b, "\n    (%s %s)", row.Assoc, strings.Join(row.Tokens, " "))
		}
		b.WriteString(")")
	}
	if src.Start != "" {
		fmt.Fprintf(&b, "\n  (start %s)", src.Start)
	}
	b.WriteString(")")
	return b.String()
}
