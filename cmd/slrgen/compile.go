package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	verr "github.com/slrgen/slrgen/error"
	"github.com/slrgen/slrgen/grammar"
	"github.com/slrgen/slrgen/specdata"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into a parsing table",
		Example: `  slrgen compile grammar.json -o grammar-table.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	srcName := "stdin"
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		srcName = args[0]
		f, err := os.Open(srcName)
		if err != nil {
			return verr.Wrap(srcName, err)
		}
		defer f.Close()
		r = f
	}

	src, err := grammar.LoadSource(r)
	if err != nil {
		return verr.Wrap(srcName, err)
	}

	g, err := grammar.Compile(src)
	if err != nil {
		return verr.Wrap(srcName, err)
	}

	name := gramName(srcName)
	spec := specdata.BuildSyntacticSpec(g)
	report := specdata.BuildReport(name, g)

	if err := writeSpecAndReport(name, spec, report, *compileFlags.output); err != nil {
		return fmt.Errorf("cannot write output files: %w", err)
	}

	printSummary(name, spec, report)
	return nil
}

func gramName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	if name == "" || name == "stdin" {
		return "grammar"
	}
	return name
}

func printSummary(name string, spec *specdata.SyntacticSpec, report *specdata.Report) {
	pterm.DefaultSection.Println(name)
	pterm.DefaultTable.WithData(pterm.TableData{
		{"terminals", fmt.Sprint(spec.TerminalCount)},
		{"non-terminals", fmt.Sprint(spec.NonTerminalCount)},
		{"rules", fmt.Sprint(len(report.Productions))},
		{"states", fmt.Sprint(spec.StateCount)},
		{"conflicts", fmt.Sprint(report.ConflictCount)},
	}).Render()

	if report.ConflictCount > 0 {
		pterm.Warning.Printfln("%d conflict(s) detected; see the report's \"conflicts\" entries", report.ConflictCount)
	} else {
		pterm.Success.Println("no conflicts")
	}
}

// writeSpecAndReport writes the compiled table to path (stdout when path is
// empty, <name>.json inside path when path is a directory) and
// <name>-report.json alongside it (in the working directory when path is
// empty).
func writeSpecAndReport(name string, spec *specdata.SyntacticSpec, report *specdata.Report, path string) error {
	specPath, reportPath, err := outputPaths(name, path)
	if err != nil {
		return err
	}

	if err := writeJSON(specPath, spec, os.Stdout); err != nil {
		return err
	}
	return writeJSON(reportPath, report, nil)
}

func writeJSON(path string, v interface{}, fallback io.Writer) error {
	var w io.Writer
	if path == "" {
		if fallback == nil {
			return nil
		}
		w = fallback
	} else {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func outputPaths(name, path string) (specPath, reportPath string, err error) {
	reportFileName := name + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return "", "", statErr
	}
	if os.IsNotExist(statErr) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}
	return filepath.Join(path, name+".json"), filepath.Join(path, reportFileName), nil
}
