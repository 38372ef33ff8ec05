package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	verr "github.com/slrgen/slrgen/error"
	"github.com/slrgen/slrgen/emit"
	"github.com/slrgen/slrgen/grammar"
)

var generateFlags = struct {
	pkgName *string
}{}

var generateCmd = &cobra.Command{
	Use:           "slrgen-go",
	Short:         "Generate a Go parser from a grammar",
	Long:          `slrgen-go compiles a grammar and emits a self-contained Go source file.`,
	Example:       `  slrgen-go grammar.json`,
	Args:          cobra.ExactArgs(1),
	RunE:          runGenerate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	generateFlags.pkgName = generateCmd.Flags().StringP("package", "p", "main", "package name")
}

func Execute() error {
	return generateCmd.Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gramPath := args[0]
	f, err := os.Open(gramPath)
	if err != nil {
		return verr.Wrap(gramPath, err)
	}
	defer f.Close()

	src, err := grammar.LoadSource(f)
	if err != nil {
		return verr.Wrap(gramPath, err)
	}

	g, err := grammar.Compile(src)
	if err != nil {
		return verr.Wrap(gramPath, err)
	}

	name := gramName(gramPath)
	b, err := emit.Generate(name, src, g, emit.Options{PackageName: *generateFlags.pkgName})
	if err != nil {
		return fmt.Errorf("failed to generate a parser: %w", err)
	}

	outPath := fmt.Sprintf("%s_parser.go", name)
	if err := os.WriteFile(outPath, b, 0644); err != nil {
		return fmt.Errorf("failed to write parser source code: %w", err)
	}
	return nil
}

func gramName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	if name == "" {
		return "grammar"
	}
	return name
}
