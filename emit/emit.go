// Package emit renders a compiled grammar into a self-contained Go
// source file (§6 "Emitted parser surface", §9 "Emission").
//
// The emitter does not attempt to unparse a compiled action's IR back
// into inline Go statements — actions are already interpretable data
// (grammar.SexpNode), so the generated file embeds the grammar's JSON
// source and reconstructs the full *grammar.Grammar once at init,
// rather than duplicating the compiler's own tables as a second,
// divergent literal encoding. The parse table is additionally exported
// as specdata.SyntacticSpec, flat and JSON-shaped, for any consumer
// that only wants the table and not a Go runtime (§9 "the data it
// consumes ... is language-neutral JSON-ish").
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/slrgen/slrgen/grammar"
	"github.com/slrgen/slrgen/specdata"
)

// Options controls the generated file's package name and identifier
// prefix (the emitted names are <Prefix>Source, <Prefix>Spec,
// <Prefix>Grammar and New<Prefix>Parser).
type Options struct {
	PackageName string
	Prefix      string
}

// Generate renders g into a Go source file exposing New<Prefix>Parser,
// a constructor bound to g's compiled parse table and actions, plus the
// table itself as data.
func Generate(name string, src *grammar.Source, g *grammar.Grammar, opts Options) ([]byte, error) {
	if opts.PackageName == "" {
		opts.PackageName = "main"
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = strings.Title(name)
	}

	srcJSON, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("emit: marshal source: %w", err)
	}

	spec := specdata.BuildSyntacticSpec(g)

	data := struct {
		Package    string
		Prefix     string
		Name       string
		Spec       *specdata.SyntacticSpec
		SourceJSON string
	}{
		Package:    opts.PackageName,
		Prefix:     prefix,
		Name:       name,
		Spec:       spec,
		SourceJSON: string(srcJSON),
	}

	tmpl, err := template.New("parser").Funcs(template.FuncMap{
		"join":          joinInts,
		"joinStrs":      joinStrs,
		"joinIntSlices": joinIntSlices,
	}).Parse(parserTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func joinStrs(vs []string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(parts, ", ")
}

func joinIntSlices(vs [][]int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("[]int{%s}", joinInts(v))
	}
	return strings.Join(parts, ", ")
}

const parserTemplate = `// Code generated by slrgen. DO NOT EDIT.

package {{ .Package }}

import (
	"strings"

	"github.com/slrgen/slrgen/grammar"
	"github.com/slrgen/slrgen/runtime"
	"github.com/slrgen/slrgen/specdata"
)

// {{ .Prefix }}Source is the grammar {{ .Name }} was generated from.
const {{ .Prefix }}Source = ` + "`{{ .SourceJSON }}`" + `

var {{ .Prefix }}Spec = &specdata.SyntacticSpec{
	Action:             []int{ {{ join .Spec.Action }} },
	Goto:               []int{ {{ join .Spec.Goto }} },
	Default:            []int{ {{ join .Spec.Default }} },
	StateCount:         {{ .Spec.StateCount }},
	InitialState:       {{ .Spec.InitialState }},
	StartProduction:    {{ .Spec.StartProduction }},
	LHSSymbols:         []int{ {{ join .Spec.LHSSymbols }} },
	RHSSymbols:         [][]int{ {{ joinIntSlices .Spec.RHSSymbols }} },
	Precedence:         []int{ {{ join .Spec.Precedence }} },
	Associativity:      []string{ {{ joinStrs .Spec.Associativity }} },
	Terminals:          []string{ {{ joinStrs .Spec.Terminals }} },
	TerminalCount:      {{ .Spec.TerminalCount }},
	NonTerminals:       []string{ {{ joinStrs .Spec.NonTerminals }} },
	NonTerminalCount:   {{ .Spec.NonTerminalCount }},
	EOFSymbol:          {{ .Spec.EOFSymbol }},
	ErrorSymbol:        {{ .Spec.ErrorSymbol }},
	ErrorTrapperStates: []int{ {{ join .Spec.ErrorTrapperStates }} },
	ParseParams:        []string{ {{ joinStrs .Spec.ParseParams }} },
}

var {{ .Prefix }}Grammar = func() *grammar.Grammar {
	src, err := grammar.LoadSource(strings.NewReader({{ .Prefix }}Source))
	if err != nil {
		panic(err)
	}
	g, err := grammar.Compile(src)
	if err != nil {
		panic(err)
	}
	return g
}()

// New{{ .Prefix }}Parser builds a runtime.Parser bound to the {{ .Name }}
// grammar's compiled table and actions.
func New{{ .Prefix }}Parser(lex runtime.Lexer, opts ...runtime.Option) *runtime.Parser {
	return runtime.NewParser({{ .Prefix }}Grammar, lex, opts...)
}
`
