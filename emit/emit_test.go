package emit

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"testing"

	"github.com/slrgen/slrgen/grammar"
	"github.com/slrgen/slrgen/specdata"
)

func exprSource() *grammar.Source {
	return &grammar.Source{
		Grammar: []grammar.NonterminalDef{
			{Name: "Expression", Alternatives: []grammar.Alternative{
				{Pattern: "NUMBER"},
				{Pattern: "Expression + Expression", Action: `["+",1,3]`},
			}},
		},
		Operators: []grammar.OperatorRow{
			{Assoc: grammar.AssocLeft, Tokens: []string{"+"}},
		},
	}
}

// TestGenerate_SpecRoundTrips parses the emitted <Prefix>Spec composite
// literal back into a specdata.SyntacticSpec and checks it matches
// specdata.BuildSyntacticSpec(g) field for field. Guards against the
// template silently zero-initializing a SyntacticSpec field it forgot to
// render (Go accepts a struct literal that only sets some fields with no
// compile error).
func TestGenerate_SpecRoundTrips(t *testing.T) {
	src := exprSource()
	g, err := grammar.Compile(src)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Generate("expr", src, g, Options{PackageName: "expr", Prefix: "Expr"})
	if err != nil {
		t.Fatal(err)
	}

	got := parseSpecLiteral(t, out, "ExprSpec")
	want := specdata.BuildSyntacticSpec(g)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("emitted spec does not round-trip:\ngot  %+v\nwant %+v", got, want)
	}
}

// parseSpecLiteral parses generated Go source and rebuilds the
// specdata.SyntacticSpec that varName's `&specdata.SyntacticSpec{...}`
// literal describes, field by field. An unrecognized field name is a
// template/test skew and fails loudly rather than being ignored.
func parseSpecLiteral(t *testing.T, src []byte, varName string) *specdata.SyntacticSpec {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "generated.go", src, 0)
	if err != nil {
		t.Fatalf("parse generated source: %v", err)
	}

	var lit *ast.CompositeLit
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok || len(vs.Names) != 1 || vs.Names[0].Name != varName {
				continue
			}
			unary, ok := vs.Values[0].(*ast.UnaryExpr)
			if !ok || unary.Op != token.AND {
				t.Fatalf("%s is not a &T{...} literal", varName)
			}
			cl, ok := unary.X.(*ast.CompositeLit)
			if !ok {
				t.Fatalf("%s is not a composite literal", varName)
			}
			lit = cl
		}
	}
	if lit == nil {
		t.Fatalf("var %s not found in generated source", varName)
	}

	spec := &specdata.SyntacticSpec{}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			t.Fatalf("expected key-value field, got %T", elt)
		}
		name := kv.Key.(*ast.Ident).Name
		switch name {
		case "Action":
			spec.Action = astIntSlice(t, kv.Value)
		case "Goto":
			spec.Goto = astIntSlice(t, kv.Value)
		case "Default":
			spec.Default = astIntSlice(t, kv.Value)
		case "StateCount":
			spec.StateCount = astInt(t, kv.Value)
		case "InitialState":
			spec.InitialState = astInt(t, kv.Value)
		case "StartProduction":
			spec.StartProduction = astInt(t, kv.Value)
		case "LHSSymbols":
			spec.LHSSymbols = astIntSlice(t, kv.Value)
		case "RHSSymbols":
			spec.RHSSymbols = astIntSliceSlice(t, kv.Value)
		case "Precedence":
			spec.Precedence = astIntSlice(t, kv.Value)
		case "Associativity":
			spec.Associativity = astStringSlice(t, kv.Value)
		case "Terminals":
			spec.Terminals = astStringSlice(t, kv.Value)
		case "TerminalCount":
			spec.TerminalCount = astInt(t, kv.Value)
		case "NonTerminals":
			spec.NonTerminals = astStringSlice(t, kv.Value)
		case "NonTerminalCount":
			spec.NonTerminalCount = astInt(t, kv.Value)
		case "EOFSymbol":
			spec.EOFSymbol = astInt(t, kv.Value)
		case "ErrorSymbol":
			spec.ErrorSymbol = astInt(t, kv.Value)
		case "ErrorTrapperStates":
			spec.ErrorTrapperStates = astIntSlice(t, kv.Value)
		case "ParseParams":
			spec.ParseParams = astStringSlice(t, kv.Value)
		default:
			t.Fatalf("unexpected field %q in emitted spec literal", name)
		}
	}
	return spec
}

func astInt(t *testing.T, e ast.Expr) int {
	t.Helper()
	switch v := e.(type) {
	case *ast.BasicLit:
		n, err := strconv.Atoi(v.Value)
		if err != nil {
			t.Fatal(err)
		}
		return n
	case *ast.UnaryExpr:
		if v.Op != token.SUB {
			t.Fatalf("unexpected unary operator %v on an int literal", v.Op)
		}
		return -astInt(t, v.X)
	default:
		t.Fatalf("expected an int literal, got %T", e)
		return 0
	}
}

func astIntSlice(t *testing.T, e ast.Expr) []int {
	t.Helper()
	cl, ok := e.(*ast.CompositeLit)
	if !ok {
		t.Fatalf("expected a []int composite literal, got %T", e)
	}
	var out []int
	for _, elt := range cl.Elts {
		out = append(out, astInt(t, elt))
	}
	return out
}

func astIntSliceSlice(t *testing.T, e ast.Expr) [][]int {
	t.Helper()
	cl, ok := e.(*ast.CompositeLit)
	if !ok {
		t.Fatalf("expected a [][]int composite literal, got %T", e)
	}
	var out [][]int
	for _, elt := range cl.Elts {
		out = append(out, astIntSlice(t, elt))
	}
	return out
}

func astStringSlice(t *testing.T, e ast.Expr) []string {
	t.Helper()
	cl, ok := e.(*ast.CompositeLit)
	if !ok {
		t.Fatalf("expected a []string composite literal, got %T", e)
	}
	var out []string
	for _, elt := range cl.Elts {
		lit, ok := elt.(*ast.BasicLit)
		if !ok {
			t.Fatalf("expected a string literal, got %T", elt)
		}
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	return out
}
