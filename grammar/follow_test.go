package grammar

import (
	"testing"

	"github.com/slrgen/slrgen/grammar/symbol"
)

func followEntryNames(symTab *symbol.Table, e *followEntry) map[string]bool {
	out := map[string]bool{}
	for _, sym := range e.symbols.Values() {
		out[symTab.Name(sym.(symbol.ID))] = true
	}
	if e.end {
		out["$end"] = true
	}
	return out
}

func sameFollowNames(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// invariant 5: FOLLOW is a fixed point independent of rule visitation
// order — two independently computed runs over the same grammar agree.
func TestGenFollowSet_Deterministic(t *testing.T) {
	g := classicExprGrammar()
	fst1 := genFirstSet(g.Rules, g.Symbols)
	flw1 := genFollowSet(g.Rules, g.Symbols, fst1, g.Start)

	fst2 := genFirstSet(g.Rules, g.Symbols)
	flw2 := genFollowSet(g.Rules, g.Symbols, fst2, g.Start)

	for _, nt := range g.Symbols.Nonterminals() {
		n1 := followEntryNames(g.Symbols, flw1.of(nt))
		n2 := followEntryNames(g.Symbols, flw2.of(nt))
		if !sameFollowNames(n1, n2) {
			t.Fatalf("FOLLOW(%s) differs across runs: %v vs %v", g.Symbols.Name(nt), n1, n2)
		}
	}
}

// Known FOLLOW sets for the classic expression grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
//
// FOLLOW(E) = { +, ), $end }; FOLLOW(T) = { +, *, ), $end }; FOLLOW(F) = { +, *, ), $end }.
func TestGenFollowSet_ClassicExpression(t *testing.T) {
	g := classicExprGrammar()
	fst := genFirstSet(g.Rules, g.Symbols)
	flw := genFollowSet(g.Rules, g.Symbols, fst, g.Start)

	eID, _ := g.Symbols.Lookup("E")
	tID, _ := g.Symbols.Lookup("T")
	fID, _ := g.Symbols.Lookup("F")

	want := map[string]map[string]bool{
		"E": {"+": true, ")": true, "$end": true},
		"T": {"+": true, "*": true, ")": true, "$end": true},
		"F": {"+": true, "*": true, ")": true, "$end": true},
	}

	got := map[string]map[string]bool{
		"E": followEntryNames(g.Symbols, flw.of(eID)),
		"T": followEntryNames(g.Symbols, flw.of(tID)),
		"F": followEntryNames(g.Symbols, flw.of(fID)),
	}

	for name, w := range want {
		if !sameFollowNames(w, got[name]) {
			t.Fatalf("FOLLOW(%s) = %v, want %v", name, got[name], w)
		}
	}
}
