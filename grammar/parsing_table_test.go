package grammar

import (
	"testing"

	"github.com/slrgen/slrgen/grammar/symbol"
)

func compileSource(t *testing.T, src *Source) *Grammar {
	t.Helper()
	g, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return g
}

// invariant 1: rule and state ids are dense, starting at their reserved
// base (0 for both the accept rule and the initial state).
func TestParseTable_DenseIDs(t *testing.T) {
	g := compileSource(t, &Source{
		Grammar: []NonterminalDef{
			{Name: "S", Alternatives: []Alternative{{Pattern: "a S"}, {Pattern: "a"}}},
		},
	})

	for i, r := range g.Rules.All() {
		if int(r.ID) != i {
			t.Fatalf("rule at index %d has id %d, want dense id %d", i, r.ID, i)
		}
	}
	for i, s := range g.Automaton.States {
		if s.ID != i {
			t.Fatalf("state at index %d has id %d, want dense id %d", i, s.ID, i)
		}
	}
}

// invariant 6: whenever the installed action for a (state, terminal) pair
// is a reduce, that terminal is a member of FOLLOW(rule.LHS) — SLR(1)
// never installs a reduce outside its rule's FOLLOW set, even though a
// shift/reduce conflict may still let a competing shift win that slot.
func TestParseTable_ReducesAreFollowGated(t *testing.T) {
	g := compileSource(t, &Source{
		Grammar: []NonterminalDef{
			{Name: "E", Alternatives: []Alternative{{Pattern: "E + T"}, {Pattern: "T"}}},
			{Name: "T", Alternatives: []Alternative{{Pattern: "T * F"}, {Pattern: "F"}}},
			{Name: "F", Alternatives: []Alternative{{Pattern: "( E )"}, {Pattern: "id"}}},
		},
	})

	for s := 0; s < g.ParseTable.StateCount; s++ {
		for _, term := range g.ParseTable.Terminals {
			act := g.ParseTable.GetAction(s, term)
			if act.Kind != ActionReduce {
				continue
			}
			r := g.Rules.ByID(RuleID(act.Target))
			if r.ID == AcceptRuleID {
				continue
			}
			follow := g.Follow.of(r.LHS)
			inFollow := follow.symbols.Contains(term) || (term == symbol.End && follow.end)
			if !inFollow {
				t.Fatalf("state %d: reduce of rule %d installed on terminal %s, which is not in FOLLOW(%s)",
					s, r.ID, g.Symbols.Name(term), g.Symbols.Name(r.LHS))
			}
		}
	}
}

// $end is never a shift target: the only legal action on $end is accept
// (in the initial state's successor) or a reduce/error, never a shift.
func TestParseTable_EndNeverShifted(t *testing.T) {
	g := compileSource(t, &Source{
		Grammar: []NonterminalDef{
			{Name: "S", Alternatives: []Alternative{{Pattern: "a"}}},
		},
	})
	for s := 0; s < g.ParseTable.StateCount; s++ {
		if act := g.ParseTable.GetAction(s, symbol.End); act.Kind == ActionShift {
			t.Fatalf("state %d: $end has a shift action, want accept/reduce/none", s)
		}
	}
}

// A `nonassoc` operator produces an explicit ActionError poison entry on
// the tying terminal rather than defaulting to shift or reduce.
func TestParseTable_NonassocProducesErrorEntry(t *testing.T) {
	g := compileSource(t, &Source{
		Grammar: []NonterminalDef{
			{Name: "E", Alternatives: []Alternative{
				{Pattern: "NUMBER"},
				{Pattern: "E == E", Action: `["==",1,3]`},
			}},
		},
		Operators: []OperatorRow{
			{Assoc: AssocNon, Tokens: []string{"=="}},
		},
	})

	eqID, ok := g.Symbols.Lookup("==")
	if !ok {
		t.Fatal("== not interned")
	}
	found := false
	for s := 0; s < g.ParseTable.StateCount; s++ {
		if g.ParseTable.GetAction(s, eqID).Kind == ActionError {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one ActionError entry on '==' from the nonassoc tie")
	}
}

// An empty-RHS rule reduces with a zero-length handle; its automaton item
// is immediately reducible in the state that predicts it.
func TestParseTable_EpsilonRuleReducesImmediately(t *testing.T) {
	g := compileSource(t, &Source{
		Grammar: []NonterminalDef{
			{Name: "List", Alternatives: []Alternative{
				{Pattern: ""},
				{Pattern: "List ITEM", Action: `[...1,2]`},
			}},
		},
	})

	var epsilonRule *Rule
	for _, r := range g.Rules.All() {
		if r.LHS == g.Start && r.IsEmpty() {
			epsilonRule = r
		}
	}
	if epsilonRule == nil {
		t.Fatal("epsilon rule not found")
	}

	found := false
	for _, s := range g.Automaton.States {
		for _, it := range s.Reductions {
			if it.Rule.ID == epsilonRule.ID && it.Dot == 0 {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("epsilon rule's item never appears as an immediately-reducible dot-0 item")
	}
}

// An empty grammar (no productions at all) is a structural error caught
// at build time, not a panic or a silently-empty table.
func TestGrammarBuilder_EmptyGrammarIsAnError(t *testing.T) {
	b := &GrammarBuilder{Source: &Source{}}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected an error building an empty grammar")
	}
}

// Reduce/reduce ties resolve to the lower rule id and are recorded as a
// counted conflict.
func TestParseTable_ReduceReduceLowerIDWins(t *testing.T) {
	g := compileSource(t, &Source{
		Grammar: []NonterminalDef{
			{Name: "S", Alternatives: []Alternative{{Pattern: "A"}, {Pattern: "B"}}},
			{Name: "A", Alternatives: []Alternative{{Pattern: "id"}}},
			{Name: "B", Alternatives: []Alternative{{Pattern: "id"}}},
		},
	})
	if g.ParseTable.ConflictCount() == 0 {
		t.Fatal("expected a reduce/reduce conflict between A -> id and B -> id")
	}

	var aRule, bRule *Rule
	for _, r := range g.Rules.All() {
		switch g.Symbols.Name(r.LHS) {
		case "A":
			aRule = r
		case "B":
			bRule = r
		}
	}
	if aRule == nil || bRule == nil {
		t.Fatal("could not locate A -> id / B -> id rules")
	}
	lower := aRule.ID
	if bRule.ID < lower {
		lower = bRule.ID
	}

	sawTie := false
	for s := 0; s < g.ParseTable.StateCount; s++ {
		for _, term := range g.ParseTable.Terminals {
			act := g.ParseTable.GetAction(s, term)
			if act.Kind != ActionReduce {
				continue
			}
			if RuleID(act.Target) == aRule.ID || RuleID(act.Target) == bRule.ID {
				sawTie = true
				if RuleID(act.Target) != lower {
					t.Fatalf("state %d, terminal %s: reduce/reduce tie resolved to rule %d, want the lower id %d",
						s, g.Symbols.Name(term), act.Target, lower)
				}
			}
		}
	}
	if !sawTie {
		t.Fatal("neither A -> id nor B -> id ever appears installed as a reduce action")
	}
}
