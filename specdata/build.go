package specdata

import (
	"github.com/slrgen/slrgen/grammar"
	"github.com/slrgen/slrgen/grammar/symbol"
)

// BuildSyntacticSpec projects g's parse table into the flat, JSON-shaped
// form an emitter or a foreign-language runtime consumes.
func BuildSyntacticSpec(g *grammar.Grammar) *SyntacticSpec {
	pt := g.ParseTable
	symTab := g.Symbols

	spec := &SyntacticSpec{
		StateCount:       pt.StateCount,
		InitialState:     0,
		StartProduction:  int(grammar.AcceptRuleID),
		TerminalCount:    len(pt.Terminals),
		NonTerminalCount: len(pt.NonTerminals),
		EOFSymbol:        int(symbol.End),
		ErrorSymbol:      int(symbol.Error),
		ParseParams:      g.ParseParams,
	}

	for _, id := range pt.Terminals {
		spec.Terminals = append(spec.Terminals, symTab.Name(id))
	}
	for _, id := range pt.NonTerminals {
		spec.NonTerminals = append(spec.NonTerminals, symTab.Name(id))
	}

	spec.Action = make([]int, pt.StateCount*len(pt.Terminals))
	for s := 0; s < pt.StateCount; s++ {
		for c, term := range pt.Terminals {
			e := pt.GetAction(s, term)
			spec.Action[s*len(pt.Terminals)+c] = EncodeAction(int(e.Kind), e.Target)
		}
	}
	spec.Goto = append(spec.Goto, pt.Goto...)
	spec.Default = append(spec.Default, pt.Default...)

	for s := 0; s < pt.StateCount; s++ {
		if pt.ErrorTrapper[s] {
			spec.ErrorTrapperStates = append(spec.ErrorTrapperStates, s)
		}
	}

	for _, r := range g.Rules.All() {
		spec.LHSSymbols = append(spec.LHSSymbols, int(r.LHS))
		rhs := make([]int, len(r.RHS))
		for i, sym := range r.RHS {
			rhs[i] = int(sym)
		}
		spec.RHSSymbols = append(spec.RHSSymbols, rhs)
		spec.Precedence = append(spec.Precedence, r.Precedence)
		spec.Associativity = append(spec.Associativity, string(r.Assoc))
	}

	return spec
}

// BuildReport projects g into a descriptive Report for CLI statistics and
// readable descriptions of the automaton.
func BuildReport(name string, g *grammar.Grammar) *Report {
	symTab := g.Symbols
	pt := g.ParseTable

	report := &Report{Name: name, ConflictCount: pt.ConflictCount()}

	for _, id := range symTab.Terminals() {
		report.Terminals = append(report.Terminals, &Terminal{
			Number:        int(id),
			Name:          symTab.Name(id),
			Precedence:    g.Operators.Precedence(id),
			Associativity: string(g.Operators.Associativity(id)),
		})
	}
	for _, id := range symTab.Nonterminals() {
		report.NonTerminals = append(report.NonTerminals, &NonTerminal{
			Number: int(id),
			Name:   symTab.Name(id),
		})
	}
	for _, r := range g.Rules.All() {
		rhs := make([]int, len(r.RHS))
		for i, sym := range r.RHS {
			rhs[i] = int(sym)
		}
		report.Productions = append(report.Productions, &Production{
			Number:        int(r.ID),
			LHS:           int(r.LHS),
			RHS:           rhs,
			Precedence:    r.Precedence,
			Associativity: string(r.Assoc),
		})
	}

	conflictsByState := map[int][]*Conflict{}
	for _, c := range pt.Conflicts {
		var shiftState *int
		if c.HasShift {
			ss := c.ShiftState
			shiftState = &ss
		}
		conflictsByState[c.State] = append(conflictsByState[c.State], &Conflict{
			Symbol:     int(c.Terminal),
			State:      c.State,
			Production: int(c.Rule),
			ShiftState: shiftState,
			Category:   c.Category.String(),
			Counted:    c.Counted,
		})
	}

	for _, st := range g.Automaton.States {
		s := &State{Number: st.ID, ErrorTrap: st.IsErrorTrap}
		for _, it := range st.Kernel {
			s.Kernel = append(s.Kernel, &Item{Production: int(it.Rule.ID), Dot: it.Dot})
		}
		for sym, target := range st.Transitions {
			tr := &Transition{Symbol: int(sym), State: target}
			if symTab.IsTerminal(sym) {
				s.Shift = append(s.Shift, tr)
			} else {
				s.GoTo = append(s.GoTo, tr)
			}
		}
		for _, it := range st.Reductions {
			var la []int
			for t := range it.LookAhead {
				la = append(la, int(t))
			}
			s.Reduce = append(s.Reduce, &Reduce{LookAhead: la, Production: int(it.Rule.ID)})
		}
		s.Conflicts = conflictsByState[st.ID]
		report.States = append(report.States, s)
	}

	return report
}
