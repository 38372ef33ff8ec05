package grammar

import "github.com/slrgen/slrgen/grammar/symbol"

// assignSLR1LookAheads attaches FOLLOW(LHS) to every reducible item of
// every state: the defining SLR(1) discipline (as opposed to LALR(1),
// which would compute a lookahead per item context rather than per LHS).
func assignSLR1LookAheads(a *Automaton, flw *followSet) {
	for _, s := range a.States {
		for _, it := range s.Reductions {
			e := flw.of(it.Rule.LHS)
			la := make(map[symbol.ID]struct{}, e.symbols.Size()+1)
			for _, sym := range e.symbols.Values() {
				la[sym.(symbol.ID)] = struct{}{}
			}
			if e.end {
				la[symbol.End] = struct{}{}
			}
			it.LookAhead = la
		}
	}
}
