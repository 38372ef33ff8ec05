package grammar

import (
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/slrgen/slrgen/grammar/symbol"
)

// followEntry is FOLLOW(X) for a single nonterminal X: terminals that can
// immediately follow X in some derivation, plus a flag for $end.
type followEntry struct {
	symbols *hashset.Set
	end     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{symbols: hashset.New()}
}

func (e *followEntry) add(sym symbol.ID) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *followEntry) addEnd() bool {
	if e.end {
		return false
	}
	e.end = true
	return true
}

func (e *followEntry) merge(f *firstEntry, o *followEntry) bool {
	changed := false
	if f != nil {
		for _, sym := range f.symbols.Values() {
			if e.add(sym.(symbol.ID)) {
				changed = true
			}
		}
	}
	if o != nil {
		for _, sym := range o.symbols.Values() {
			if e.add(sym.(symbol.ID)) {
				changed = true
			}
		}
		if o.end && e.addEnd() {
			changed = true
		}
	}
	return changed
}

type followSet struct {
	set map[symbol.ID]*followEntry
}

func (flw *followSet) of(sym symbol.ID) *followEntry { return flw.set[sym] }

// genFollowSet computes FOLLOW by repeat-until-stable fixed-point
// iteration (§4.5): FOLLOW(start) seeds with $end, and for every rule
// `A -> α X β`, FIRST(β) flows into FOLLOW(X), with FOLLOW(A) also flowing
// in whenever β is nullable (including β = ε).
func genFollowSet(rt *RuleTable, symTab *symbol.Table, fst *firstSet, start symbol.ID) *followSet {
	flw := &followSet{set: map[symbol.ID]*followEntry{}}
	for _, nt := range symTab.Nonterminals() {
		flw.set[nt] = newFollowEntry()
	}

	for {
		changed := false
		if flw.of(start).addEnd() {
			changed = true
		}
		for _, r := range rt.All() {
			for i, sym := range r.RHS {
				if symTab.IsTerminal(sym) {
					continue
				}
				e := flw.of(sym)
				suffix := fst.suffix(symTab, r.RHS, i+1)
				if e.merge(suffix, nil) {
					changed = true
				}
				if suffix.empty {
					if e.merge(nil, flw.of(r.LHS)) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return flw
}
