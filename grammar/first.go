package grammar

import (
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/slrgen/slrgen/grammar/symbol"
)

// firstEntry is FIRST(X) for a single nonterminal X: the set of terminals
// that can begin a string derived from X, plus a flag recording whether X
// can derive the empty string.
type firstEntry struct {
	symbols *hashset.Set
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{symbols: hashset.New()}
}

func (e *firstEntry) add(sym symbol.ID) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *firstEntry) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

func (e *firstEntry) mergeExceptEmpty(o *firstEntry) bool {
	changed := false
	for _, sym := range o.symbols.Values() {
		if e.add(sym.(symbol.ID)) {
			changed = true
		}
	}
	return changed
}

// firstSet is FIRST for every nonterminal in a grammar.
type firstSet struct {
	set map[symbol.ID]*firstEntry
}

func newFirstSet(rt *RuleTable) *firstSet {
	fst := &firstSet{set: map[symbol.ID]*firstEntry{}}
	for _, r := range rt.All() {
		if _, ok := fst.set[r.LHS]; !ok {
			fst.set[r.LHS] = newFirstEntry()
		}
	}
	return fst
}

func (fst *firstSet) of(sym symbol.ID) *firstEntry { return fst.set[sym] }

// suffix computes FIRST of the RHS suffix rhs[from:], accumulating the
// FIRST sets of leading nullable symbols and stopping at the first
// non-nullable one.
func (fst *firstSet) suffix(symTab *symbol.Table, rhs []symbol.ID, from int) *firstEntry {
	entry := newFirstEntry()
	if from >= len(rhs) {
		entry.addEmpty()
		return entry
	}
	for _, sym := range rhs[from:] {
		if symTab.IsTerminal(sym) {
			entry.add(sym)
			return entry
		}
		e := fst.of(sym)
		for _, s := range e.symbols.Values() {
			entry.add(s.(symbol.ID))
		}
		if !e.empty {
			return entry
		}
	}
	entry.addEmpty()
	return entry
}

// genFirstSet computes NULLABLE/FIRST by repeat-until-stable fixed-point
// iteration over the rule list (§4.5, §9: the simple scheme is correct and
// acceptable at typical grammar sizes).
func genFirstSet(rt *RuleTable, symTab *symbol.Table) *firstSet {
	fst := newFirstSet(rt)
	for {
		changed := false
		for _, r := range rt.All() {
			acc := fst.of(r.LHS)
			if ruleFirstUpdate(acc, r, fst, symTab) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return fst
}

func ruleFirstUpdate(acc *firstEntry, r *Rule, fst *firstSet, symTab *symbol.Table) bool {
	if r.IsEmpty() {
		return acc.addEmpty()
	}
	changed := false
	for _, sym := range r.RHS {
		if symTab.IsTerminal(sym) {
			if acc.add(sym) {
				changed = true
			}
			return changed
		}
		e := fst.of(sym)
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed
		}
	}
	if acc.addEmpty() {
		changed = true
	}
	return changed
}
