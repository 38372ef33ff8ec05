package grammar

import (
	"sort"

	"github.com/slrgen/slrgen/grammar/symbol"
)

// Automaton is the canonical LR(0) automaton: a dense array of States plus
// the id of the initial state (always 0).
type Automaton struct {
	States  []*State
	Initial int
}

// BuildLR0 constructs the canonical LR(0) automaton for rt, starting from
// the accept rule's item `$accept -> . start $end`. States are discovered
// lazily; a successor whose kernel signature has already been seen reuses
// the existing state id instead of being rebuilt (the central performance
// optimization of the algorithm).
func BuildLR0(rt *RuleTable, symTab *symbol.Table, errSym symbol.ID) *Automaton {
	a := &Automaton{}

	seen := map[string]int{}
	var pending []*State

	start := newState(rt.ByID(AcceptRuleID), rt, symTab, errSym)
	seen[start.Signature] = 0
	a.States = append(a.States, start)
	pending = append(pending, start)

	for len(pending) > 0 {
		var next []*State
		for _, s := range pending {
			for _, sym := range sortedNextSymbols(s.Items) {
				kernelItems := gotoKernel(s.Items, sym)
				sig := kernelSignature(kernelItems)
				if id, ok := seen[sig]; ok {
					s.Transitions[sym] = id
					continue
				}
				ns := closeState(kernelItems, rt, symTab, errSym, sig)
				ns.ID = len(a.States)
				seen[sig] = ns.ID
				s.Transitions[sym] = ns.ID
				a.States = append(a.States, ns)
				next = append(next, ns)
			}
		}
		pending = next
	}

	return a
}

func newState(acceptRule *Rule, rt *RuleTable, symTab *symbol.Table, errSym symbol.ID) *State {
	kernel := []*Item{newItem(acceptRule, 0)}
	return closeState(kernel, rt, symTab, errSym, kernelSignature(kernel))
}

func closeState(kernel []*Item, rt *RuleTable, symTab *symbol.Table, errSym symbol.ID, sig string) *State {
	items := closure(kernel, rt, symTab)
	s := &State{
		Kernel:      kernel,
		Items:       items,
		Transitions: map[symbol.ID]int{},
		Signature:   sig,
	}
	for _, it := range items {
		if it.Reducible {
			s.Reductions = append(s.Reductions, it)
		}
		if sym, ok := it.NextSymbol(); ok && sym == errSym {
			s.IsErrorTrap = true
		}
	}
	return s
}

// closure expands a kernel by predicting through every nonterminal at the
// dot until no new item core is discovered.
func closure(kernel []*Item, rt *RuleTable, symTab *symbol.Table) []*Item {
	known := map[string]struct{}{}
	items := make([]*Item, 0, len(kernel))
	for _, it := range kernel {
		known[it.core()] = struct{}{}
		items = append(items, it)
	}

	worklist := append([]*Item{}, kernel...)
	for len(worklist) > 0 {
		var next []*Item
		for _, it := range worklist {
			sym, ok := it.NextSymbol()
			if !ok || symTab.IsTerminal(sym) {
				continue
			}
			for _, r := range rt.ByLHS(sym) {
				cand := newItem(r, 0)
				if _, dup := known[cand.core()]; dup {
					continue
				}
				known[cand.core()] = struct{}{}
				items = append(items, cand)
				next = append(next, cand)
			}
		}
		worklist = next
	}
	return items
}

// gotoKernel produces the successor kernel reached from items by consuming
// symbol sym: every item with sym at the dot advances one position.
func gotoKernel(items []*Item, sym symbol.ID) []*Item {
	var out []*Item
	for _, it := range items {
		if next, ok := it.NextSymbol(); ok && next == sym {
			out = append(out, newItem(it.Rule, it.Dot+1))
		}
	}
	return out
}

func sortedNextSymbols(items []*Item) []symbol.ID {
	set := map[symbol.ID]struct{}{}
	for _, it := range items {
		if sym, ok := it.NextSymbol(); ok {
			set[sym] = struct{}{}
		}
	}
	syms := make([]symbol.ID, 0, len(set))
	for sym := range set {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
