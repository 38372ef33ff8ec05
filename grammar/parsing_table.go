package grammar

import (
	"github.com/slrgen/slrgen/grammar/symbol"
)

// ConflictCategory classifies a shift/reduce or reduce/reduce decision
// that was forced (§4.6.1 "bydefault") rather than resolved cleanly by an
// unambiguous precedence/associativity comparison.
type ConflictCategory int

const (
	CategoryEmptyOptional ConflictCategory = iota
	CategoryPassthrough
	CategoryPrecedence
	CategoryReduceReduce
	CategoryAmbiguous
)

func (c ConflictCategory) String() string {
	switch c {
	case CategoryEmptyOptional:
		return "empty-optional"
	case CategoryPassthrough:
		return "passthrough"
	case CategoryPrecedence:
		return "precedence"
	case CategoryReduceReduce:
		return "reduce-reduce"
	default:
		return "ambiguous"
	}
}

// Conflict is a diagnostic record of a forced action-table decision.
type Conflict struct {
	State      int
	Terminal   symbol.ID
	Rule       RuleID
	HasShift   bool // true when the offending action was a shift
	ShiftState int  // meaningful only when HasShift is true
	Category   ConflictCategory
	Counted    bool // only reduce-reduce and ambiguous count toward the conflict total (§4.6.2)
}

// ActionKind tags a parse-table action-row entry.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
	ActionError // nonassoc poison entry: encountering this terminal here is a parse error
)

type ActionEntry struct {
	Kind   ActionKind
	Target int // state id for ActionShift, rule id for ActionReduce
}

// ParseTable is the constructed SLR(1) parse table: dense action rows per
// state over terminals, and goto rows per state over nonterminals.
type ParseTable struct {
	StateCount   int
	Terminals    []symbol.ID // dense terminal ids, index == column
	NonTerminals []symbol.ID // dense nonterminal ids, index == column
	termCol      map[symbol.ID]int
	ntCol        map[symbol.ID]int
	Action       []ActionEntry // state*len(Terminals) + termCol[t]
	Goto         []int         // state*len(NonTerminals) + ntCol[nt]; -1 means no entry
	Default      []int         // per state: rule id of the default reduce, or -1
	Conflicts    []*Conflict
	ErrorTrapper []bool // per state
}

func (t *ParseTable) actionIndex(state int, term symbol.ID) int {
	return state*len(t.Terminals) + t.termCol[term]
}

func (t *ParseTable) gotoIndex(state int, nt symbol.ID) int {
	return state*len(t.NonTerminals) + t.ntCol[nt]
}

func (t *ParseTable) GetAction(state int, term symbol.ID) ActionEntry {
	return t.Action[t.actionIndex(state, term)]
}

func (t *ParseTable) GetGoto(state int, nt symbol.ID) int {
	return t.Goto[t.gotoIndex(state, nt)]
}

// BuildParseTable constructs the parse table for automaton a (§4.6).
func BuildParseTable(a *Automaton, symTab *symbol.Table, ops *OperatorTable) *ParseTable {
	t := &ParseTable{
		StateCount:   len(a.States),
		Terminals:    symTab.Terminals(),
		NonTerminals: symTab.Nonterminals(),
		termCol:      map[symbol.ID]int{},
		ntCol:        map[symbol.ID]int{},
		ErrorTrapper: make([]bool, len(a.States)),
	}
	for i, s := range t.Terminals {
		t.termCol[s] = i
	}
	for i, s := range t.NonTerminals {
		t.ntCol[s] = i
	}
	t.Action = make([]ActionEntry, t.StateCount*len(t.Terminals))
	t.Goto = make([]int, t.StateCount*len(t.NonTerminals))
	for i := range t.Goto {
		t.Goto[i] = -1
	}
	t.Default = make([]int, t.StateCount)
	for i := range t.Default {
		t.Default[i] = -1
	}

	for _, s := range a.States {
		t.ErrorTrapper[s.ID] = s.IsErrorTrap

		// 1. Transitions: shift for terminals, goto for nonterminals.
		for sym, target := range s.Transitions {
			if symTab.IsTerminal(sym) {
				t.Action[t.actionIndex(s.ID, sym)] = ActionEntry{Kind: ActionShift, Target: target}
			} else {
				t.Goto[t.gotoIndex(s.ID, sym)] = target
			}
		}

		// 2. Accept: the accept rule's `start . $end` item.
		for _, it := range s.Items {
			if sym, ok := it.NextSymbol(); ok && sym == symbol.End && it.Rule.ID == AcceptRuleID {
				t.Action[t.actionIndex(s.ID, symbol.End)] = ActionEntry{Kind: ActionAccept}
			}
		}

		// 3. Reductions.
		for _, it := range s.Reductions {
			if it.Rule.ID == AcceptRuleID {
				continue // handled by the accept scan above
			}
			for term := range it.LookAhead {
				t.applyReduce(s.ID, term, it.Rule, ops, symTab)
			}
		}
	}

	t.computeDefaults()
	return t
}

func (t *ParseTable) applyReduce(state int, term symbol.ID, r *Rule, ops *OperatorTable, symTab *symbol.Table) {
	idx := t.actionIndex(state, term)
	existing := t.Action[idx]

	if existing.Kind == ActionNone {
		t.Action[idx] = ActionEntry{Kind: ActionReduce, Target: int(r.ID)}
		return
	}

	winner, byDefault := resolveConflict(existing, r, term, ops)
	if byDefault {
		t.recordConflict(state, term, existing, r, symTab)
	}
	t.Action[idx] = winner
}

// resolveConflict implements §4.6.1.
func resolveConflict(existing ActionEntry, r *Rule, term symbol.ID, ops *OperatorTable) (ActionEntry, bool) {
	if existing.Kind == ActionReduce {
		// Reduce/reduce: lower rule id wins; bydefault unless ids are equal.
		existingID := RuleID(existing.Target)
		if r.ID < existingID {
			return ActionEntry{Kind: ActionReduce, Target: int(r.ID)}, true
		}
		return existing, existingID != r.ID
	}

	// Shift/reduce.
	hasOp := ops.HasPrecedence(term)
	if r.Precedence == PrecNone || !hasOp {
		return existing, true // prefer shift, bydefault
	}
	opPrec := ops.Precedence(term)
	switch {
	case r.Precedence < opPrec:
		return existing, false // shift, resolved cleanly by precedence
	case r.Precedence > opPrec:
		return ActionEntry{Kind: ActionReduce, Target: int(r.ID)}, false // reduce, resolved cleanly
	default:
		switch ops.Associativity(term) {
		case AssocRight:
			return existing, false
		case AssocLeft:
			return ActionEntry{Kind: ActionReduce, Target: int(r.ID)}, false
		case AssocNon:
			return ActionEntry{Kind: ActionError}, false
		default:
			return existing, true // no associativity recorded, forced default to shift
		}
	}
}

func (t *ParseTable) recordConflict(state int, term symbol.ID, existing ActionEntry, r *Rule, symTab *symbol.Table) {
	c := &Conflict{State: state, Terminal: term, Rule: r.ID}
	if existing.Kind == ActionShift {
		c.HasShift = true
		c.ShiftState = existing.Target
	}
	c.Category = categorize(existing, r, symTab)
	c.Counted = c.Category == CategoryReduceReduce || c.Category == CategoryAmbiguous
	t.Conflicts = append(t.Conflicts, c)
}

// categorize implements §4.6.2.
func categorize(existing ActionEntry, r *Rule, symTab *symbol.Table) ConflictCategory {
	switch {
	case r.IsEmpty():
		return CategoryEmptyOptional
	case len(r.RHS) == 1 && !symTab.IsTerminal(r.RHS[0]):
		return CategoryPassthrough
	case r.Precedence != PrecNone:
		return CategoryPrecedence
	case existing.Kind == ActionReduce:
		return CategoryReduceReduce
	default:
		return CategoryAmbiguous
	}
}

// computeDefaults records, for each state whose action row consists
// entirely of reduces of one rule, that rule as the default action so the
// runtime can skip a token lookup (§4.6).
func (t *ParseTable) computeDefaults() {
	for s := 0; s < t.StateCount; s++ {
		rule := -2
		uniform := true
		any := false
		for c := 0; c < len(t.Terminals); c++ {
			e := t.Action[s*len(t.Terminals)+c]
			if e.Kind == ActionNone {
				continue
			}
			if e.Kind != ActionReduce {
				uniform = false
				break
			}
			any = true
			if rule == -2 {
				rule = e.Target
			} else if rule != e.Target {
				uniform = false
				break
			}
		}
		if uniform && any {
			t.Default[s] = rule
		}
	}
}

// ConflictCount returns the number of conflicts that count toward the
// diagnostic total (reduce-reduce and ambiguous only, §4.6.2).
func (t *ParseTable) ConflictCount() int {
	n := 0
	for _, c := range t.Conflicts {
		if c.Counted {
			n++
		}
	}
	return n
}
