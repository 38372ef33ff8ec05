package grammar

import "github.com/slrgen/slrgen/grammar/symbol"

// Assoc is an operator's associativity.
type Assoc string

const (
	AssocNone  = Assoc("")
	AssocLeft  = Assoc("left")
	AssocRight = Assoc("right")
	AssocNon   = Assoc("nonassoc")
)

const PrecNone = 0

// OperatorTable records each terminal's precedence level (1 = lowest,
// higher numbers bind tighter) and associativity, read from the grammar's
// `operators` rows (lowest to highest precedence).
type OperatorTable struct {
	prec  map[symbol.ID]int
	assoc map[symbol.ID]Assoc
}

func NewOperatorTable() *OperatorTable {
	return &OperatorTable{
		prec:  map[symbol.ID]int{},
		assoc: map[symbol.ID]Assoc{},
	}
}

// Add records level/assoc for sym. Returns false if sym already has an
// operator entry (each terminal may appear in at most one operator row).
func (t *OperatorTable) Add(sym symbol.ID, level int, assoc Assoc) bool {
	if _, ok := t.prec[sym]; ok {
		return false
	}
	t.prec[sym] = level
	t.assoc[sym] = assoc
	return true
}

func (t *OperatorTable) Precedence(sym symbol.ID) int { return t.prec[sym] }

func (t *OperatorTable) Associativity(sym symbol.ID) Assoc { return t.assoc[sym] }

func (t *OperatorTable) HasPrecedence(sym symbol.ID) bool {
	_, ok := t.prec[sym]
	return ok
}

// RulePrecedence resolves a rule's effective precedence: an explicit
// `{prec: <terminal>}` option wins; otherwise the rightmost RHS terminal
// present in the operator table is inherited; otherwise PrecNone (§4.2).
func RulePrecedence(rhs []symbol.ID, symTab *symbol.Table, ops *OperatorTable, explicit symbol.ID, hasExplicit bool) (int, Assoc) {
	if hasExplicit && ops.HasPrecedence(explicit) {
		return ops.Precedence(explicit), ops.Associativity(explicit)
	}
	for i := len(rhs) - 1; i >= 0; i-- {
		sym := rhs[i]
		if symTab.IsTerminal(sym) && ops.HasPrecedence(sym) {
			return ops.Precedence(sym), ops.Associativity(sym)
		}
	}
	return PrecNone, AssocNone
}
