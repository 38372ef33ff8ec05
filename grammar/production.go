package grammar

import (
	"strings"

	"github.com/slrgen/slrgen/grammar/symbol"
)

// RuleID identifies a production. 0 is reserved for the synthesized accept
// rule `$accept -> start $end`; user rules start at 1 in declaration order.
type RuleID int

const AcceptRuleID = RuleID(0)

// Rule is a single production alternative.
type Rule struct {
	ID         RuleID
	LHS        symbol.ID
	RHS        []symbol.ID // empty for an epsilon alternative
	Precedence int         // 0 means unspecified
	Assoc      Assoc
	Action     *ActionBody
	Aliases    []string // inline `[alias]` names recovered from the pattern, position-indexed (parallel to RHS)
}

func (r *Rule) IsEmpty() bool { return len(r.RHS) == 0 }

// RuleTable owns every Rule and indexes them by LHS.
type RuleTable struct {
	rules   []*Rule
	byLHS   map[symbol.ID][]*Rule
	nextID  RuleID
	actions map[string]*ActionBody // dedup key -> canonical body
}

func NewRuleTable() *RuleTable {
	return &RuleTable{
		byLHS:   make(map[symbol.ID][]*Rule),
		nextID:  1,
		actions: make(map[string]*ActionBody),
	}
}

// Append assigns the next rule id, interns the (possibly shared) compiled
// action body, and records the rule under its LHS.
func (t *RuleTable) Append(lhs symbol.ID, rhs []symbol.ID, prec int, assoc Assoc, action *ActionBody, aliases []string) *Rule {
	if action != nil {
		key := action.CanonicalKey()
		if canon, ok := t.actions[key]; ok {
			action = canon
		} else {
			t.actions[key] = action
		}
	}
	r := &Rule{
		ID:         t.nextID,
		LHS:        lhs,
		RHS:        rhs,
		Precedence: prec,
		Assoc:      assoc,
		Action:     action,
		Aliases:    aliases,
	}
	t.nextID++
	t.rules = append(t.rules, r)
	t.byLHS[lhs] = append(t.byLHS[lhs], r)
	return r
}

// AppendAccept installs the synthesized `$accept -> start $end` rule at id 0.
func (t *RuleTable) AppendAccept(start symbol.ID) *Rule {
	r := &Rule{
		ID:  AcceptRuleID,
		LHS: symbol.Accept,
		RHS: []symbol.ID{start, symbol.End},
	}
	t.rules = append([]*Rule{r}, t.rules...)
	t.byLHS[symbol.Accept] = []*Rule{r}
	return r
}

func (t *RuleTable) ByID(id RuleID) *Rule {
	for _, r := range t.rules {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (t *RuleTable) ByLHS(lhs symbol.ID) []*Rule { return t.byLHS[lhs] }

func (t *RuleTable) All() []*Rule { return t.rules }

func (t *RuleTable) Count() int { return len(t.rules) }

// splitPattern tokenizes a whitespace-separated pattern string, stripping
// any inline `Name[alias]` suffix and returning the bare symbol names plus
// a parallel slice of alias names (empty string when a token has none).
func splitPattern(pattern string) (names []string, aliases []string) {
	for _, tok := range strings.Fields(pattern) {
		name, alias := stripAlias(tok)
		names = append(names, name)
		aliases = append(aliases, alias)
	}
	return names, aliases
}

func stripAlias(tok string) (name string, alias string) {
	open := strings.IndexByte(tok, '[')
	if open < 0 || !strings.HasSuffix(tok, "]") {
		return tok, ""
	}
	return tok[:open], tok[open+1 : len(tok)-1]
}
