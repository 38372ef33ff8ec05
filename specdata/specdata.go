// Package specdata holds the flat, JSON-serializable data shapes that a
// generated grammar reduces to: the tables an emitted runtime consumes
// (SyntacticSpec) and the tables a human- or tool-facing report describes
// (Report). Neither type is used internally by package grammar; both are
// projections of a *grammar.Grammar computed on demand.
package specdata

// SyntacticSpec is the language-neutral parse table (§6, §9 "Emission"):
// dense integer-indexed arrays only, no pointers, safe to marshal as JSON
// and hand to any target-language emitter.
type SyntacticSpec struct {
	Action          []int `json:"action"` // state*termCount + termCol, encoded via EncodeAction
	Goto            []int `json:"goto"`   // state*ntCount + ntCol; -1 means no entry
	Default         []int `json:"default"`
	StateCount      int   `json:"state_count"`
	InitialState    int   `json:"initial_state"`
	StartProduction int   `json:"start_production"`

	LHSSymbols  []int `json:"lhs_symbols"`
	RHSSymbols  [][]int `json:"rhs_symbols"`
	Precedence  []int `json:"precedence"`
	Associativity []string `json:"associativity"`

	Terminals        []string `json:"terminals"`
	TerminalCount    int      `json:"terminal_count"`
	NonTerminals     []string `json:"non_terminals"`
	NonTerminalCount int      `json:"non_terminal_count"`

	EOFSymbol          int   `json:"eof_symbol"`
	ErrorSymbol        int   `json:"error_symbol"`
	ErrorTrapperStates []int `json:"error_trapper_states"`

	ParseParams []string `json:"parse_params"`
}

// ActionKind mirrors grammar.ActionKind for the wire encoding: an Action
// cell is encoded as kind*100000 + target + 1 (0 for no action) so a single int column survives
// JSON round-trips without a nested object per cell.
const (
	actionNone   = 0
	actionShift  = 1
	actionReduce = 2
	actionAccept = 3
	actionError  = 4
)

// EncodeAction packs a (kind, target) pair into the single-int wire form
// SyntacticSpec.Action uses.
func EncodeAction(kind, target int) int {
	if kind == actionNone {
		return 0
	}
	return kind*100000 + target + 1
}

// DecodeAction is the inverse of EncodeAction.
func DecodeAction(v int) (kind, target int) {
	if v == 0 {
		return actionNone, 0
	}
	return v / 100000, v%100000 - 1
}
