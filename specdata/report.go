package specdata

// Terminal, NonTerminal, Production, Item, Transition, Reduce, Conflict
// and State together form Report, the diagnostic dump a CLI's "describe"
// command renders (§6 "print statistics"). The "dump" command does not use
// it; it prints the grammar source directly.
type Terminal struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	Precedence    int    `json:"prec"`
	Associativity string `json:"assoc"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number        int    `json:"number"`
	LHS           int    `json:"lhs"`
	RHS           []int  `json:"rhs"`
	Precedence    int    `json:"prec"`
	Associativity string `json:"assoc"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

// Conflict is a forced action-table decision (§4.6.1, §4.6.2). Category is
// one of "empty-optional", "passthrough", "precedence", "reduce-reduce",
// "ambiguous"; only the latter two count toward ConflictCount.
type Conflict struct {
	Symbol       int    `json:"symbol"`
	State        int    `json:"state"`
	Production   int    `json:"production"`
	ShiftState   *int   `json:"shift_state"`
	Category     string `json:"category"`
	Counted      bool   `json:"counted"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	Conflicts  []*Conflict   `json:"conflicts"`
	ErrorTrap  bool          `json:"error_trap"`
}

// Report is the full descriptive dump of a compiled grammar: every
// terminal, nonterminal, production and automaton state, plus every
// recorded conflict. It carries no behavior of its own — building the
// parser never reads it back.
type Report struct {
	Name          string         `json:"name"`
	Terminals     []*Terminal    `json:"terminals"`
	NonTerminals  []*NonTerminal `json:"non_terminals"`
	Productions   []*Production  `json:"productions"`
	States        []*State       `json:"states"`
	ConflictCount int            `json:"conflict_count"`
}
