package grammar

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/slrgen/slrgen/grammar/symbol"
)

// tracer traces with key 'slrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.grammar")
}

// Alternative is one production alternative: a pattern (space-separated
// symbol names, optionally `Name[alias]`), an optional action template
// (nil, int, or string, §4.3), and an optional named-precedence override.
type Alternative struct {
	Pattern    string      `json:"pattern"`
	Action     interface{} `json:"action,omitempty"`
	PrecSymbol string      `json:"prec,omitempty"` // options.prec terminal name; "" if unset
}

// NonterminalDef is one grammar-map entry: a nonterminal name and its
// ordered list of alternatives. Order matters — the default start symbol
// is the first LHS encountered (§4.2).
type NonterminalDef struct {
	Name         string        `json:"name"`
	Alternatives []Alternative `json:"alternatives"`
}

// OperatorRow is one row of the `operators` table (§6), ordered from
// lowest to highest precedence.
type OperatorRow struct {
	Assoc  Assoc    `json:"assoc"`
	Tokens []string `json:"tokens"`
}

// Source is the in-memory grammar input (§6). Exactly one of Grammar or
// BNF must be set: BNF selects Jison mode, Grammar selects sexp mode.
type Source struct {
	Grammar     []NonterminalDef `json:"grammar,omitempty"`
	BNF         []NonterminalDef `json:"bnf,omitempty"`
	Operators   []OperatorRow    `json:"operators,omitempty"`
	Start       string           `json:"start,omitempty"`
	ParseParams []string         `json:"parseParams,omitempty"`
}

// Grammar is the fully resolved grammar: symbol table, rule table,
// operator table, and (once built) the LR(0) automaton and parse table.
type Grammar struct {
	Mode        ActionMode
	Symbols     *symbol.Table
	Rules       *RuleTable
	Operators   *OperatorTable
	Start       symbol.ID
	ParseParams []string

	Automaton  *Automaton
	Follow     *followSet
	ParseTable *ParseTable
}

// GrammarBuilder resolves a Source into a Grammar (§4.1, §4.2): it interns
// every symbol, builds every rule (compiling its action template), and
// installs the synthesized accept rule.
type GrammarBuilder struct {
	Source *Source
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	src := b.Source
	hasGrammar := len(src.Grammar) > 0
	hasBNF := len(src.BNF) > 0
	if hasGrammar == hasBNF {
		return nil, ErrUnknownFormat
	}

	mode := Sexp
	defs := src.Grammar
	if hasBNF {
		mode = Jison
		defs = src.BNF
	}
	if len(defs) == 0 {
		return nil, ErrNoRules
	}

	symTab := symbol.NewTable()
	rules := NewRuleTable()

	// Pass 1: intern every LHS as a nonterminal so RHS references to a
	// name that also appears as an LHS elsewhere are reclassified
	// correctly regardless of declaration order.
	for _, def := range defs {
		if def.Name == symbol.NameAccept || def.Name == symbol.NameEnd || def.Name == symbol.NameError {
			return nil, ErrReservedName
		}
		if _, err := symTab.Intern(def.Name, symbol.Nonterminal); err != nil {
			return nil, ErrReservedName
		}
		if id, ok := symTab.Lookup(def.Name); ok {
			symTab.Reclassify(id, symbol.Nonterminal)
		}
	}

	firstLHS := defs[0].Name
	startName := src.Start
	if startName == "" {
		startName = firstLHS
	}
	startID, ok := symTab.Lookup(startName)
	if !ok || symTab.Kind(startID) != symbol.Nonterminal {
		return nil, ErrUndefinedStart
	}

	ops, err := buildOperatorTable(symTab, src.Operators)
	if err != nil {
		return nil, err
	}

	for _, def := range defs {
		lhs, _ := symTab.Lookup(def.Name)
		for _, alt := range def.Alternatives {
			names, aliases := splitPattern(alt.Pattern)
			rhs := make([]symbol.ID, len(names))
			var err error
			for i, name := range names {
				var id symbol.ID
				id, err = symTab.Intern(name, symbol.Terminal)
				if err != nil {
					return nil, ErrReservedName
				}
				rhs[i] = id
			}

			var explicit symbol.ID
			var hasExplicit bool
			if alt.PrecSymbol != "" {
				explicit, err = symTab.Intern(alt.PrecSymbol, symbol.Terminal)
				if err != nil {
					return nil, ErrReservedName
				}
				hasExplicit = true
			}
			prec, assoc := RulePrecedence(rhs, symTab, ops, explicit, hasExplicit)

			var action *ActionBody
			switch mode {
			case Sexp:
				action, err = CompileSexpAction(alt.Action, len(rhs))
			case Jison:
				action, err = CompileJisonAction(alt.Action, len(rhs), buildNameTable(names, aliases))
			}
			if err != nil {
				return nil, err
			}

			rules.Append(lhs, rhs, prec, assoc, action, aliases)
		}
	}

	rules.AppendAccept(startID)

	g := &Grammar{
		Mode:        mode,
		Symbols:     symTab,
		Rules:       rules,
		Operators:   ops,
		Start:       startID,
		ParseParams: src.ParseParams,
	}
	return g, nil
}

// buildNameTable maps every resolvable jison-mode name — an inline alias
// or a symbol's own name, disambiguated `name`, `name1`, `name2`, ... on
// repeated occurrence — to its 1-based RHS position.
func buildNameTable(names, aliases []string) map[string]int {
	table := map[string]int{}
	counts := map[string]int{}
	for i, name := range names {
		counts[name]++
		key := name
		if n := counts[name]; n > 1 {
			key = fmt.Sprintf("%s%d", name, n-1)
		}
		table[key] = i + 1
		if aliases[i] != "" {
			table[aliases[i]] = i + 1
		}
	}
	return table
}

func buildOperatorTable(symTab *symbol.Table, rows []OperatorRow) (*OperatorTable, error) {
	ops := NewOperatorTable()
	for level, row := range rows {
		for _, tokName := range row.Tokens {
			id, err := symTab.Intern(tokName, symbol.Terminal)
			if err != nil {
				return nil, err
			}
			if !ops.Add(id, level+1, row.Assoc) {
				return nil, ErrDuplicateOperatorRow
			}
		}
	}
	return ops, nil
}

// Generate runs the full pipeline (§2 steps 4-6) over an already-built
// Grammar: LR(0) automaton construction, NULLABLE/FIRST/FOLLOW, SLR(1)
// lookahead assignment, and parse-table construction.
func Generate(g *Grammar) {
	tracer().Debugf("building LR(0) automaton")
	g.Automaton = BuildLR0(g.Rules, g.Symbols, symbol.Error)
	tracer().Debugf("automaton built: %d states", len(g.Automaton.States))

	fst := genFirstSet(g.Rules, g.Symbols)
	g.Follow = genFollowSet(g.Rules, g.Symbols, fst, g.Start)
	assignSLR1LookAheads(g.Automaton, g.Follow)

	g.ParseTable = BuildParseTable(g.Automaton, g.Symbols, g.Operators)
	tracer().Debugf("parse table built: %d conflicts", g.ParseTable.ConflictCount())
}

// Compile builds and generates a Grammar from a Source in one call.
func Compile(src *Source) (*Grammar, error) {
	b := &GrammarBuilder{Source: src}
	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	Generate(g)
	return g, nil
}
