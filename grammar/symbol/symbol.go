// Package symbol implements the grammar symbol table.
//
// Symbol identifiers are dense, sequential integers. Three identifiers are
// reserved regardless of grammar content: 0 names the synthesized start
// symbol `$accept` (a nonterminal), 1 names the end-of-input marker `$end`
// (a terminal), and 2 names the `error` recovery token (a terminal). Every
// other symbol receives the next unused id in first-seen order, starting
// at 3.
package symbol

import "fmt"

// Kind classifies a Symbol as a terminal (token) or a nonterminal (type).
type Kind int

const (
	Nonterminal Kind = iota
	Terminal
)

func (k Kind) String() string {
	if k == Terminal {
		return "terminal"
	}
	return "non-terminal"
}

// ID is a dense integer identifier for a Symbol.
type ID int

const (
	Accept = ID(0) // $accept, nonterminal
	End    = ID(1) // $end, terminal
	Error  = ID(2) // error, terminal

	minUserID = ID(3)
)

func (id ID) Int() int { return int(id) }

const (
	NameAccept = "$accept"
	NameEnd    = "$end"
	NameError  = "error"
)

// Table interns symbol names into dense ids and tracks each id's kind.
type Table struct {
	name2id map[string]ID
	id2name []string
	kind    []Kind
	next    ID
}

// NewTable returns a Table pre-seeded with $accept, $end, and error.
func NewTable() *Table {
	t := &Table{
		name2id: make(map[string]ID),
		next:    minUserID,
	}
	t.seed(NameAccept, Accept, Nonterminal)
	t.seed(NameEnd, End, Terminal)
	t.seed(NameError, Error, Terminal)
	return t
}

func (t *Table) seed(name string, id ID, kind Kind) {
	t.name2id[name] = id
	for ID(len(t.id2name)) <= id {
		t.id2name = append(t.id2name, "")
		t.kind = append(t.kind, Nonterminal)
	}
	t.id2name[id] = name
	t.kind[id] = kind
}

// Intern returns the id for name, allocating a new one in first-seen order
// if it is unknown. kind is only consulted the first time name is seen;
// on subsequent calls the recorded kind is left unchanged and the existing
// id is returned.
func (t *Table) Intern(name string, kind Kind) (ID, error) {
	if id, ok := t.name2id[name]; ok {
		return id, nil
	}
	if name == NameAccept || name == NameEnd || name == NameError {
		return 0, fmt.Errorf("symbol: %q is a reserved name", name)
	}
	id := t.next
	t.next++
	t.name2id[name] = id
	t.id2name = append(t.id2name, name)
	t.kind = append(t.kind, kind)
	return id, nil
}

// Reclassify forces id's kind, used when a name first appears on a rule's
// RHS (assumed terminal) but is later found as some rule's LHS
// (a nonterminal).
func (t *Table) Reclassify(id ID, kind Kind) {
	t.kind[id] = kind
}

func (t *Table) Kind(id ID) Kind { return t.kind[id] }

func (t *Table) IsTerminal(id ID) bool { return t.kind[id] == Terminal }

func (t *Table) Name(id ID) string { return t.id2name[id] }

func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.name2id[name]
	return id, ok
}

// Count returns the number of interned symbols, including the three
// reserved ones.
func (t *Table) Count() int { return len(t.id2name) }

// Terminals returns the ids of every terminal symbol in ascending order.
func (t *Table) Terminals() []ID {
	var ids []ID
	for id := ID(0); id.Int() < len(t.id2name); id++ {
		if t.kind[id] == Terminal {
			ids = append(ids, id)
		}
	}
	return ids
}

// Nonterminals returns the ids of every nonterminal symbol in ascending order.
func (t *Table) Nonterminals() []ID {
	var ids []ID
	for id := ID(0); id.Int() < len(t.id2name); id++ {
		if t.kind[id] == Nonterminal {
			ids = append(ids, id)
		}
	}
	return ids
}
