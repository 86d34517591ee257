package pcfg

import (
	"strings"
)

// Symbol is a handle of a grammar symbol interned in a SymbolTable
type Symbol int32

// NoSymbol marks an absent symbol, for example the right child of an unary
// backpointer
const NoSymbol Symbol = -1

// SymbolKind tells how a symbol was introduced into the table
type SymbolKind uint8

const (
	// NonTerminal is a syntactic category or a POS tag
	NonTerminal SymbolKind = iota

	// Terminal is a surface word used directly in the right side of a rule
	Terminal

	// Composite is a symbol created by binarization
	Composite
)

// CompositeSeparator joins the names of the symbols merged by binarization.
// Treebank tags never contain it
const CompositeSeparator = "_"

type symbolKey struct {
	name string
	kind SymbolKind
}

// SymbolTable interns symbol names into small integer handles
type SymbolTable struct {
	ids   map[symbolKey]Symbol
	names []string
	kinds []SymbolKind
}

// NewSymbolTable creates an empty SymbolTable
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		ids:   map[symbolKey]Symbol{},
		names: []string{},
		kinds: []SymbolKind{},
	}
}

func (t *SymbolTable) intern(name string, kind SymbolKind) Symbol {
	key := symbolKey{name, kind}
	if s, ok := t.ids[key]; ok {
		return s
	}
	s := Symbol(len(t.names))
	t.ids[key] = s
	t.names = append(t.names, name)
	t.kinds = append(t.kinds, kind)
	return s
}

// Intern returns the non-terminal symbol named name, inserting it if needed
func (t *SymbolTable) Intern(name string) Symbol {
	return t.intern(name, NonTerminal)
}

// InternTerminal returns the terminal symbol for word
func (t *SymbolTable) InternTerminal(word string) Symbol {
	return t.intern(word, Terminal)
}

// Join returns the composite symbol standing for the sequence (a, b)
func (t *SymbolTable) Join(a, b Symbol) Symbol {
	return t.intern(t.Name(a)+CompositeSeparator+t.Name(b), Composite)
}

// Lookup finds an existing non-terminal symbol by name
func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	s, ok := t.ids[symbolKey{name, NonTerminal}]
	return s, ok
}

// LookupTerminal finds an existing terminal symbol by word
func (t *SymbolTable) LookupTerminal(word string) (Symbol, bool) {
	s, ok := t.ids[symbolKey{word, Terminal}]
	return s, ok
}

// Name returns the name of s
func (t *SymbolTable) Name(s Symbol) string {
	if s < 0 || int(s) >= len(t.names) {
		return "<nil>"
	}
	return t.names[s]
}

// Kind returns the kind of s
func (t *SymbolTable) Kind(s Symbol) SymbolKind {
	return t.kinds[s]
}

// IsTerminal reports whether s is a surface word
func (t *SymbolTable) IsTerminal(s Symbol) bool {
	return s >= 0 && t.kinds[s] == Terminal
}

// IsComposite reports whether s was introduced by binarization. Composite
// names are the only ones containing CompositeSeparator
func (t *SymbolTable) IsComposite(s Symbol) bool {
	return s >= 0 && t.kinds[s] != Terminal &&
		strings.Contains(t.names[s], CompositeSeparator)
}

// Len returns the number of interned symbols
func (t *SymbolTable) Len() int {
	return len(t.names)
}
