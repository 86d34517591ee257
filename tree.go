package pcfg

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Node is a node of a parsing tree, either an *Internal or a *Leaf
type Node interface {
	node()
}

// Internal is a constituent with its ordered children
type Internal struct {
	Label    Symbol
	Children []Node
}

// Leaf is a tagged surface token
type Leaf struct {
	Label Symbol
	Word  string
}

func (*Internal) node() {}
func (*Leaf) node()     {}

// Tree represents the parsing tree
type Tree struct {
	Symbols *SymbolTable
	Root    Node
}

// BuildTree walks the backpointers of chart from the root symbol over the
// whole sentence. Leaves carry the original tokens
func BuildTree(chart *Chart, tokens []string) (*Tree, error) {
	n := chart.Len()
	if len(tokens) != n {
		return nil, errors.Errorf("BuildTree: %d tokens for a chart of %d", len(tokens), n)
	}
	if _, ok := chart.Score(0, n, chart.Root()); !ok {
		return nil, ErrNotInGrammar
	}

	root, err := buildNode(chart, 0, n, chart.Root(), tokens)
	if err != nil {
		return nil, err
	}
	return &Tree{Symbols: chart.symbols, Root: root}, nil
}

func buildNode(chart *Chart, start, end int, s Symbol, tokens []string) (Node, error) {
	bp, ok := chart.Backpointer(start, end, s)
	if !ok {
		return nil, errors.Errorf(
			"BuildTree: no backpointer for %s over [%d, %d)",
			chart.symbols.Name(s), start, end)
	}

	switch bp.Kind {
	case Lexical:
		return &Leaf{Label: s, Word: tokens[start]}, nil
	case Unary:
		// The unary rule was scored with the lexical probability of its tag
		return &Internal{
			Label:    s,
			Children: []Node{&Leaf{Label: bp.Left, Word: tokens[start]}},
		}, nil
	case Chain:
		tag, err := buildNode(chart, start, end, bp.Right, tokens)
		if err != nil {
			return nil, err
		}
		return &Internal{
			Label:    s,
			Children: []Node{&Internal{Label: bp.Left, Children: []Node{tag}}},
		}, nil
	}

	left, err := buildNode(chart, start, bp.Split, bp.Left, tokens)
	if err != nil {
		return nil, err
	}
	right, err := buildNode(chart, bp.Split, end, bp.Right, tokens)
	if err != nil {
		return nil, err
	}
	return &Internal{Label: s, Children: []Node{left, right}}, nil
}

// DeBinarize splices the children of every composite node into its parent,
// restoring the n-ary branching of the treebank
func (t *Tree) DeBinarize() {
	nodes := t.flatten(t.Root)
	assert(len(nodes) == 1, "Tree::DeBinarize: composite root")
	t.Root = nodes[0]
}

// flatten returns the nodes replacing n in its parent's children
func (t *Tree) flatten(n Node) []Node {
	switch n := n.(type) {
	case *Internal:
		children := []Node{}
		for _, child := range n.Children {
			children = append(children, t.flatten(child)...)
		}
		if t.Symbols.IsComposite(n.Label) {
			return children
		}
		n.Children = children
	}
	return []Node{n}
}

// String converts the tree to bracketed format
func (t *Tree) String() string {
	return t.repr(t.Root)
}

// repr get the string representation of the node recursively
func (t *Tree) repr(n Node) string {
	switch n := n.(type) {
	case *Leaf:
		// Terminals of the grammar are written bare
		if t.Symbols.IsTerminal(n.Label) {
			return n.Word
		}
		return fmt.Sprintf("(%s %s)", t.Symbols.Name(n.Label), n.Word)
	case *Internal:
		childrenReprs := []string{}
		for _, child := range n.Children {
			childrenReprs = append(childrenReprs, t.repr(child))
		}
		return fmt.Sprintf(
			"(%s %s)",
			t.Symbols.Name(n.Label),
			strings.Join(childrenReprs, " "))
	}
	return ""
}

// FormatSentence wraps the tree the way treebank lines are: ( (SENT ...))
func FormatSentence(t *Tree) string {
	return "( " + t.String() + ")"
}
