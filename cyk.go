package pcfg

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// BackpointerKind tells how a chart entry was derived
type BackpointerKind uint8

const (
	// Lexical entries come straight from the tag distribution of a token
	Lexical BackpointerKind = iota

	// Binary entries come from A -> Left Right split at Split
	Binary

	// Unary entries come from A -> Left over the same single token
	Unary

	// Chain is the synthesized derivation of a one token sentence:
	// root -> Left -> Right
	Chain
)

// Backpointer records the derivation achieving the best score of a symbol in
// a chart cell
type Backpointer struct {
	Kind  BackpointerKind
	Split int
	Left  Symbol
	Right Symbol
}

// cell stores the best log probability of each symbol over a span. order
// keeps the insertion order so that ties are broken deterministically
type cell struct {
	order  []Symbol
	scores map[Symbol]float64
	back   map[Symbol]Backpointer
}

func newCell() *cell {
	return &cell{
		order:  []Symbol{},
		scores: map[Symbol]float64{},
		back:   map[Symbol]Backpointer{},
	}
}

// update keeps logp when it is strictly better than the current score
func (c *cell) update(s Symbol, logp float64, bp Backpointer) {
	old, ok := c.scores[s]
	if ok && !(logp > old) {
		return
	}
	if !ok {
		c.order = append(c.order, s)
	}
	c.scores[s] = logp
	c.back[s] = bp
}

// Chart is the CYK table of one sentence. Cell (i, j) covers tokens [i, j)
type Chart struct {
	symbols *SymbolTable
	root    Symbol
	cells   [][]*cell
}

func newChart(symbols *SymbolTable, root Symbol, n int) *Chart {
	cells := make([][]*cell, n+1)
	for i := range cells {
		cells[i] = make([]*cell, n+1)
		for j := i + 1; j <= n; j++ {
			cells[i][j] = newCell()
		}
	}
	return &Chart{symbols: symbols, root: root, cells: cells}
}

// Len returns the number of tokens covered by the chart
func (c *Chart) Len() int {
	return len(c.cells) - 1
}

// Root returns the symbol the top cell is expected to contain
func (c *Chart) Root() Symbol {
	return c.root
}

// Score returns the best log probability of s over [i, j)
func (c *Chart) Score(i, j int, s Symbol) (float64, bool) {
	logp, ok := c.cells[i][j].scores[s]
	return logp, ok
}

// Backpointer returns the derivation of s over [i, j)
func (c *Chart) Backpointer(i, j int, s Symbol) (Backpointer, bool) {
	bp, ok := c.cells[i][j].back[s]
	return bp, ok
}

// CellSymbols returns the symbols spanning [i, j) in insertion order
func (c *Chart) CellSymbols(i, j int) []Symbol {
	return c.cells[i][j].order
}

// printRow logs the cells of a span length for debugging
func (c *Chart) printRow(logger *log.Logger, length int) {
	reprs := []string{}
	for start := 0; start+length <= c.Len(); start++ {
		names := []string{}
		for _, s := range c.CellSymbols(start, start+length) {
			names = append(names, c.symbols.Name(s))
		}
		reprs = append(reprs, fmt.Sprintf("[%d: %s]", start, strings.Join(names, " ")))
	}
	logger.Println(strings.Join(reprs, " "))
}

// CYKOptions are the symbols CYK needs besides the grammar
type CYKOptions struct {
	Root Symbol

	// SingleTokenCategory is the intermediate category between the root and
	// the tag of a one token sentence. It is required to parse one token
	// sentences, NoSymbol makes them fail
	SingleTokenCategory Symbol

	// Chart rows are logged when Debug is set
	Debug *log.Logger
}

// CYK fills the chart of a sentence given the tag distribution of each token,
// using Viterbi scores in log space. When the top cell does not contain the
// root symbol it returns ErrNotInGrammar
func CYK(grammar *ReverseGrammar, dists []TagDistribution, opts CYKOptions) (*Chart, error) {
	n := len(dists)
	if n == 0 {
		return nil, errors.New("CYK: empty sentence")
	}
	chart := newChart(grammar.Symbols, opts.Root, n)

	// Span length 1: tags of each token, then unary rules over those tags
	for i, dist := range dists {
		if len(dist) == 0 {
			return nil, errors.Errorf("CYK: empty tag distribution for token %d", i)
		}
		diagonal := chart.cells[i][i+1]
		for _, tp := range dist {
			if tp.Prob <= 0 {
				continue
			}
			diagonal.update(tp.Tag, math.Log(tp.Prob), Backpointer{Kind: Lexical, Left: NoSymbol, Right: NoSymbol})
		}
		for _, tp := range dist {
			if tp.Prob <= 0 {
				continue
			}
			for _, rule := range grammar.UnaryRules[tp.Tag] {
				diagonal.update(
					rule.Source,
					rule.LogProb+math.Log(tp.Prob),
					Backpointer{Kind: Unary, Left: tp.Tag, Right: NoSymbol})
			}
		}
	}
	if opts.Debug != nil {
		opts.Debug.Println("======= CYK algorithm =======")
		chart.printRow(opts.Debug, 1)
	}

	if n == 1 {
		if opts.SingleTokenCategory < 0 || int(opts.SingleTokenCategory) >= grammar.Symbols.Len() {
			return nil, errors.New("CYK: no category for a one token sentence")
		}
		synthesizeSingleToken(chart, dists[0], opts)
	}

	// Span length 2 to n: apply binary rules
	for length := 2; length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			end := start + length
			target := chart.cells[start][end]
			for split := start + 1; split < end; split++ {
				leftCell := chart.cells[start][split]
				rightCell := chart.cells[split][end]
				for _, left := range leftCell.order {
					rightRules, ok := grammar.Rules[left]
					if !ok {
						continue
					}
					for _, right := range rightCell.order {
						rules, ok := rightRules[right]
						if !ok {
							continue
						}
						// Ok, there are some rules A -> BC that B == left and
						// C == right
						logp := leftCell.scores[left] + rightCell.scores[right]
						for _, rule := range rules {
							target.update(
								rule.Source,
								rule.LogProb+logp,
								Backpointer{Kind: Binary, Split: split, Left: left, Right: right})
						}
					}
				}
			}
		}
		if opts.Debug != nil {
			chart.printRow(opts.Debug, length)
		}
	}

	if _, ok := chart.cells[0][n].scores[opts.Root]; !ok {
		return chart, ErrNotInGrammar
	}
	return chart, nil
}

// synthesizeSingleToken derives root -> category -> tag over a one token
// sentence, tag being the best scoring tag of the token
func synthesizeSingleToken(chart *Chart, dist TagDistribution, opts CYKOptions) {
	diagonal := chart.cells[0][1]
	best := NoSymbol
	bestScore := math.Inf(-1)
	for _, tp := range dist {
		score, ok := diagonal.scores[tp.Tag]
		if ok && (best == NoSymbol || score > bestScore) {
			best = tp.Tag
			bestScore = score
		}
	}
	if best == NoSymbol {
		return
	}

	if _, ok := diagonal.scores[opts.Root]; !ok {
		diagonal.order = append(diagonal.order, opts.Root)
	}
	diagonal.scores[opts.Root] = bestScore
	diagonal.back[opts.Root] = Backpointer{
		Kind:  Chain,
		Left:  opts.SingleTokenCategory,
		Right: best,
	}
}
