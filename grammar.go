package pcfg

import (
	"encoding/binary"
	"log"
	"strings"
)

// CompositionDrop names a residual rule Left -> (Drop) that is removed right
// after the chain rule Left -> (Via) has been eliminated
type CompositionDrop struct {
	Left string
	Via  string
	Drop string
}

// DefaultCompositionDrops patches a known incoherence of the French treebank
// grammar: eliminating NP -> PP composes NP -> NP back through PP -> NP
var DefaultCompositionDrops = []CompositionDrop{
	{Left: "NP", Via: "PP", Drop: "NP"},
}

// Grammar consists a list of PCFG rules. While learning, rule weights are
// counts, ConvertToCNF turns them into probabilities
type Grammar struct {
	Symbols *SymbolTable
	Rules   []*Rule

	// Residual rules removed during unit rule elimination
	Drops []CompositionDrop

	index  map[string]*Rule
	logger *log.Logger
}

// NewGrammar creates an empty grammar over symbols
func NewGrammar(symbols *SymbolTable) *Grammar {
	return &Grammar{
		Symbols: symbols,
		Rules:   []*Rule{},
		Drops:   DefaultCompositionDrops,
		index:   map[string]*Rule{},
	}
}

// ParseGrammar parses grammar from string, one rule group per line. Lines
// starting with ';' are comments
func ParseGrammar(symbols *SymbolTable, grammarText string) (*Grammar, error) {
	grammar := NewGrammar(symbols)
	for _, line := range strings.Split(grammarText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == ';' {
			continue
		}

		rules, err := ParseRule(symbols, line)
		if err != nil {
			return nil, err
		}
		for _, rule := range rules {
			grammar.Add(rule.Left, rule.Right, rule.Weight)
		}
	}
	return grammar, nil
}

// DebugMode prints each conversion step to logger
func (g *Grammar) DebugMode(logger *log.Logger) {
	g.logger = logger
}

func ruleKey(left Symbol, right []Symbol) string {
	b := make([]byte, 0, 4*(len(right)+1))
	b = binary.LittleEndian.AppendUint32(b, uint32(left))
	for _, s := range right {
		b = binary.LittleEndian.AppendUint32(b, uint32(s))
	}
	return string(b)
}

// Add adds weight to the rule left -> right, creating it when needed
func (g *Grammar) Add(left Symbol, right []Symbol, weight float64) *Rule {
	key := ruleKey(left, right)
	if rule, ok := g.index[key]; ok {
		rule.Weight += weight
		return rule
	}
	rule := &Rule{
		Left:   left,
		Right:  append([]Symbol(nil), right...),
		Weight: weight,
	}
	g.index[key] = rule
	g.Rules = append(g.Rules, rule)
	return rule
}

// Find returns the rule left -> right
func (g *Grammar) Find(left Symbol, right ...Symbol) (*Rule, bool) {
	rule, ok := g.index[ruleKey(left, right)]
	return rule, ok
}

// RulesOf returns the rules whose left symbol is left, in grammar order
func (g *Grammar) RulesOf(left Symbol) []*Rule {
	rules := []*Rule{}
	for _, rule := range g.Rules {
		if rule.Left == left {
			rules = append(rules, rule)
		}
	}
	return rules
}

// LeftSymbols returns the set of symbols having at least one expansion
func (g *Grammar) LeftSymbols() map[Symbol]bool {
	lefts := map[Symbol]bool{}
	for _, rule := range g.Rules {
		lefts[rule.Left] = true
	}
	return lefts
}

// removeIf removes every rule matched by pred
func (g *Grammar) removeIf(pred func(*Rule) bool) {
	rules := []*Rule{}
	for _, rule := range g.Rules {
		if pred(rule) {
			delete(g.index, ruleKey(rule.Left, rule.Right))
			continue
		}
		rules = append(rules, rule)
	}
	g.Rules = rules
}

// String prints one rule per line
func (g *Grammar) String() string {
	lines := []string{}
	for _, rule := range g.Rules {
		lines = append(lines, rule.Format(g.Symbols))
	}
	return strings.Join(lines, "\n")
}

func (g *Grammar) debug(stage string) {
	if g.logger == nil {
		return
	}
	g.logger.Printf("======= %s =======\n%s", stage, g.String())
}

// ConvertToCNF converts the counted grammar into a normalized grammar in
// Chomsky normal form
func (g *Grammar) ConvertToCNF() {
	g.debug("Original Grammar")
	g.reduceHigherRules()
	g.debug("Reduce Higher Rules")
	g.normalizeWeight()
	g.debug("Normalize Weight")
	g.removeUnitRules()
	g.debug("Remove Unit Rules")
}

// reduceHigherRules converts rule with right-hand size larger than 2 into a
// right branching cascade of binary rules. A -> B C D becomes A -> B C_D and
// C_D -> C D, A -> B C D E becomes A -> B C_D_E, C_D_E -> C D_E and D_E -> D E
func (g *Grammar) reduceHigherRules() {
	higher := []*Rule{}
	for _, rule := range g.Rules {
		if len(rule.Right) > 2 {
			higher = append(higher, rule)
		}
	}
	if len(higher) == 0 {
		return
	}

	isHigher := map[*Rule]bool{}
	for _, rule := range higher {
		isHigher[rule] = true
	}
	g.removeIf(func(rule *Rule) bool { return isHigher[rule] })

	for _, rule := range higher {
		terms := append([]Symbol(nil), rule.Right...)
		for len(terms) > 2 {
			n := len(terms)
			composite := g.Symbols.Join(terms[n-2], terms[n-1])
			if r, ok := g.Find(composite, terms[n-2], terms[n-1]); ok {
				r.Weight = 1
			} else {
				g.Add(composite, terms[n-2:], 1)
			}
			terms = append(terms[:n-2], composite)
		}
		g.Add(rule.Left, terms, rule.Weight)
	}
}

// normalizeWeight normalize the weight of rule. Make sure that the sum of
// weight from the same source symbol is 1.0. Rules like X -> X are removed
// first
func (g *Grammar) normalizeWeight() {
	g.removeIf((*Rule).IsSelfLoop)

	weights := map[Symbol]float64{}
	for _, rule := range g.Rules {
		weights[rule.Left] += rule.Weight
	}
	for _, rule := range g.Rules {
		rule.Weight /= weights[rule.Left]
	}
}

// chainRules returns the unit rules A -> B where B has expansions of its own
func (g *Grammar) chainRules() []*Rule {
	lefts := g.LeftSymbols()
	chains := []*Rule{}
	for _, rule := range g.Rules {
		if rule.IsUnary() && !rule.IsSelfLoop() && lefts[rule.Right[0]] {
			chains = append(chains, rule)
		}
	}
	return chains
}

// chainGraph returns the graph with an arc A -> B for each chain rule
func chainGraph(chains []*Rule) *DirectedGraph {
	graph := NewDirectedGraph()
	for _, rule := range chains {
		graph.Add(rule.Left, rule.Right[0])
	}
	return graph
}

// removeUnitRules removes chain rules like A -> B, B -> C. Targets without
// chain rules of their own are eliminated first so that composing never
// creates a new chain rule. Inside a cycle a pair is eliminated only once
func (g *Grammar) removeUnitRules() {
	chains := g.chainRules()
	if g.logger != nil {
		for _, component := range chainGraph(chains).StrongComponents() {
			names := []string{}
			for _, s := range component {
				names = append(names, g.Symbols.Name(s))
			}
			g.logger.Printf("removeUnitRules: cyclic unit rules among %s", strings.Join(names, " "))
		}
	}

	eliminated := map[[2]Symbol]bool{}
	for len(chains) != 0 {
		graph := chainGraph(chains)
		next := chains[0]
		for _, rule := range chains {
			if graph.OutDegree(rule.Right[0]) == 0 {
				next = rule
				break
			}
		}
		g.removeUnitRule(next.Left, next.Right[0], eliminated)
		chains = g.chainRules()
	}

	// Self loops and dropped compositions leave some rows below 1
	g.normalizeWeight()
}

// removeUnitRule removes one unit rule (left -> right) from grammar. For any
// rule like "right -> X; pr", rule "left -> X; weight * pr" is added
func (g *Grammar) removeUnitRule(left, right Symbol, eliminated map[[2]Symbol]bool) {
	unit, ok := g.Find(left, right)
	assert(ok, "removeUnitRule: unit rule not found")
	weight := unit.Weight
	g.removeIf(func(rule *Rule) bool { return rule == unit })
	eliminated[[2]Symbol{left, right}] = true

	if g.logger != nil {
		g.logger.Printf("removeUnitRule: %s ::= %s", g.Symbols.Name(left), g.Symbols.Name(right))
	}

	for _, rule := range g.RulesOf(right) {
		if rule.IsUnary() {
			target := rule.Right[0]
			if target == left || eliminated[[2]Symbol{left, target}] {
				continue
			}
		}
		g.Add(left, rule.Right, weight*rule.Weight)
	}

	g.dropCompositions(left, right)
}

// dropCompositions applies the CompositionDrop entries matching left -> right
func (g *Grammar) dropCompositions(left, right Symbol) {
	leftName := g.Symbols.Name(left)
	rightName := g.Symbols.Name(right)
	for _, drop := range g.Drops {
		if drop.Left != leftName || drop.Via != rightName {
			continue
		}
		target, ok := g.Symbols.Lookup(drop.Drop)
		if !ok {
			continue
		}
		if rule, ok := g.Find(left, target); ok {
			g.removeIf(func(r *Rule) bool { return r == rule })
		}
	}
}
