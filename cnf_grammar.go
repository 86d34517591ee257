package pcfg

import (
	"math"

	"github.com/pkg/errors"
)

// CNFRule is a rule of the reverse grammar: the right hand side is the key
// of the index holding it
type CNFRule struct {
	// Symbol in the left of rule
	Source Symbol

	// Probability of this rule
	Probability float64

	// Log of Probability, used by CYK
	LogProb float64
}

// ReverseGrammar indexes a CNF grammar by right hand side for bottom-up
// lookup. It is read-only once built and safe for concurrent use
type ReverseGrammar struct {
	Symbols *SymbolTable

	// Map from targets to rule. For example, rule: A -> BC. It maps (B, C) to
	// the rule itself
	Rules map[Symbol]map[Symbol][]CNFRule

	// Map from the single target of a unary rule A -> B to the rule
	UnaryRules map[Symbol][]CNFRule
}

// NewReverseGrammar builds the reverse index of grammar, which must already
// be in CNF with probabilities as weights
func NewReverseGrammar(grammar *Grammar) (*ReverseGrammar, error) {
	g := &ReverseGrammar{
		Symbols:    grammar.Symbols,
		Rules:      map[Symbol]map[Symbol][]CNFRule{},
		UnaryRules: map[Symbol][]CNFRule{},
	}
	for _, rule := range grammar.Rules {
		if !rule.IsBinary() && !rule.IsUnary() {
			return nil, errors.Errorf("NewReverseGrammar: '%s' is not in CNF", rule.Format(grammar.Symbols))
		}
		if rule.Weight <= 0 || rule.Weight > 1 {
			return nil, errors.Errorf("NewReverseGrammar: '%s' is not a probability", rule.Format(grammar.Symbols))
		}
		g.AddRule(rule)
	}
	return g, nil
}

// AddRule adds a new rule into the index
func (g *ReverseGrammar) AddRule(rule *Rule) {
	assert(
		rule.IsBinary() || rule.IsUnary(),
		"ReverseGrammar::AddRule: rule is not in CNF")
	assert(
		rule.Weight > 0 && rule.Weight <= 1,
		"ReverseGrammar::AddRule: rule is not normalized")

	cnfRule := CNFRule{
		Source:      rule.Left,
		Probability: rule.Weight,
		LogProb:     math.Log(rule.Weight),
	}

	if rule.IsUnary() {
		target := rule.Right[0]
		g.UnaryRules[target] = append(g.UnaryRules[target], cnfRule)
		return
	}

	first := rule.Right[0]
	second := rule.Right[1]
	if _, ok := g.Rules[first]; !ok {
		g.Rules[first] = map[Symbol][]CNFRule{}
	}
	g.Rules[first][second] = append(g.Rules[first][second], cnfRule)
}

// Lookup returns the rules A -> first second
func (g *ReverseGrammar) Lookup(first, second Symbol) []CNFRule {
	return g.Rules[first][second]
}
