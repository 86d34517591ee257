package pcfg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	nonTerminalPattern = regexp.MustCompile(`^[^\s"|;()]+$`)
	terminalPattern    = regexp.MustCompile(`^"[^\s"]+"$`)
)

// Rule represents a PCFG rule. Weight holds a count while the grammar is
// being learned and a probability once it is normalized
type Rule struct {
	Left   Symbol
	Right  []Symbol
	Weight float64
}

// IsBinary returns true if it's a binary rule, like A -> BC
func (r *Rule) IsBinary() bool {
	return len(r.Right) == 2
}

// IsUnary returns true if it's a unary rule, like A -> B
func (r *Rule) IsUnary() bool {
	return len(r.Right) == 1
}

// IsSelfLoop returns true for A -> A
func (r *Rule) IsSelfLoop() bool {
	return r.IsUnary() && r.Right[0] == r.Left
}

// Format converts rule to string format, terminals are quoted
func (r *Rule) Format(symbols *SymbolTable) string {
	names := []string{}
	for _, s := range r.Right {
		if symbols.IsTerminal(s) {
			names = append(names, strconv.Quote(symbols.Name(s)))
		} else {
			names = append(names, symbols.Name(s))
		}
	}
	return fmt.Sprintf(
		"%s ::= %s ; %.3f",
		symbols.Name(r.Left),
		strings.Join(names, " "),
		r.Weight)
}

// parseSymbol interns a single right hand side token
func parseSymbol(symbols *SymbolTable, token string) (Symbol, bool) {
	switch {
	case terminalPattern.MatchString(token):
		return symbols.InternTerminal(token[1 : len(token)-1]), true
	case nonTerminalPattern.MatchString(token):
		return symbols.Intern(token), true
	}
	return NoSymbol, false
}

// ParseRule parse rule from string
// The rule would be like:
//     VP ::= V NP ; 0.7 | V ; 0.3
//     NP ::= "a"
// Symbols are interned into symbols. Quoted symbols are terminals, weights
// default to 1.0
func ParseRule(symbols *SymbolTable, ruleText string) ([]*Rule, error) {
	rules := []*Rule{}
	fields := strings.Split(ruleText, "::=")
	if len(fields) != 2 {
		return nil, errors.Errorf("ParseRule: unexpected number of ::= token in '%s'", ruleText)
	}

	// Left part
	leftText := strings.TrimSpace(fields[0])
	if !nonTerminalPattern.MatchString(leftText) {
		return nil, errors.Errorf("ParseRule: '%s': unexpected symbol in the left", ruleText)
	}
	left := symbols.Intern(leftText)

	// Right part
	for _, right := range strings.Split(fields[1], "|") {
		rule := &Rule{Left: left, Weight: 1.0}

		parts := strings.Split(strings.TrimSpace(right), ";")
		if len(parts) == 2 {
			weightText := strings.TrimSpace(parts[1])
			weight, err := strconv.ParseFloat(weightText, 64)
			if err != nil {
				return nil, errors.Errorf(
					"ParseRule: float expected but '%s' found in '%s'",
					weightText,
					ruleText)
			}
			rule.Weight = weight
		} else if len(parts) != 1 {
			return nil, errors.Errorf("ParseRule: unexpected ';' token in '%s'", ruleText)
		}

		for _, token := range strings.Fields(parts[0]) {
			s, ok := parseSymbol(symbols, token)
			if !ok {
				return nil, errors.Errorf("ParseRule: unexpected '%s' in '%s'", token, ruleText)
			}
			rule.Right = append(rule.Right, s)
		}
		if len(rule.Right) == 0 {
			return nil, errors.Errorf("ParseRule: empty right hand side in '%s'", ruleText)
		}

		rules = append(rules, rule)
	}

	return rules, nil
}
