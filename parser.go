package pcfg

import (
	"log"
	"strings"

	"github.com/pkg/errors"
)

// DefaultSingleTokenCategory sits between the root and the tag of one token
// sentences
const DefaultSingleTokenCategory = "NP"

// TagResolver assigns a tag distribution to every token of a sentence
type TagResolver interface {
	Resolve(tokens []string) ([]TagDistribution, error)
}

// TerminalResolver uses each token as a terminal symbol of the grammar. It
// suits grammars with lexical rules like NP ::= "a"
type TerminalResolver struct {
	Symbols *SymbolTable
}

// Resolve implements TagResolver
func (r TerminalResolver) Resolve(tokens []string) ([]TagDistribution, error) {
	dists := make([]TagDistribution, len(tokens))
	for i, token := range tokens {
		s, ok := r.Symbols.LookupTerminal(token)
		if !ok {
			return nil, errors.Wrapf(ErrNotInGrammar, "unknown terminal '%s'", token)
		}
		dists[i] = TagDistribution{{Tag: s, Prob: 1}}
	}
	return dists, nil
}

// ParserOptions configures a Parser
type ParserOptions struct {
	SingleTokenCategory string

	// KeepBinarized leaves composite nodes in the output trees
	KeepBinarized bool

	// Debug logs the CYK chart of every sentence to Logger
	Debug  bool
	Logger *log.Logger
}

// Parser is the struct for PCFG parsing. Once created it is only read, so a
// single Parser can serve concurrent goroutines
type Parser struct {
	model    *Model
	grammar  *ReverseGrammar
	resolver TagResolver
	cyk      CYKOptions
	opts     ParserOptions
}

// NewParser creates a new instance of PCFG parser over model
func NewParser(model *Model, resolver TagResolver, opts ParserOptions) (*Parser, error) {
	if resolver == nil {
		return nil, errors.New("NewParser: nil resolver")
	}
	if opts.SingleTokenCategory == "" {
		opts.SingleTokenCategory = DefaultSingleTokenCategory
	}

	grammar, err := NewReverseGrammar(model.Grammar)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		model:    model,
		grammar:  grammar,
		resolver: resolver,
		opts:     opts,
		cyk: CYKOptions{
			Root:                model.Root,
			SingleTokenCategory: model.Symbols.Intern(opts.SingleTokenCategory),
		},
	}
	if opts.Debug && opts.Logger != nil {
		p.cyk.Debug = opts.Logger
	}
	return p, nil
}

// Grammar returns the reverse grammar used by the parser
func (p *Parser) Grammar() *ReverseGrammar {
	return p.grammar
}

// Parse parses tokens into their most probable tree
func (p *Parser) Parse(tokens []string) (*Tree, error) {
	dists, err := p.resolver.Resolve(tokens)
	if err != nil {
		return nil, err
	}

	chart, err := CYK(p.grammar, dists, p.cyk)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(chart, tokens)
	if err != nil {
		return nil, err
	}
	if !p.opts.KeepBinarized {
		tree.DeBinarize()
	}
	return tree, nil
}

// ParseLine parses a space separated sentence and formats the tree as a
// treebank line
func (p *Parser) ParseLine(line string) (string, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", errors.New("ParseLine: empty sentence")
	}
	tree, err := p.Parse(tokens)
	if err != nil {
		return "", err
	}
	return FormatSentence(tree), nil
}
