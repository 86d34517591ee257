package pcfg

import (
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const tagClass = `[A-Za-z.+]{1,10}`

var (
	// (NP-SUJ ... -> (NP ...
	functionalSuffix = regexp.MustCompile(`\((` + tagClass + `)-[A-Z:/#_]{1,20}`)

	// (TAG word), words accept anything but blanks and parentheses
	leafPattern = regexp.MustCompile(`\((` + tagClass + `) ([^\s()]+)\)`)

	// (LHS (C1) (C2) ... (Ck)) where every child is already reduced
	productionPattern = regexp.MustCompile(`\((` + tagClass + `)((?: \(` + tagClass + `\)){1,35})\)`)

	reducedPattern = regexp.MustCompile(`\((` + tagClass + `)\)`)
)

// TrainOptions controls how treebank lines are learned
type TrainOptions struct {
	// Root is the sentence level symbol every line must reduce to
	Root string

	// SkipMalformed logs and ignores lines that can not be reduced instead of
	// failing the whole training
	SkipMalformed bool

	// Drops are the residual rules removed during unit rule elimination. nil
	// means DefaultCompositionDrops
	Drops []CompositionDrop

	Logger *log.Logger
	Debug  bool
}

// DefaultRoot is the root symbol of the French treebank
const DefaultRoot = "SENT"

func (o TrainOptions) withDefaults() TrainOptions {
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.Drops == nil {
		o.Drops = DefaultCompositionDrops
	}
	if o.Logger == nil {
		o.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return o
}

// Trainer accumulates rule and lexical counts from bracketed treebank lines
type Trainer struct {
	opts    TrainOptions
	symbols *SymbolTable
	grammar *Grammar
	lexicon *Lexicon
	lines   int
	skipped int
}

// NewTrainer creates a Trainer with empty counts
func NewTrainer(opts TrainOptions) *Trainer {
	opts = opts.withDefaults()
	symbols := NewSymbolTable()
	return &Trainer{
		opts:    opts,
		symbols: symbols,
		grammar: NewGrammar(symbols),
		lexicon: NewLexicon(symbols),
	}
}

type lexicalCount struct {
	tag  string
	word string
}

type productionCount struct {
	left  string
	right []string
}

// NormalizeTags removes the outer "( ... )" wrapper of a treebank line and
// strips functional suffixes from tags
func NormalizeTags(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "( ") && strings.HasSuffix(line, ")") {
		line = strings.TrimSpace(line[2 : len(line)-1])
	}
	return functionalSuffix.ReplaceAllString(line, "($1")
}

// Tokens returns the surface words of a treebank line in order
func Tokens(line string) []string {
	tokens := []string{}
	for _, m := range leafPattern.FindAllStringSubmatch(NormalizeTags(line), -1) {
		tokens = append(tokens, m[2])
	}
	return tokens
}

// extract reduces a line to its root and returns the counts it contains
func extract(line, root string) ([]lexicalCount, []productionCount, error) {
	tree := NormalizeTags(line)

	lexical := []lexicalCount{}
	for _, m := range leafPattern.FindAllStringSubmatch(tree, -1) {
		lexical = append(lexical, lexicalCount{tag: m[1], word: m[2]})
	}

	// Work only with POS tags: (TAG word) -> (TAG)
	reduced := leafPattern.ReplaceAllString(tree, "($1)")

	productions := []productionCount{}
	target := "(" + root + ")"
	for reduced != target {
		for _, m := range productionPattern.FindAllStringSubmatch(reduced, -1) {
			right := []string{}
			for _, child := range reducedPattern.FindAllStringSubmatch(m[2], -1) {
				right = append(right, child[1])
			}
			productions = append(productions, productionCount{left: m[1], right: right})
		}

		next := productionPattern.ReplaceAllString(reduced, "($1)")
		if next == reduced {
			return nil, nil, errors.Wrapf(ErrFormat, "stalled at '%s'", reduced)
		}
		reduced = next
	}
	return lexical, productions, nil
}

// AddLine counts the rules and words of a bracketed sentence. Counts of a
// malformed line are discarded
func (t *Trainer) AddLine(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	t.lines++

	lexical, productions, err := extract(line, t.opts.Root)
	if err != nil {
		err = errors.Wrapf(err, "line %d", t.lines)
		if !t.opts.SkipMalformed {
			return err
		}
		t.opts.Logger.Printf("skipping malformed line: %v", err)
		t.skipped++
		return nil
	}

	for _, c := range lexical {
		t.lexicon.Add(t.symbols.Intern(c.tag), c.word, 1)
	}
	for _, p := range productions {
		right := make([]Symbol, len(p.right))
		for i, name := range p.right {
			right[i] = t.symbols.Intern(name)
		}
		t.grammar.Add(t.symbols.Intern(p.left), right, 1)
	}
	return nil
}

// Skipped returns the number of malformed lines ignored so far
func (t *Trainer) Skipped() int {
	return t.skipped
}

// Model normalizes the counts and converts the grammar into CNF. The
// Trainer must not be used afterwards
func (t *Trainer) Model() (*Model, error) {
	if len(t.grammar.Rules) == 0 {
		return nil, errors.New("Trainer: no rule learned")
	}
	t.grammar.Drops = t.opts.Drops
	if t.opts.Debug {
		t.grammar.DebugMode(t.opts.Logger)
	}

	t.lexicon.Normalize()
	t.grammar.ConvertToCNF()
	t.opts.Logger.Printf(
		"learned %d rules and %d tags from %d lines (%d skipped)",
		len(t.grammar.Rules),
		len(t.lexicon.Tags()),
		t.lines,
		t.skipped)

	root := t.symbols.Intern(t.opts.Root)
	return &Model{
		Symbols: t.symbols,
		Grammar: t.grammar,
		Lexicon: t.lexicon,
		Root:    root,
	}, nil
}

// Train learns a model from lines
func Train(lines []string, opts TrainOptions) (*Model, error) {
	trainer := NewTrainer(opts)
	for _, line := range lines {
		if err := trainer.AddLine(line); err != nil {
			return nil, err
		}
	}
	return trainer.Model()
}
