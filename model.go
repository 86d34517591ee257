package pcfg

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// Model bundles a CNF grammar with its lexicon. It is shared read-only by
// every parser once built
type Model struct {
	Symbols *SymbolTable
	Grammar *Grammar
	Lexicon *Lexicon
	Root    Symbol
}

// modelVersion is bumped whenever snapshot changes
const modelVersion = 1

type snapshotRule struct {
	Left   int32
	Right  []int32
	Weight float64
}

type snapshotEntry struct {
	Word string
	Prob float64
}

type snapshotRow struct {
	Tag     int32
	Entries []snapshotEntry
}

type snapshot struct {
	Version int
	Names   []string
	Kinds   []uint8
	Root    int32
	Rules   []snapshotRule
	Lexicon []snapshotRow
}

// Save writes the model in gob encoding
func (m *Model) Save(w io.Writer) error {
	snap := snapshot{
		Version: modelVersion,
		Names:   m.Symbols.names,
		Kinds:   make([]uint8, len(m.Symbols.kinds)),
		Root:    int32(m.Root),
	}
	for i, kind := range m.Symbols.kinds {
		snap.Kinds[i] = uint8(kind)
	}
	for _, rule := range m.Grammar.Rules {
		right := make([]int32, len(rule.Right))
		for i, s := range rule.Right {
			right[i] = int32(s)
		}
		snap.Rules = append(snap.Rules, snapshotRule{
			Left:   int32(rule.Left),
			Right:  right,
			Weight: rule.Weight,
		})
	}
	for _, tag := range m.Lexicon.Tags() {
		row := snapshotRow{Tag: int32(tag)}
		for _, word := range m.Lexicon.Words(tag) {
			row.Entries = append(row.Entries, snapshotEntry{
				Word: word,
				Prob: m.Lexicon.Prob(tag, word),
			})
		}
		snap.Lexicon = append(snap.Lexicon, row)
	}

	return errors.Wrap(gob.NewEncoder(w).Encode(&snap), "Model.Save")
}

// LoadModel reads a model written by Save
func LoadModel(r io.Reader) (*Model, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "LoadModel")
	}
	if snap.Version != modelVersion {
		return nil, errors.Errorf("LoadModel: unsupported version %d", snap.Version)
	}
	if len(snap.Names) != len(snap.Kinds) {
		return nil, errors.New("LoadModel: corrupted symbol table")
	}

	symbols := NewSymbolTable()
	for i, name := range snap.Names {
		s := symbols.intern(name, SymbolKind(snap.Kinds[i]))
		if int(s) != i {
			return nil, errors.Errorf("LoadModel: duplicated symbol '%s'", name)
		}
	}
	valid := func(s int32) bool { return s >= 0 && int(s) < symbols.Len() }

	grammar := NewGrammar(symbols)
	for _, r := range snap.Rules {
		right := make([]Symbol, len(r.Right))
		for i, s := range r.Right {
			if !valid(s) {
				return nil, errors.Errorf("LoadModel: unknown symbol %d", s)
			}
			right[i] = Symbol(s)
		}
		if !valid(r.Left) {
			return nil, errors.Errorf("LoadModel: unknown symbol %d", r.Left)
		}
		grammar.Add(Symbol(r.Left), right, r.Weight)
	}

	lexicon := NewLexicon(symbols)
	for _, row := range snap.Lexicon {
		if !valid(row.Tag) {
			return nil, errors.Errorf("LoadModel: unknown symbol %d", row.Tag)
		}
		for _, e := range row.Entries {
			lexicon.Add(Symbol(row.Tag), e.Word, e.Prob)
		}
	}

	if !valid(snap.Root) {
		return nil, errors.Errorf("LoadModel: unknown root symbol %d", snap.Root)
	}
	return &Model{
		Symbols: symbols,
		Grammar: grammar,
		Lexicon: lexicon,
		Root:    Symbol(snap.Root),
	}, nil
}
