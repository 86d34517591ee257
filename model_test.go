package pcfg

import (
	"bytes"
	"strings"
	"testing"
)

func TestModelSaveLoad(t *testing.T) {
	model := mustTrain(t, testCorpus)

	var buf bytes.Buffer
	if err := model.Save(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadModel(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Root != model.Root || loaded.Symbols.Len() != model.Symbols.Len() {
		t.Fatal("symbol table differs")
	}
	for s := Symbol(0); int(s) < model.Symbols.Len(); s++ {
		if loaded.Symbols.Name(s) != model.Symbols.Name(s) || loaded.Symbols.Kind(s) != model.Symbols.Kind(s) {
			t.Fatalf("symbol %d differs", s)
		}
	}

	if len(loaded.Grammar.Rules) != len(model.Grammar.Rules) {
		t.Fatal("grammar differs")
	}
	for i, rule := range model.Grammar.Rules {
		other := loaded.Grammar.Rules[i]
		if rule.Format(model.Symbols) != other.Format(loaded.Symbols) || rule.Weight != other.Weight {
			t.Fatalf("'%s' != '%s'", rule.Format(model.Symbols), other.Format(loaded.Symbols))
		}
	}

	for _, tag := range model.Lexicon.Tags() {
		for _, word := range model.Lexicon.Words(tag) {
			if model.Lexicon.Prob(tag, word) != loaded.Lexicon.Prob(tag, word) {
				t.Fatalf("P(%s | %s) differs", word, model.Symbols.Name(tag))
			}
		}
	}

	parser := mustNewParser(t, loaded, ParserOptions{})
	out, err := parser.ParseLine("Le petit chien dort .")
	if err != nil {
		t.Fatal(err)
	}
	expected := "( (SENT (NP (DET Le) (ADJ petit) (NC chien)) (VN (V dort)) (PONCT .)))"
	if out != expected {
		t.Fatalf("'%s' != '%s'", out, expected)
	}
}

func TestLoadModelCorrupted(t *testing.T) {
	if _, err := LoadModel(strings.NewReader("not a model")); err == nil {
		t.Fatal("err != nil expected")
	}
}
