package pcfg

import (
	"io"
	"log"
	"math"
	"reflect"
	"testing"
)

var testCorpus = []string{
	"( (SENT (NP-SUJ (DET Le) (NC chat)) (VN (V dort)) (PONCT .)))",
	"( (SENT (NP-SUJ (DET Le) (ADJ petit) (NC chien)) (VN (V mange)) (NP-OBJ (DET la) (NC soupe)) (PONCT .)))",
	"( (SENT (NP-SUJ (NPP Marie)) (VN (V mange)) (PP-MOD (P à) (NP (NPP Paris))) (PONCT .)))",
	"( (SENT (NP-SUJ (AP (ADJ Rouge))) (VN (V gagne)) (PONCT !)))",
}

func quietOptions() TrainOptions {
	return TrainOptions{Logger: log.New(io.Discard, "", 0)}
}

func mustTrain(t *testing.T, lines []string) *Model {
	t.Helper()
	model, err := Train(lines, quietOptions())
	if err != nil {
		t.Fatal(err)
	}
	return model
}

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		line     string
		expected string
	}{
		{
			"( (SENT (NP-SUJ (DET Le) (NC chat)) (VN (V dort)) (PONCT .)))",
			"(SENT (NP (DET Le) (NC chat)) (VN (V dort)) (PONCT .))",
		},
		{
			"(SENT (PP-A_OBJ (P à) (NP (NPP Paris))))",
			"(SENT (PP (P à) (NP (NPP Paris))))",
		},
		{
			"( (SENT (ADV peut-être)))",
			"(SENT (ADV peut-être))",
		},
	}
	for _, c := range cases {
		if got := NormalizeTags(c.line); got != c.expected {
			t.Errorf("'%s' != '%s'", got, c.expected)
		}
	}
}

func TestTokens(t *testing.T) {
	tokens := Tokens(testCorpus[2])
	expected := []string{"Marie", "mange", "à", "Paris", "."}
	if !reflect.DeepEqual(tokens, expected) {
		t.Fatalf("%v != %v", tokens, expected)
	}
}

func TestExtract(t *testing.T) {
	lexical, productions, err := extract(testCorpus[0], DefaultRoot)
	if err != nil {
		t.Fatal(err)
	}
	expectedLexical := []lexicalCount{
		{"DET", "Le"}, {"NC", "chat"}, {"V", "dort"}, {"PONCT", "."},
	}
	if !reflect.DeepEqual(lexical, expectedLexical) {
		t.Fatalf("%v != %v", lexical, expectedLexical)
	}
	expectedProductions := []productionCount{
		{"NP", []string{"DET", "NC"}},
		{"VN", []string{"V"}},
		{"SENT", []string{"NP", "VN", "PONCT"}},
	}
	if !reflect.DeepEqual(productions, expectedProductions) {
		t.Fatalf("%v != %v", productions, expectedProductions)
	}
}

func TestTrain(t *testing.T) {
	model := mustTrain(t, testCorpus)
	checkCNF(t, model.Grammar)

	if model.Symbols.Name(model.Root) != "SENT" {
		t.Fatalf("root is %s", model.Symbols.Name(model.Root))
	}

	cases := []struct {
		left  string
		right []string
		want  float64
	}{
		{"SENT", []string{"NP", "VN_PONCT"}, 0.5},
		{"SENT", []string{"NP", "VN_NP_PONCT"}, 0.25},
		{"NP", []string{"DET", "NC"}, 1.0 / 3},
		{"NP", []string{"NPP"}, 1.0 / 3},
		{"NP", []string{"ADJ"}, 1.0 / 6},
		{"PP", []string{"P", "NP"}, 1},
		{"VN", []string{"V"}, 1},
	}
	for _, c := range cases {
		if w := mustFind(t, model.Grammar, c.left, c.right...).Weight; math.Abs(w-c.want) > 1e-12 {
			t.Errorf("%s -> %v: %f != %f", c.left, c.right, w, c.want)
		}
	}

	// NP -> AP was a chain rule
	np, _ := model.Symbols.Lookup("NP")
	ap, _ := model.Symbols.Lookup("AP")
	if _, ok := model.Grammar.Find(np, ap); ok {
		t.Fatal("NP -> AP should be eliminated")
	}

	det, _ := model.Symbols.Lookup("DET")
	if p := model.Lexicon.Prob(det, "Le"); math.Abs(p-2.0/3) > 1e-12 {
		t.Fatalf("P(Le | DET) = %f", p)
	}
	v, _ := model.Symbols.Lookup("V")
	if p := model.Lexicon.Prob(v, "mange"); p != 0.5 {
		t.Fatalf("P(mange | V) = %f", p)
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	m1 := mustTrain(t, testCorpus)
	m2 := mustTrain(t, testCorpus)

	if len(m1.Grammar.Rules) != len(m2.Grammar.Rules) {
		t.Fatal("different number of rules")
	}
	for i, r1 := range m1.Grammar.Rules {
		r2 := m2.Grammar.Rules[i]
		if r1.Format(m1.Symbols) != r2.Format(m2.Symbols) || r1.Weight != r2.Weight {
			t.Fatalf("'%s' != '%s'", r1.Format(m1.Symbols), r2.Format(m2.Symbols))
		}
	}
	if !reflect.DeepEqual(m1.Symbols.names, m2.Symbols.names) {
		t.Fatal("different symbol tables")
	}
}

func TestTrainMalformed(t *testing.T) {
	malformed := []string{
		"( (SENT (NP (DET Le) (NC chat)))",
		"( (S (NP (NPP Paris))))",
		"( (SENT (NP Le chat)))",
	}
	for _, line := range malformed {
		lines := append([]string{testCorpus[0]}, line)
		_, err := Train(lines, quietOptions())
		if !IsFormatError(err) {
			t.Errorf("format error expected for '%s', got %v", line, err)
		}
	}

	opts := quietOptions()
	opts.SkipMalformed = true
	trainer := NewTrainer(opts)
	for _, line := range append([]string{malformed[0], ""}, testCorpus...) {
		if err := trainer.AddLine(line); err != nil {
			t.Fatal(err)
		}
	}
	if trainer.Skipped() != 1 {
		t.Fatalf("%d lines skipped, 1 expected", trainer.Skipped())
	}
	if _, err := trainer.Model(); err != nil {
		t.Fatal(err)
	}
}

func TestTrainEmpty(t *testing.T) {
	if _, err := Train([]string{"", "  "}, quietOptions()); err == nil {
		t.Fatal("err != nil expected")
	}
}
