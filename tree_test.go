package pcfg

import (
	"testing"
)

func TestDeBinarize(t *testing.T) {
	symbols := NewSymbolTable()
	sent := symbols.Intern("SENT")
	np := symbols.Intern("NP")
	vn := symbols.Intern("VN")
	pp := symbols.Intern("PP")
	ponct := symbols.Intern("PONCT")
	v := symbols.Intern("V")
	npp := symbols.Intern("NPP")
	p := symbols.Intern("P")
	ppPonct := symbols.Join(pp, ponct)
	vnPPPonct := symbols.Join(vn, ppPonct)

	tree := &Tree{
		Symbols: symbols,
		Root: &Internal{Label: sent, Children: []Node{
			&Internal{Label: np, Children: []Node{&Leaf{Label: npp, Word: "Marie"}}},
			&Internal{Label: vnPPPonct, Children: []Node{
				&Internal{Label: vn, Children: []Node{&Leaf{Label: v, Word: "va"}}},
				&Internal{Label: ppPonct, Children: []Node{
					&Internal{Label: pp, Children: []Node{
						&Leaf{Label: p, Word: "à"},
						&Internal{Label: np, Children: []Node{&Leaf{Label: npp, Word: "Paris"}}},
					}},
					&Leaf{Label: ponct, Word: "."},
				}},
			}},
		}},
	}

	binarized := "(SENT (NP (NPP Marie)) (VN_PP_PONCT (VN (V va)) (PP_PONCT (PP (P à) (NP (NPP Paris))) (PONCT .))))"
	if tree.String() != binarized {
		t.Fatalf("'%s' != '%s'", tree.String(), binarized)
	}

	tree.DeBinarize()
	expected := "(SENT (NP (NPP Marie)) (VN (V va)) (PP (P à) (NP (NPP Paris))) (PONCT .))"
	if tree.String() != expected {
		t.Fatalf("'%s' != '%s'", tree.String(), expected)
	}
	if FormatSentence(tree) != "( "+expected+")" {
		t.Fatalf("unexpected sentence '%s'", FormatSentence(tree))
	}

	// Nothing left to splice
	tree.DeBinarize()
	if tree.String() != expected {
		t.Fatal("DeBinarize should be idempotent")
	}
}

func TestDeBinarizeRoundTrip(t *testing.T) {
	// Every line of the corpus is the only derivation of its tokens, except
	// the last one whose chain NP -> AP is collapsed by training
	model := mustTrain(t, testCorpus)
	parser := mustNewParser(t, model, ParserOptions{})

	for i, line := range testCorpus[:3] {
		tree, err := parser.Parse(Tokens(line))
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		expected := "( " + NormalizeTags(line) + ")"
		if FormatSentence(tree) != expected {
			t.Errorf("'%s' != '%s'", FormatSentence(tree), expected)
		}
	}

	tree, err := parser.Parse(Tokens(testCorpus[3]))
	if err != nil {
		t.Fatal(err)
	}
	expected := "(SENT (NP (ADJ Rouge)) (VN (V gagne)) (PONCT !))"
	if tree.String() != expected {
		t.Fatalf("'%s' != '%s'", tree.String(), expected)
	}
}

func TestBuildTreeTokenMismatch(t *testing.T) {
	_, chart, err := toyChart(t, "a", "b", "c")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildTree(chart, []string{"a", "b"}); err == nil {
		t.Fatal("err != nil expected")
	}
}
