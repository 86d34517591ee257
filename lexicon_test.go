package pcfg

import (
	"math"
	"testing"
)

func TestLexicon(t *testing.T) {
	symbols := NewSymbolTable()
	det := symbols.Intern("DET")
	pro := symbols.Intern("PRO")
	nc := symbols.Intern("NC")

	lexicon := NewLexicon(symbols)
	lexicon.Add(det, "le", 3)
	lexicon.Add(det, "la", 1)
	lexicon.Add(pro, "le", 1)
	lexicon.Add(pro, "la", 1)
	lexicon.Add(nc, "chat", 2)
	lexicon.Normalize()

	if p := lexicon.Prob(det, "le"); p != 0.75 {
		t.Fatalf("P(le | DET) = %f", p)
	}
	if p := lexicon.Prob(nc, "chat"); p != 1 {
		t.Fatalf("P(chat | NC) = %f", p)
	}
	if p := lexicon.Prob(nc, "le"); p != 0 {
		t.Fatalf("P(le | NC) = %f", p)
	}

	rev := lexicon.Reverse()
	dist, ok := rev.Lookup("le")
	if !ok {
		t.Fatal("le should be in the lexicon")
	}
	expected := TagDistribution{{Tag: det, Prob: 0.75}, {Tag: pro, Prob: 0.5}}
	if len(dist) != len(expected) {
		t.Fatalf("%v != %v", dist, expected)
	}
	for i := range dist {
		if dist[i] != expected[i] {
			t.Fatalf("%v != %v", dist, expected)
		}
	}
	if _, ok := rev.Lookup("chien"); ok {
		t.Fatal("chien is not in the lexicon")
	}
	if len(rev.Words()) != 3 || rev.Words()[2] != "chat" {
		t.Fatalf("unexpected words %v", rev.Words())
	}
	if len(rev.Tags()) != 3 {
		t.Fatalf("unexpected tags %v", rev.Tags())
	}
}

func TestTagDistribution(t *testing.T) {
	d := TagDistribution{{Tag: 0, Prob: 0.2}, {Tag: 1, Prob: 0.6}}.Normalize()
	if math.Abs(d.Sum()-1) > 1e-12 {
		t.Fatalf("sum is %f", d.Sum())
	}
	if math.Abs(d.Prob(1)-0.75) > 1e-12 {
		t.Fatalf("P(1) = %f", d.Prob(1))
	}
	if d.Prob(2) != 0 {
		t.Fatal("P(2) should be 0")
	}

	uniform := UniformDistribution([]Symbol{3, 4, 5, 6})
	if uniform.Sum() != 1 || uniform.Prob(5) != 0.25 {
		t.Fatalf("unexpected uniform distribution %v", uniform)
	}
}
