package pcfg

import (
	"testing"
)

func TestParseRule(t *testing.T) {
	symbols := NewSymbolTable()

	// TestCase-1
	r, err := ParseRule(symbols, "VP ::= V NP PP")
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 1 {
		t.Fatal("len(r) == 1")
	}

	expected := "VP ::= V NP PP ; 1.000"
	if r[0].Format(symbols) != expected {
		t.Fatalf("'%s' != '%s'", r[0].Format(symbols), expected)
	}

	// TestCase-2
	r, err = ParseRule(symbols, `NP ::= DET NC|"Paris";0.3`)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 {
		t.Fatal("len(r) == 2")
	}

	expected = "NP ::= DET NC ; 1.000"
	if r[0].Format(symbols) != expected {
		t.Fatalf("'%s' != '%s'", r[0].Format(symbols), expected)
	}
	expected = `NP ::= "Paris" ; 0.300`
	if r[1].Format(symbols) != expected {
		t.Fatalf("'%s' != '%s'", r[1].Format(symbols), expected)
	}
	if !symbols.IsTerminal(r[1].Right[0]) {
		t.Fatal("\"Paris\" should be a terminal")
	}
	if _, ok := symbols.Lookup("Paris"); ok {
		t.Fatal("terminal \"Paris\" should not be a non-terminal")
	}

	// TestCase-3: failed case
	failures := []string{
		`NP ::= "Paris ; 0.3`,
		`"NP" ::= DET NC`,
		`NP ::= DET NC ; high`,
		`NP ::= DET ; 0.3 ; 0.4`,
		`NP DET NC`,
		`NP ::= ; 0.3`,
	}
	for _, text := range failures {
		if _, err := ParseRule(symbols, text); err == nil {
			t.Fatalf("err != nil expected for '%s'", text)
		}
	}
}

func TestParseGrammar(t *testing.T) {
	symbols := NewSymbolTable()
	g, err := ParseGrammar(symbols, `
; comment
S ::= NP VP ; 2
S ::= NP VP ; 1 | VP
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Rules) != 2 {
		t.Fatalf("%d rules, 2 expected", len(g.Rules))
	}
	np, _ := symbols.Lookup("NP")
	vp, _ := symbols.Lookup("VP")
	s, _ := symbols.Lookup("S")
	rule, ok := g.Find(s, np, vp)
	if !ok || rule.Weight != 3 {
		t.Fatalf("S ::= NP VP should accumulate to 3, got %v", rule)
	}
}
