package pcfg

import (
	"testing"
)

func TestSymbolTable(t *testing.T) {
	symbols := NewSymbolTable()
	np := symbols.Intern("NP")
	if symbols.Intern("NP") != np {
		t.Fatal("interning twice should return the same symbol")
	}
	a := symbols.InternTerminal("A")
	tagA := symbols.Intern("A")
	if a == tagA {
		t.Fatal("terminal and non-terminal with the same spelling must differ")
	}

	v := symbols.Intern("V")
	pp := symbols.Intern("PP")
	vpp := symbols.Join(v, pp)
	if symbols.Name(vpp) != "V_PP" {
		t.Fatalf("'%s' != 'V_PP'", symbols.Name(vpp))
	}
	if !symbols.IsComposite(vpp) || symbols.IsComposite(np) {
		t.Fatal("only V_PP is composite")
	}
	if symbols.Kind(vpp) != Composite {
		t.Fatal("V_PP should have the Composite kind")
	}
	if _, ok := symbols.Lookup("V_PP"); ok {
		t.Fatal("composite symbols are not non-terminals")
	}

	word := symbols.InternTerminal("pomme_de_terre")
	if symbols.IsComposite(word) {
		t.Fatal("terminals are never composite")
	}
	if symbols.Len() != 7 {
		t.Fatalf("%d symbols, 7 expected", symbols.Len())
	}
}
