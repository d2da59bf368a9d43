package grammar

import (
	"testing"
)

// exprGrammar declares the classic expression grammar:
//
//	expr   : expr add term | term
//	term   : term mul factor | factor
//	factor : l_paren expr r_paren | id
func exprGrammar() *GrammarBuilder {
	b := NewGrammarBuilder("expr")
	b.Terminal("add", 1)
	b.Terminal("mul", 2)
	b.Terminal("l_paren", 3)
	b.Terminal("r_paren", 4)
	b.Terminal("id", 5)
	b.Rule("expr", "expr", "add", "term")
	b.Rule("expr", "term")
	b.Rule("term", "term", "mul", "factor")
	b.Rule("term", "factor")
	b.Rule("factor", "l_paren", "expr", "r_paren")
	b.Rule("factor", "id")
	return b
}

// emptyProdGrammar declares a grammar containing an empty production:
//
//	s   : foo bar
//	foo : /* empty */ | a
//	bar : b
func emptyProdGrammar() *GrammarBuilder {
	b := NewGrammarBuilder("empty")
	b.Terminal("a", 1)
	b.Terminal("b", 2)
	b.Rule("s", "foo", "bar")
	b.Rule("foo")
	b.Rule("foo", "a")
	b.Rule("bar", "b")
	return b
}

func mustBuild(t *testing.T, b *GrammarBuilder) *Grammar {
	t.Helper()

	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbolTable) testSymbolGenerator {
	return func(text string) symbol {
		t.Helper()

		sym, ok := symTab.toSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

// newTestProductionGenerator returns a generator that finds a production in a grammar. The production
// carries the number the grammar gave it.
func newTestProductionGenerator(t *testing.T, gram *Grammar, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		ps, _ := gram.prods.findByLHS(prod.lhs)
		for _, p := range ps {
			if p.equals(prod) {
				return p
			}
		}
		t.Fatalf("production was not found: %v", prod.text(gram.symTab))
		return nil
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lr0Item

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lr0Item {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}

		return item
	}
}

func genTestKernel(t *testing.T, items ...*lr0Item) *kernel {
	t.Helper()

	k, err := newKernel(items)
	if err != nil {
		t.Fatalf("failed to create a kernel: %v", err)
	}
	return k
}
