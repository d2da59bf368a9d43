package grammar

import "fmt"

// symbolSet is a set of terminal symbols.
type symbolSet map[symbol]struct{}

func (s symbolSet) add(sym symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

func (s symbolSet) addAll(t symbolSet) bool {
	changed := false
	for sym := range t {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

// firstEntry is FIRST of a symbol sequence. empty is true when the sequence can derive the empty
// string.
type firstEntry struct {
	symbols symbolSet
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: symbolSet{},
	}
}

type firstSet struct {
	nonTerms map[symbol]*firstEntry
}

// genFirstSet computes FIRST of every non-terminal by iterating until no entry grows.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := &firstSet{
		nonTerms: map[symbol]*firstEntry{},
	}
	all := prods.getAllProductions()
	for _, prod := range all {
		if _, ok := fst.nonTerms[prod.lhs]; !ok {
			fst.nonTerms[prod.lhs] = newFirstEntry()
		}
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range all {
			e, err := fst.ofSequence(prod.rhs)
			if err != nil {
				return nil, err
			}
			acc := fst.nonTerms[prod.lhs]
			if acc.symbols.addAll(e.symbols) {
				changed = true
			}
			if e.empty && !acc.empty {
				acc.empty = true
				changed = true
			}
		}
	}

	return fst, nil
}

// find returns FIRST of the symbol sequence following the `head`-th symbol of the RHS of `prod`.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if head > len(prod.rhs) {
		head = len(prod.rhs)
	}
	return fst.ofSequence(prod.rhs[head:])
}

func (fst *firstSet) ofSequence(syms []symbol) (*firstEntry, error) {
	e := newFirstEntry()
	for _, sym := range syms {
		if sym.isTerminal() {
			e.symbols.add(sym)
			return e, nil
		}
		nonTerm, ok := fst.nonTerms[sym]
		if !ok {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		e.symbols.addAll(nonTerm.symbols)
		if !nonTerm.empty {
			return e, nil
		}
	}
	e.empty = true
	return e, nil
}
