package grammar

import (
	"fmt"
)

type followSet struct {
	nonTerms map[symbol]symbolSet
}

func (flw *followSet) find(sym symbol) (symbolSet, error) {
	e, ok := flw.nonTerms[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW of every non-terminal. The end of input follows the augmented start
// symbol, so FOLLOW sets contain the EOF terminal rather than a separate flag.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := &followSet{
		nonTerms: map[symbol]symbolSet{},
	}
	all := prods.getAllProductions()
	for _, prod := range all {
		if _, ok := flw.nonTerms[prod.lhs]; ok {
			continue
		}
		e := symbolSet{}
		if prod.lhs.isStart() {
			e.add(symbolEOF)
		}
		flw.nonTerms[prod.lhs] = e
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range all {
			for i, sym := range prod.rhs {
				if sym.isTerminal() {
					continue
				}
				e, err := flw.find(sym)
				if err != nil {
					return nil, err
				}
				rest, err := first.find(prod, i+1)
				if err != nil {
					return nil, err
				}
				if e.addAll(rest.symbols) {
					changed = true
				}
				if rest.empty && e.addAll(flw.nonTerms[prod.lhs]) {
					changed = true
				}
			}
		}
	}

	return flw, nil
}
