package grammar

import "fmt"

type slr1Automaton struct {
	*lr0Automaton
}

// genSLR1Automaton makes every state reduce by a production on FOLLOW of its LHS.
func genSLR1Automaton(lr0 *lr0Automaton, prods *productionSet, follow *followSet) (*slr1Automaton, error) {
	for _, state := range lr0.stateList() {
		for _, prodNum := range state.reducible {
			prod, ok := prods.findByNum(prodNum)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodNum)
			}
			flw, err := follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			la := symbolSet{}
			la.addAll(flw)
			state.lookAhead[prodNum] = la
		}
	}

	return &slr1Automaton{
		lr0Automaton: lr0,
	}, nil
}
