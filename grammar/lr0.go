package grammar

import (
	"fmt"
	"sort"
)

type lrState struct {
	*kernel
	num   int
	items []*lr0Item
	next  map[symbol]kernelID

	// reducible is the numbers of productions the state can reduce by, in ascending order.
	reducible []int

	// lookAhead maps a reducible production to the terminals the state reduces by it on.
	lookAhead map[int]symbolSet
}

type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState
}

// stateList returns the states in the order of their numbers.
func (a *lr0Automaton) stateList() []*lrState {
	states := make([]*lrState, len(a.states))
	for _, state := range a.states {
		states[state.num] = state
	}
	return states
}

// genLR0Automaton builds the canonical LR(0) collection. States are numbered in the order a
// breadth-first walk from the initial state finds them, so the initial state is always 0.
func genLR0Automaton(prods *productionSet, startSym symbol) (*lr0Automaton, error) {
	if !startSym.isStart() {
		return nil, fmt.Errorf("%v is not the augmented start symbol", startSym)
	}
	startProds, ok := prods.findByLHS(startSym)
	if !ok || len(startProds) == 0 {
		return nil, fmt.Errorf("the augmented start symbol has no production")
	}

	initialItem, err := newLR0Item(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	initialKernel, err := newKernel([]*lr0Item{initialItem})
	if err != nil {
		return nil, err
	}

	automaton := &lr0Automaton{
		initialState: initialKernel.id,
		states:       map[kernelID]*lrState{},
	}

	queue := []*kernel{initialKernel}
	queued := map[kernelID]struct{}{
		initialKernel.id: {},
	}
	for num := 0; len(queue) > 0; num++ {
		k := queue[0]
		queue = queue[1:]

		state, neighbours, err := genState(k, prods)
		if err != nil {
			return nil, err
		}
		state.num = num
		automaton.states[k.id] = state

		for _, n := range neighbours {
			if _, ok := queued[n.id]; ok {
				continue
			}
			queued[n.id] = struct{}{}
			queue = append(queue, n)
		}
	}

	return automaton, nil
}

// genState expands a kernel to a state and returns the kernels of its successors in ascending
// order of their transition symbols.
func genState(k *kernel, prods *productionSet) (*lrState, []*kernel, error) {
	items, err := genClosure(k, prods)
	if err != nil {
		return nil, nil, err
	}

	var syms []symbol
	moved := map[symbol][]*lr0Item{}
	var reducible []int
	for _, item := range items {
		if item.reducible {
			reducible = append(reducible, item.prod)
			continue
		}
		nextItem, err := item.next(prods)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := moved[item.dottedSymbol]; !ok {
			syms = append(syms, item.dottedSymbol)
		}
		moved[item.dottedSymbol] = append(moved[item.dottedSymbol], nextItem)
	}
	sort.Ints(reducible)
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})

	next := map[symbol]kernelID{}
	neighbours := make([]*kernel, 0, len(syms))
	for _, sym := range syms {
		n, err := newKernel(moved[sym])
		if err != nil {
			return nil, nil, err
		}
		next[sym] = n.id
		neighbours = append(neighbours, n)
	}

	return &lrState{
		kernel:    k,
		items:     items,
		next:      next,
		reducible: reducible,
		lookAhead: map[int]symbolSet{},
	}, neighbours, nil
}

// genClosure returns the kernel items followed by every item predicted from them.
func genClosure(k *kernel, prods *productionSet) ([]*lr0Item, error) {
	items := make([]*lr0Item, 0, len(k.items))
	known := map[lr0ItemID]struct{}{}
	for _, item := range k.items {
		items = append(items, item)
		known[item.id] = struct{}{}
	}

	expanded := map[symbol]struct{}{}
	for i := 0; i < len(items); i++ {
		sym := items[i].dottedSymbol
		if sym.isNil() || sym.isTerminal() {
			continue
		}
		if _, ok := expanded[sym]; ok {
			continue
		}
		expanded[sym] = struct{}{}

		ps, _ := prods.findByLHS(sym)
		for _, prod := range ps {
			item, err := newLR0Item(prod, 0)
			if err != nil {
				return nil, err
			}
			if _, ok := known[item.id]; ok {
				continue
			}
			known[item.id] = struct{}{}
			items = append(items, item)
		}
	}

	return items, nil
}
