package grammar

import (
	"fmt"
	"sort"

	spec "github.com/nihei9/docblock/spec/grammar"
)

type lrTableBuilder struct {
	automaton *slr1Automaton
	prods     *productionSet
	symTab    *symbolTable

	conflicts []conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	termCount := b.symTab.terminalCount()
	nonTermCount := b.symTab.nonTerminalCount()

	var ptab *ParsingTable
	{
		initialState := b.automaton.states[b.automaton.initialState]
		ptab = &ParsingTable{
			actionTable:      make([]actionEntry, len(b.automaton.states)*termCount),
			goToTable:        make([]int, len(b.automaton.states)*nonTermCount),
			stateCount:       len(b.automaton.states),
			terminalCount:    termCount,
			nonTerminalCount: nonTermCount,
			InitialState:     initialState.num,
		}
		for i := range ptab.actionTable {
			ptab.actionTable[i] = actionEntryEmpty
		}
		for i := range ptab.goToTable {
			ptab.goToTable[i] = goToEntryEmpty
		}
	}

	for _, state := range b.automaton.stateList() {
		for sym, kID := range state.next {
			nextState := b.automaton.states[kID]
			if sym.isTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState.num)
			} else {
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		for _, prodNum := range state.reducible {
			la, ok := state.lookAhead[prodNum]
			if !ok {
				return nil, fmt.Errorf("look-ahead symbols not found; state: %v, production: %v", state.num, prodNum)
			}
			syms := make([]symbol, 0, len(la))
			for sym := range la {
				syms = append(syms, sym)
			}
			sort.Slice(syms, func(i, j int) bool {
				return syms[i] < syms[j]
			})
			for _, sym := range syms {
				b.writeReduceAction(ptab, state.num, sym, prodNum)
			}
		}
	}

	if len(b.conflicts) > 0 {
		return ptab, nil
	}

	ptab.setDefaultReductions()
	ptab.foldLeafStates()

	return ptab, nil
}

// writeShiftAction writes a shift action to the parsing table. Shift/reduce conflicts are recorded
// and the shift action is kept so that the table stays complete for a report.
func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state int, sym symbol, nextState int) {
	act := tab.readAction(state, sym.num())
	if act.typ == ActionTypeReduce {
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:     state,
			sym:       sym,
			nextState: nextState,
			prodNum:   act.prod,
		})
	}
	tab.writeAction(state, sym.num(), newShiftActionEntry(nextState))
}

// writeReduceAction writes a reduce action to the parsing table. A grammar with conflicts is never
// compiled, so a conflicting entry only keeps the action written first.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state int, sym symbol, prod int) {
	act := tab.readAction(state, sym.num())
	switch act.typ {
	case ActionTypeReduce:
		if act.prod == prod {
			return
		}
		b.conflicts = append(b.conflicts, &reduceReduceConflict{
			state:    state,
			sym:      sym,
			prodNum1: act.prod,
			prodNum2: prod,
		})
		return
	case ActionTypeShift:
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:     state,
			sym:       sym,
			nextState: act.state,
			prodNum:   prod,
		})
		return
	}
	tab.writeAction(state, sym.num(), newReduceActionEntry(prod))
}

func (b *lrTableBuilder) genReport(tab *ParsingTable) (*spec.Report, error) {
	var terms []*spec.Terminal
	{
		terms = make([]*spec.Terminal, b.symTab.terminalCount())
		for num := range terms {
			terms[num] = &spec.Terminal{
				Number: num,
				Name:   b.symTab.termTexts[num],
				Kind:   b.symTab.termKinds[num],
			}
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTerms = make([]*spec.NonTerminal, b.symTab.nonTerminalCount())
		for num := range nonTerms {
			nonTerms[num] = &spec.NonTerminal{
				Number: num,
				Name:   b.symTab.nonTermTexts[num],
			}
		}
	}

	var prods []*spec.Production
	{
		ps := b.prods.getAllProductions()
		prods = make([]*spec.Production, len(ps))
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				rhs[i] = int(e)
			}

			prods[p.num] = &spec.Production{
				Number: p.num,
				LHS:    p.lhs.num(),
				RHS:    rhs,
			}
		}
	}

	var states []*spec.State
	{
		states = make([]*spec.State, len(b.automaton.states))
		for _, s := range b.automaton.stateList() {
			kernel := make([]*spec.Item, len(s.kernel.items))
			for i, item := range s.kernel.items {
				kernel[i] = &spec.Item{
					Production: item.prod,
					Dot:        item.dot,
				}
			}

			var shift []*spec.Transition
			var reduce []*spec.Reduce
			var goTo []*spec.Transition
			accept := false
			{
			TERMINALS_LOOP:
				for t := 0; t < tab.terminalCount; t++ {
					act := tab.readAction(s.num, t)
					switch act.typ {
					case ActionTypeShift:
						shift = append(shift, &spec.Transition{
							Symbol: t,
							State:  act.state,
						})
					case ActionTypeReduce:
						if act.prod == 0 {
							accept = true
						}
						for _, r := range reduce {
							if r.Production == act.prod {
								r.LookAhead = append(r.LookAhead, t)
								continue TERMINALS_LOOP
							}
						}
						reduce = append(reduce, &spec.Reduce{
							LookAhead:  []int{t},
							Production: act.prod,
						})
					}
				}

				for n := 0; n < tab.nonTerminalCount; n++ {
					next := tab.readGoTo(s.num, n)
					if next == goToEntryEmpty {
						continue
					}
					goTo = append(goTo, &spec.Transition{
						Symbol: n,
						State:  next,
					})
				}

				sort.Slice(shift, func(i, j int) bool {
					return shift[i].State < shift[j].State
				})
				sort.Slice(reduce, func(i, j int) bool {
					return reduce[i].Production < reduce[j].Production
				})
				sort.Slice(goTo, func(i, j int) bool {
					return goTo[i].State < goTo[j].State
				})
			}

			states[s.num] = &spec.State{
				Number:        s.num,
				Code:          tab.code[s.num],
				Leaf:          tab.leaf[s.num],
				Kernel:        kernel,
				Shift:         shift,
				Reduce:        reduce,
				GoTo:          goTo,
				DefaultAction: tab.defaultReduce[s.num],
				Accept:        accept,
			}
		}
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}
