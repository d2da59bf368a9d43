package grammar

import (
	"fmt"

	"github.com/nihei9/docblock/compressor"
	spec "github.com/nihei9/docblock/spec/grammar"
)

const (
	defaultActionSentinel = -32766
	unexpectedTokenRule   = 32767
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

type actionEntry struct {
	typ   ActionType
	state int
	prod  int
}

var actionEntryEmpty = actionEntry{
	typ: ActionTypeError,
}

func newShiftActionEntry(state int) actionEntry {
	return actionEntry{
		typ:   ActionTypeShift,
		state: state,
	}
}

func newReduceActionEntry(prod int) actionEntry {
	return actionEntry{
		typ:  ActionTypeReduce,
		prod: prod,
	}
}

func (e actionEntry) isEmpty() bool {
	return e.typ == ActionTypeError
}

const goToEntryEmpty = -1

// prodNumNil means a state has no default reduction.
const prodNumNil = -1

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state     int
	sym       symbol
	nextState int
	prodNum   int
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state    int
	sym      symbol
	prodNum1 int
	prodNum2 int
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

// ParsingTable is a dense SLR(1) table. States are numbered as the LR(0) automaton numbers them.
type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []int
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	// defaultReduce is the production each state reduces by when no entry applies, or prodNumNil.
	defaultReduce []int

	// leaf[state] is true when the state has no transition and reduces by its default production
	// on any input. A leaf state has no row in the packed tables.
	leaf []bool

	// code is the number a state has in the packed tables: a state number for a non-leaf state or
	// numNonLeafStates + production for a leaf state.
	code             []int
	numNonLeafStates int

	InitialState int
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) readGoTo(state int, nonTerm int) int {
	return t.goToTable[state*t.nonTerminalCount+nonTerm]
}

func (t *ParsingTable) writeGoTo(state int, sym symbol, nextState int) {
	t.goToTable[state*t.nonTerminalCount+sym.num()] = nextState
}

// setDefaultReductions makes the most frequent reduction of each state its default and removes
// the entries the default covers. The reduction by the production 0 is the acceptance and never
// becomes a default.
func (t *ParsingTable) setDefaultReductions() {
	t.defaultReduce = make([]int, t.stateCount)
	for state := 0; state < t.stateCount; state++ {
		counts := map[int]int{}
		for term := 0; term < t.terminalCount; term++ {
			act := t.readAction(state, term)
			if act.typ != ActionTypeReduce || act.prod == 0 {
				continue
			}
			counts[act.prod]++
		}

		def := prodNumNil
		for prod, n := range counts {
			if def == prodNumNil || n > counts[def] || n == counts[def] && prod < def {
				def = prod
			}
		}
		t.defaultReduce[state] = def
		if def == prodNumNil {
			continue
		}

		for term := 0; term < t.terminalCount; term++ {
			act := t.readAction(state, term)
			if act.typ == ActionTypeReduce && act.prod == def {
				t.writeAction(state, term, actionEntryEmpty)
			}
		}
	}
}

// foldLeafStates finds leaf states and numbers the states for the packed tables.
func (t *ParsingTable) foldLeafStates() {
	t.leaf = make([]bool, t.stateCount)
	for state := 0; state < t.stateCount; state++ {
		if state == t.InitialState || t.defaultReduce[state] == prodNumNil {
			continue
		}
		leaf := true
		for term := 0; term < t.terminalCount; term++ {
			if !t.readAction(state, term).isEmpty() {
				leaf = false
				break
			}
		}
		for nonTerm := 0; leaf && nonTerm < t.nonTerminalCount; nonTerm++ {
			if t.readGoTo(state, nonTerm) != goToEntryEmpty {
				leaf = false
			}
		}
		t.leaf[state] = leaf
	}

	t.code = make([]int, t.stateCount)
	num := 0
	for state := 0; state < t.stateCount; state++ {
		if t.leaf[state] {
			continue
		}
		t.code[state] = num
		num++
	}
	t.numNonLeafStates = num
	for state := 0; state < t.stateCount; state++ {
		if t.leaf[state] {
			t.code[state] = num + t.defaultReduce[state]
		}
	}
}

// pack lays the table out in the compressed form a parser driver executes.
func (t *ParsingTable) pack(ptab *spec.ParseTables) error {
	nonLeafStates := make([]int, 0, t.numNonLeafStates)
	for state := 0; state < t.stateCount; state++ {
		if !t.leaf[state] {
			nonLeafStates = append(nonLeafStates, state)
		}
	}

	{
		entries := make([]int, t.numNonLeafStates*t.terminalCount)
		actionDefault := make([]int, t.numNonLeafStates)
		for row, state := range nonLeafStates {
			for term := 0; term < t.terminalCount; term++ {
				v := defaultActionSentinel
				act := t.readAction(state, term)
				switch act.typ {
				case ActionTypeShift:
					v = t.code[act.state]
				case ActionTypeReduce:
					v = -act.prod
				}
				entries[row*t.terminalCount+term] = v
			}
			if def := t.defaultReduce[state]; def != prodNumNil {
				actionDefault[row] = def
			} else {
				actionDefault[row] = unexpectedTokenRule
			}
		}

		orig, err := compressor.NewOriginalTable(entries, t.terminalCount)
		if err != nil {
			return err
		}
		tab := compressor.NewRowDisplacementTable(defaultActionSentinel, compressor.CheckColumn, 1)
		err = tab.Compress(orig)
		if err != nil {
			return err
		}

		ptab.Action = tab.Entries
		ptab.ActionCheck = tab.Checks
		ptab.ActionBase = tab.RowDisplacement
		ptab.ActionDefault = actionDefault
		ptab.ActionTableSize = len(tab.Entries)
	}

	{
		// Rows are non-terminals and columns are non-leaf states.
		entries := make([]int, t.nonTerminalCount*t.numNonLeafStates)
		goToDefault := make([]int, t.nonTerminalCount)
		for nonTerm := 0; nonTerm < t.nonTerminalCount; nonTerm++ {
			counts := map[int]int{}
			for col, state := range nonLeafStates {
				v := goToEntryEmpty
				if next := t.readGoTo(state, nonTerm); next != goToEntryEmpty {
					v = t.code[next]
					counts[v]++
				}
				entries[nonTerm*t.numNonLeafStates+col] = v
			}

			def := goToEntryEmpty
			for v, n := range counts {
				if def == goToEntryEmpty || n > counts[def] || n == counts[def] && v < def {
					def = v
				}
			}
			if def == goToEntryEmpty {
				// Nothing goes to the non-terminal; the default is never used.
				goToDefault[nonTerm] = 0
				continue
			}
			goToDefault[nonTerm] = def
			for col := range nonLeafStates {
				if entries[nonTerm*t.numNonLeafStates+col] == def {
					entries[nonTerm*t.numNonLeafStates+col] = goToEntryEmpty
				}
			}
		}

		orig, err := compressor.NewOriginalTable(entries, t.numNonLeafStates)
		if err != nil {
			return err
		}
		tab := compressor.NewRowDisplacementTable(goToEntryEmpty, compressor.CheckRow, 0)
		err = tab.Compress(orig)
		if err != nil {
			return err
		}

		ptab.GoTo = tab.Entries
		ptab.GoToCheck = tab.Checks
		ptab.GoToBase = tab.RowDisplacement
		ptab.GoToDefault = goToDefault
		ptab.GoToTableSize = len(tab.Entries)
	}

	ptab.NumNonLeafStates = t.numNonLeafStates
	ptab.TwoTableStateBound = 0
	ptab.DefaultActionSentinel = defaultActionSentinel
	ptab.UnexpectedTokenRule = unexpectedTokenRule

	return nil
}

func (t *ParsingTable) String() string {
	return fmt.Sprintf("%v states (%v non-leaf), %v terminals, %v non-terminals", t.stateCount, t.numNonLeafStates, t.terminalCount, t.nonTerminalCount)
}
