package parser

import (
	"fmt"
	"strings"
	"testing"

	spec "github.com/nihei9/docblock/spec/grammar"
)

const (
	testSentinel   = -32766
	testUnexpected = 32767
)

// testTables describes tables by rows. The builder gives every row with entries a block of its
// own, so the packing never makes a lookup hit another row's slot.
type testTables struct {
	symbols      []string
	nonTerminals []string
	tokenToSym   []int
	numNonLeaf   int
	bound        int

	// actions maps an action row to its entries. A row number numNonLeaf + s is the overflow row
	// of a state s.
	actions      map[int]map[int]int
	defaults     []int
	gotos        map[int]map[int]int
	gotoDefaults []int

	ruleNT    []int
	ruleLen   []int
	ruleNames []string
}

func (tt *testTables) build() *spec.ParseTables {
	symCount := len(tt.symbols)

	rowCount := tt.numNonLeaf + tt.bound
	for row := range tt.actions {
		if row+1 > rowCount {
			rowCount = row + 1
		}
	}
	actionBase := make([]int, rowCount)
	action := []int{testSentinel}
	actionCheck := []int{spec.CheckMiss}
	for row := 0; row < rowCount; row++ {
		entries, ok := tt.actions[row]
		if !ok {
			continue
		}
		actionBase[row] = len(action)
		for sym := 0; sym < symCount; sym++ {
			v, ok := entries[sym]
			if !ok {
				action = append(action, testSentinel)
				actionCheck = append(actionCheck, spec.CheckMiss)
				continue
			}
			action = append(action, v)
			actionCheck = append(actionCheck, sym)
		}
	}

	ntCount := len(tt.nonTerminals)
	goToBase := make([]int, ntCount)
	goTo := []int{}
	goToCheck := []int{}
	for nt := 0; nt < ntCount; nt++ {
		goToBase[nt] = len(goTo)
		for state := 0; state < tt.numNonLeaf; state++ {
			v, ok := tt.gotos[nt][state]
			if !ok {
				goTo = append(goTo, 0)
				goToCheck = append(goToCheck, spec.CheckMiss)
				continue
			}
			goTo = append(goTo, v)
			goToCheck = append(goToCheck, nt)
		}
	}

	return &spec.ParseTables{
		Name:                  "test",
		TokenToSymbol:         tt.tokenToSym,
		TokenToSymbolMapSize:  len(tt.tokenToSym),
		Action:                action,
		ActionCheck:           actionCheck,
		ActionBase:            actionBase,
		ActionDefault:         tt.defaults,
		ActionTableSize:       len(action),
		GoTo:                  goTo,
		GoToCheck:             goToCheck,
		GoToBase:              goToBase,
		GoToDefault:           tt.gotoDefaults,
		GoToTableSize:         len(goTo),
		RuleToNonTerminal:     tt.ruleNT,
		RuleToLength:          tt.ruleLen,
		SymbolToName:          tt.symbols,
		NonTerminalToName:     tt.nonTerminals,
		RuleName:              tt.ruleNames,
		SymbolCount:           symCount,
		NumNonLeafStates:      tt.numNonLeaf,
		TwoTableStateBound:    tt.bound,
		InvalidSymbol:         symCount,
		ErrorSymbol:           1,
		DefaultActionSentinel: testSentinel,
		UnexpectedTokenRule:   testUnexpected,
	}
}

// seqTables returns tables of the grammar `S: a b` made of plain states only.
func seqTables() *testTables {
	return &testTables{
		symbols:      []string{"EOF", "error", "a", "b"},
		nonTerminals: []string{"$accept", "S"},
		tokenToSym:   []int{0, 2, 3},
		numNonLeaf:   4,
		actions: map[int]map[int]int{
			0: {2: 2},
			1: {0: 0},
			2: {3: 3},
		},
		defaults: []int{testUnexpected, testUnexpected, testUnexpected, 1},
		gotos: map[int]map[int]int{
			1: {0: 1},
		},
		gotoDefaults: []int{0, 1},
		ruleNT:       []int{0, 1},
		ruleLen:      []int{1, 2},
		ruleNames:    []string{"$accept: S", "S: a b"},
	}
}

// seqShiftReduceTables returns tables of the same grammar as seqTables. The state reducing `S: a b`
// is folded into the shift on `b`.
func seqShiftReduceTables() *testTables {
	tt := seqTables()
	tt.numNonLeaf = 3
	tt.actions = map[int]map[int]int{
		0: {2: 2},
		1: {0: 0},
		2: {3: 3 + 1},
	}
	tt.defaults = []int{testUnexpected, testUnexpected, testUnexpected}
	return tt
}

// chainTables returns tables of the grammar `S: T; T: a;` made of plain states only.
func chainTables() *testTables {
	return &testTables{
		symbols:      []string{"EOF", "error", "a"},
		nonTerminals: []string{"$accept", "S", "T"},
		tokenToSym:   []int{0, 2},
		numNonLeaf:   4,
		actions: map[int]map[int]int{
			0: {2: 3},
			1: {0: 0},
		},
		defaults: []int{testUnexpected, testUnexpected, 1, 2},
		gotos: map[int]map[int]int{
			1: {0: 1},
			2: {0: 2},
		},
		gotoDefaults: []int{0, 1, 2},
		ruleNT:       []int{0, 1, 2},
		ruleLen:      []int{1, 1, 1},
		ruleNames:    []string{"$accept: S", "S: T", "T: a"},
	}
}

// chainGoToReduceTables returns tables of the same grammar as chainTables. The shift on `a` carries
// the reduction of `T: a`, and the goto on `T` carries the reduction of `S: T`.
func chainGoToReduceTables() *testTables {
	tt := chainTables()
	tt.numNonLeaf = 2
	tt.actions = map[int]map[int]int{
		0: {2: 2 + 2},
		1: {0: 0},
	}
	tt.defaults = []int{testUnexpected, testUnexpected}
	tt.gotos = map[int]map[int]int{
		1: {0: 1},
		2: {0: 2 + 1},
	}
	tt.gotoDefaults = []int{0, 1, 2 + 1}
	return tt
}

func seqActions() ActionTable {
	return ActionTable{
		nil,
		func(rhs RHS) (any, error) {
			return fmt.Sprintf("S(%v,%v)", rhs.At(1), rhs.At(2)), nil
		},
	}
}

func chainActions() ActionTable {
	return ActionTable{
		nil,
		func(rhs RHS) (any, error) {
			return fmt.Sprintf("S(%v)", rhs.At(1)), nil
		},
		func(rhs RHS) (any, error) {
			return fmt.Sprintf("T(%v)", rhs.At(1)), nil
		},
	}
}

func mustTables(t *testing.T, tt *testTables) *Tables {
	t.Helper()

	tab, err := NewTables(tt.build())
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

type testToken struct {
	kind   int
	lexeme string
	row    int
	col    int
}

func (t *testToken) KindID() int {
	return t.kind
}

func (t *testToken) Lexeme() string {
	return t.lexeme
}

func (t *testToken) Position() (int, int) {
	return t.row, t.col
}

// testTokenStream returns its tokens in order, then `err` if any, then the EOF token forever.
type testTokenStream struct {
	toks []*testToken
	err  error
	pos  int
}

func newTestTokenStream(toks ...*testToken) *testTokenStream {
	return &testTokenStream{
		toks: toks,
	}
}

func (s *testTokenStream) Next() (VToken, error) {
	if s.pos < len(s.toks) {
		tok := s.toks[s.pos]
		s.pos++
		return tok, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return &testToken{kind: 0, row: 0, col: s.pos}, nil
}

type recorder struct {
	NopObserver
	events []string
}

func (r *recorder) ReadToken(symbol int, tok VToken) {
	r.events = append(r.events, fmt.Sprintf("read %v", symbol))
}

func (r *recorder) Shift(symbol int, state int) {
	r.events = append(r.events, fmt.Sprintf("shift %v", symbol))
}

func (r *recorder) Reduce(rule int) {
	r.events = append(r.events, fmt.Sprintf("reduce %v", rule))
}

func (r *recorder) Accept() {
	r.events = append(r.events, "accept")
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}
