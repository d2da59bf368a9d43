package grammar

import (
	"fmt"
	"math"
)

// symbol is a terminal or a non-terminal. A terminal is its terminal number itself, and
// a non-terminal numbered n is -(n + 1).
type symbol int

const (
	symbolNil   = symbol(math.MinInt32)
	symbolEOF   = symbol(0)
	symbolError = symbol(1)

	// symbolStart is the augmented start symbol `$accept`.
	symbolStart = symbol(-1)
)

const (
	terminalNameEOF   = "EOF"
	terminalNameError = "error"
	nonTerminalStart  = "$accept"

	// kindNil means a terminal no token kind maps to.
	kindNil = -1
)

func newTerminalSymbol(num int) symbol {
	return symbol(num)
}

func newNonTerminalSymbol(num int) symbol {
	return symbol(-(num + 1))
}

func (s symbol) isNil() bool {
	return s == symbolNil
}

func (s symbol) isTerminal() bool {
	return !s.isNil() && s >= 0
}

func (s symbol) isStart() bool {
	return s == symbolStart
}

// num returns the terminal number or the non-terminal number.
func (s symbol) num() int {
	if s.isTerminal() {
		return int(s)
	}
	return -int(s) - 1
}

func (s symbol) String() string {
	switch {
	case s.isNil():
		return "<nil>"
	case s.isTerminal():
		return fmt.Sprintf("t%v", s.num())
	}
	return fmt.Sprintf("n%v", s.num())
}

type symbolTable struct {
	termTexts    []string
	termKinds    []int
	nonTermTexts []string
	text2Sym     map[string]symbol
	kind2Sym     map[int]symbol
}

func newSymbolTable() *symbolTable {
	t := &symbolTable{
		text2Sym: map[string]symbol{},
		kind2Sym: map[int]symbol{},
	}
	t.termTexts = []string{terminalNameEOF, terminalNameError}
	t.termKinds = []int{0, kindNil}
	t.text2Sym[terminalNameEOF] = symbolEOF
	t.text2Sym[terminalNameError] = symbolError
	t.kind2Sym[0] = symbolEOF

	t.nonTermTexts = []string{nonTerminalStart}
	t.text2Sym[nonTerminalStart] = symbolStart

	return t
}

func (t *symbolTable) registerTerminal(text string, kind int) (symbol, error) {
	if _, ok := t.text2Sym[text]; ok {
		return symbolNil, semErrDuplicateTerminal
	}
	if kind <= 0 {
		return symbolNil, semErrInvalidKind
	}
	if _, ok := t.kind2Sym[kind]; ok {
		return symbolNil, semErrDuplicateKind
	}

	sym := newTerminalSymbol(len(t.termTexts))
	t.termTexts = append(t.termTexts, text)
	t.termKinds = append(t.termKinds, kind)
	t.text2Sym[text] = sym
	t.kind2Sym[kind] = sym
	return sym, nil
}

// registerNonTerminal returns the symbol of `text`, registering it when it is new.
func (t *symbolTable) registerNonTerminal(text string) (symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if sym.isTerminal() {
			return symbolNil, semErrDuplicateName
		}
		return sym, nil
	}

	sym := newNonTerminalSymbol(len(t.nonTermTexts))
	t.nonTermTexts = append(t.nonTermTexts, text)
	t.text2Sym[text] = sym
	return sym, nil
}

func (t *symbolTable) toSymbol(text string) (symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

func (t *symbolTable) toText(sym symbol) string {
	if sym.isNil() {
		return sym.String()
	}
	if sym.isTerminal() {
		return t.termTexts[sym.num()]
	}
	return t.nonTermTexts[sym.num()]
}

func (t *symbolTable) terminalCount() int {
	return len(t.termTexts)
}

func (t *symbolTable) nonTerminalCount() int {
	return len(t.nonTermTexts)
}

// maxKind returns the largest token kind a terminal declares.
func (t *symbolTable) maxKind() int {
	max := 0
	for kind := range t.kind2Sym {
		if kind > max {
			max = kind
		}
	}
	return max
}
