package parser

import (
	"fmt"
	"io"
)

// Observer receives the events of a parser. Observers never change what a parser does.
type Observer interface {
	// EnterState runs when a state gets on the top of the state stack.
	EnterState(state int)

	// ReadToken runs when the parser reads a token and maps it to `symbol`.
	ReadToken(symbol int, tok VToken)

	// Shift runs when the parser shifts `symbol` and pushes `state`.
	Shift(symbol int, state int)

	// Reduce runs when the parser has reduced by `rule`.
	Reduce(rule int)

	// Accept runs when the parser accepts an input.
	Accept()

	// DiscardState and DiscardSymbol belong to error recovery. The parser stops at the first error,
	// so it never calls them.
	DiscardState(state int)
	DiscardSymbol(symbol int)
}

var (
	_ Observer = NopObserver{}
	_ Observer = &Tracer{}
)

type NopObserver struct{}

func (NopObserver) EnterState(state int) {
}

func (NopObserver) ReadToken(symbol int, tok VToken) {
}

func (NopObserver) Shift(symbol int, state int) {
}

func (NopObserver) Reduce(rule int) {
}

func (NopObserver) Accept() {
}

func (NopObserver) DiscardState(state int) {
}

func (NopObserver) DiscardSymbol(symbol int) {
}

// Tracer writes a line per event.
type Tracer struct {
	w   io.Writer
	tab *Tables
}

func NewTracer(w io.Writer, tab *Tables) *Tracer {
	return &Tracer{
		w:   w,
		tab: tab,
	}
}

func (t *Tracer) EnterState(state int) {
	fmt.Fprintf(t.w, "state %v\n", state)
}

func (t *Tracer) ReadToken(symbol int, tok VToken) {
	fmt.Fprintf(t.w, "read %v %q\n", t.tab.SymbolName(symbol), tok.Lexeme())
}

func (t *Tracer) Shift(symbol int, state int) {
	fmt.Fprintf(t.w, "shift %v\n", t.tab.SymbolName(symbol))
}

func (t *Tracer) Reduce(rule int) {
	fmt.Fprintf(t.w, "reduce by (%v) %v\n", rule, t.tab.RuleName(rule))
}

func (t *Tracer) Accept() {
	fmt.Fprintf(t.w, "accept\n")
}

func (t *Tracer) DiscardState(state int) {
	fmt.Fprintf(t.w, "discard state %v\n", state)
}

func (t *Tracer) DiscardSymbol(symbol int) {
	fmt.Fprintf(t.w, "discard %v\n", t.tab.SymbolName(symbol))
}
