package parser

import (
	"fmt"
)

// noLookahead means the parser has to read a next token before deciding an action.
const noLookahead = -1

type ParserOption func(p *Parser) error

// Observe makes a parser report its events to `o`.
func Observe(o Observer) ParserOption {
	return func(p *Parser) error {
		if o == nil {
			return fmt.Errorf("an observer must be non-nil")
		}
		p.obs = o
		return nil
	}
}

// Parser runs the shift/reduce/goto automaton the tables describe. A Parser holds no state of
// a parse, so one Parser can run any number of parses concurrently.
type Parser struct {
	tab  *Tables
	acts ActionTable
	obs  Observer
}

func NewParser(tab *Tables, acts ActionTable, opts ...ParserOption) (*Parser, error) {
	if tab == nil {
		return nil, fmt.Errorf("tables are nil")
	}
	if len(acts) != tab.RuleCount() {
		return nil, fmt.Errorf("an action table must have %v entries; got: %v", tab.RuleCount(), len(acts))
	}

	p := &Parser{
		tab:  tab,
		acts: acts,
		obs:  NopObserver{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse reads tokens from `ts` until it accepts the input or fails. On success, it returns the value
// of the start symbol. The parser stops at the first error; it returns no partial result.
func (p *Parser) Parse(ts TokenStream) (any, error) {
	s := &parseState{
		p:          p,
		ts:         ts,
		stateStack: make([]int, 1, 64),
		semStack:   make([]any, 1, 64),
		symbol:     noLookahead,
	}
	return s.run()
}

// parseState is the state of one parse. The two stacks grow and shrink in lock-step; the bottom
// frame holds the state 0 and no value.
type parseState struct {
	p          *Parser
	ts         TokenStream
	stateStack []int
	semStack   []any
	symbol     int
	tok        VToken
}

func (s *parseState) run() (any, error) {
	tab := s.p.tab
	obs := s.p.obs

	obs.EnterState(s.top())
	for {
		state := s.top()
		if !tab.IsState(state) {
			return nil, &InternalError{
				Message: fmt.Sprintf("the parser cannot decide an action in the state %v", state),
			}
		}

		if s.symbol == noLookahead && !tab.DefaultOnly(state) {
			err := s.readToken()
			if err != nil {
				return nil, err
			}
		}

		act, _ := tab.Lookup(state, s.symbol)
		var rule int
		switch act.Type {
		case ActionTypeShift:
			s.shift(act.State)
			obs.EnterState(act.State)
			continue
		case ActionTypeShiftReduce:
			s.shift(act.State)
			rule = act.Rule
		case ActionTypeReduce:
			rule = act.Rule
		case ActionTypeAccept:
			obs.Accept()
			return s.semStack[len(s.semStack)-1], nil
		case ActionTypeError:
			return nil, s.syntaxError(state)
		default:
			return nil, &InternalError{
				Message: fmt.Sprintf("the state %v has no action on %v", state, tab.SymbolName(s.symbol)),
			}
		}

		err := s.reduce(rule)
		if err != nil {
			return nil, err
		}
	}
}

func (s *parseState) readToken() error {
	tok, err := s.ts.Next()
	if err != nil {
		return err
	}
	sym, ok := s.p.tab.Symbol(tok.KindID())
	if !ok {
		row, col := tok.Position()
		return &InvalidTokenError{
			KindID: tok.KindID(),
			Lexeme: tok.Lexeme(),
			Row:    row,
			Col:    col,
		}
	}
	s.symbol = sym
	s.tok = tok
	s.p.obs.ReadToken(sym, tok)
	return nil
}

func (s *parseState) shift(state int) {
	s.p.obs.Shift(s.symbol, state)
	s.push(state, s.tok.Lexeme())
	s.symbol = noLookahead
}

// reduce reduces by `rule` and keeps reducing while a goto target carries a reduction.
func (s *parseState) reduce(rule int) error {
	tab := s.p.tab
	for {
		n := tab.RuleLength(rule)
		if n > len(s.stateStack)-1 {
			return &InternalError{
				Message: fmt.Sprintf("the state stack underflows while reducing by the rule %v", rule),
			}
		}

		v, err := s.p.acts.run(rule, RHS{
			values: s.semStack[len(s.semStack)-n:],
		})
		if err != nil {
			return &ActionError{
				Rule:     rule,
				RuleName: tab.RuleName(rule),
				Cause:    err,
			}
		}
		s.pop(n)

		tgt := tab.GoTo(tab.RuleNonTerminal(rule), s.top())
		s.push(tgt.State, v)
		s.p.obs.Reduce(rule)
		if !tgt.Reduces() {
			s.p.obs.EnterState(tgt.State)
			return nil
		}
		rule = tgt.Then.Rule
	}
}

func (s *parseState) syntaxError(state int) error {
	tab := s.p.tab

	// A default-only state decides without a token, so the offending token may be still unread.
	if s.symbol == noLookahead {
		err := s.readToken()
		if err != nil {
			return err
		}
	}

	var expected []string
	if syms := tab.Expected(state); len(syms) <= maxExpectedSymbols {
		for _, sym := range syms {
			expected = append(expected, tab.SymbolName(sym))
		}
	}
	row, col := s.tok.Position()
	return &SyntaxError{
		Symbol:   tab.SymbolName(s.symbol),
		Expected: expected,
		Token:    s.tok,
		Row:      row,
		Col:      col,
	}
}

func (s *parseState) top() int {
	return s.stateStack[len(s.stateStack)-1]
}

func (s *parseState) push(state int, v any) {
	s.stateStack = append(s.stateStack, state)
	s.semStack = append(s.semStack, v)
}

func (s *parseState) pop(n int) {
	s.stateStack = s.stateStack[:len(s.stateStack)-n]
	s.semStack = s.semStack[:len(s.semStack)-n]
}
