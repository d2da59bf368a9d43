package parser

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		caption string
		tables  *testTables
		acts    ActionTable
		toks    []*testToken
		result  any
		reduces []string
	}{
		{
			caption: "plain states",
			tables:  seqTables(),
			acts:    seqActions(),
			toks: []*testToken{
				{kind: 1, lexeme: "x"},
				{kind: 2, lexeme: "y"},
			},
			result:  "S(x,y)",
			reduces: []string{"reduce 1"},
		},
		{
			caption: "a shift-reduce behaves the same as a shift to a state reducing immediately",
			tables:  seqShiftReduceTables(),
			acts:    seqActions(),
			toks: []*testToken{
				{kind: 1, lexeme: "x"},
				{kind: 2, lexeme: "y"},
			},
			result:  "S(x,y)",
			reduces: []string{"reduce 1"},
		},
		{
			caption: "plain states reducing in a chain",
			tables:  chainTables(),
			acts:    chainActions(),
			toks: []*testToken{
				{kind: 1, lexeme: "x"},
			},
			result:  "S(T(x))",
			reduces: []string{"reduce 2", "reduce 1"},
		},
		{
			caption: "a goto-reduce behaves the same as a goto to a state reducing immediately",
			tables:  chainGoToReduceTables(),
			acts:    chainActions(),
			toks: []*testToken{
				{kind: 1, lexeme: "x"},
			},
			result:  "S(T(x))",
			reduces: []string{"reduce 2", "reduce 1"},
		},
		{
			caption: "a nil action passes the first value through",
			tables:  chainGoToReduceTables(),
			acts:    ActionTable{nil, nil, nil},
			toks: []*testToken{
				{kind: 1, lexeme: "x"},
			},
			result:  "x",
			reduces: []string{"reduce 2", "reduce 1"},
		},
		{
			caption: "an overflow row drives a shift",
			tables:  twoTableTables(),
			acts:    ActionTable{nil},
			toks: []*testToken{
				{kind: 2, lexeme: "y"},
			},
			result: "y",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			rec := &recorder{}
			p, err := NewParser(mustTables(t, tt.tables), tt.acts, Observe(rec))
			if err != nil {
				t.Fatal(err)
			}
			result, err := p.Parse(newTestTokenStream(tt.toks...))
			if err != nil {
				t.Fatal(err)
			}
			if result != tt.result {
				t.Fatalf("unexpected result; want: %v, got: %v", tt.result, result)
			}

			var reduces []string
			for _, e := range rec.events {
				if strings.HasPrefix(e, "reduce") {
					reduces = append(reduces, e)
				}
			}
			if !reflect.DeepEqual(reduces, tt.reduces) {
				t.Fatalf("unexpected reductions; want: %v, got: %v", tt.reduces, reduces)
			}
			if rec.count("accept") != 1 {
				t.Fatalf("the parser must accept once; events: %v", rec.events)
			}
		})
	}
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	diagTables := func(accepted ...int) *testTables {
		row := map[int]int{
			// Nobody can input the error symbol, so it is never listed.
			1: 1,
		}
		for _, sym := range accepted {
			row[sym] = 1
		}
		return &testTables{
			symbols:      []string{"EOF", "error", "a", "b", "c", "d", "e", "z"},
			nonTerminals: []string{"$accept"},
			tokenToSym:   []int{0, 2, 3, 4, 5, 6, 7},
			numNonLeaf:   2,
			actions: map[int]map[int]int{
				0: row,
				1: {0: 0},
			},
			defaults:     []int{testUnexpected, testUnexpected},
			gotoDefaults: []int{0},
			ruleNT:       []int{0},
			ruleLen:      []int{1},
		}
	}

	tests := []struct {
		caption  string
		tables   *testTables
		toks     []*testToken
		symbol   string
		expected []string
		message  string
	}{
		{
			caption: "a state accepting four symbols lists all of them",
			tables:  diagTables(2, 3, 4, 5),
			toks: []*testToken{
				{kind: 6, lexeme: "?", row: 1, col: 2},
			},
			symbol:   "z",
			expected: []string{"a", "b", "c", "d"},
			message:  "syntax error: unexpected z, expecting a or b or c or d",
		},
		{
			caption: "a state accepting five symbols lists none of them",
			tables:  diagTables(2, 3, 4, 5, 6),
			toks: []*testToken{
				{kind: 6, lexeme: "?", row: 1, col: 2},
			},
			symbol:  "z",
			message: "syntax error: unexpected z",
		},
		{
			caption: "a trailing token after a complete input",
			tables:  seqTables(),
			toks: []*testToken{
				{kind: 1, lexeme: "x"},
				{kind: 2, lexeme: "y"},
				{kind: 2, lexeme: "y", row: 1, col: 2},
			},
			symbol:   "b",
			expected: []string{"EOF"},
			message:  "syntax error: unexpected b, expecting EOF",
		},
		{
			caption: "a premature end of input",
			tables:  twoTableTables(),
			toks: []*testToken{
				{kind: 0, row: 1, col: 2},
			},
			symbol:   "EOF",
			expected: []string{"a", "b"},
			message:  "syntax error: unexpected EOF, expecting a or b",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			tab := mustTables(t, tt.tables)
			acts := make(ActionTable, tab.RuleCount())
			p, err := NewParser(tab, acts)
			if err != nil {
				t.Fatal(err)
			}
			result, err := p.Parse(newTestTokenStream(tt.toks...))
			if result != nil {
				t.Fatalf("a failed parse must not return a result: %v", result)
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected a syntax error, got: %v", err)
			}
			if synErr.Symbol != tt.symbol {
				t.Fatalf("unexpected symbol; want: %v, got: %v", tt.symbol, synErr.Symbol)
			}
			if !reflect.DeepEqual(synErr.Expected, tt.expected) {
				t.Fatalf("unexpected expected symbols; want: %#v, got: %#v", tt.expected, synErr.Expected)
			}
			if synErr.Error() != tt.message {
				t.Fatalf("unexpected message; want: %v, got: %v", tt.message, synErr.Error())
			}
			if synErr.Row != 1 || synErr.Col != 2 {
				t.Fatalf("unexpected position: %v:%v", synErr.Row, synErr.Col)
			}
		})
	}
}

func TestParser_Parse_InvalidToken(t *testing.T) {
	tests := []struct {
		caption string
		kind    int
	}{
		{
			caption: "a kind beyond the token map",
			kind:    999,
		},
		{
			caption: "a negative kind",
			kind:    -1,
		},
		{
			caption: "a kind mapped to the invalid symbol",
			kind:    3,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			tables := seqTables()
			tables.tokenToSym = []int{0, 2, 3, 4}
			rec := &recorder{}
			p, err := NewParser(mustTables(t, tables), seqActions(), Observe(rec))
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Parse(newTestTokenStream(&testToken{kind: tt.kind, lexeme: "!"}))
			var tokErr *InvalidTokenError
			if !errors.As(err, &tokErr) {
				t.Fatalf("expected an invalid token error, got: %v", err)
			}
			if tokErr.KindID != tt.kind || tokErr.Lexeme != "!" {
				t.Fatalf("unexpected error: %#v", tokErr)
			}
			if len(rec.events) > 0 {
				t.Fatalf("the parser must stop before using the token; events: %v", rec.events)
			}
		})
	}
}

func TestParser_Parse_Errors(t *testing.T) {
	errTokenize := errors.New("cannot tokenize")
	errAction := errors.New("action failed")

	t.Run("a token stream error is returned as it is", func(t *testing.T) {
		p, err := NewParser(mustTables(t, seqTables()), seqActions())
		if err != nil {
			t.Fatal(err)
		}
		ts := newTestTokenStream(&testToken{kind: 1, lexeme: "x"})
		ts.err = errTokenize
		_, err = p.Parse(ts)
		if err != errTokenize {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("a semantic action error is wrapped", func(t *testing.T) {
		acts := seqActions()
		acts[1] = func(rhs RHS) (any, error) {
			return nil, errAction
		}
		p, err := NewParser(mustTables(t, seqTables()), acts)
		if err != nil {
			t.Fatal(err)
		}
		_, err = p.Parse(newTestTokenStream(&testToken{kind: 1, lexeme: "x"}, &testToken{kind: 2, lexeme: "y"}))
		var actErr *ActionError
		if !errors.As(err, &actErr) {
			t.Fatalf("expected an action error, got: %v", err)
		}
		if actErr.Rule != 1 || actErr.RuleName != "S: a b" || !errors.Is(err, errAction) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("a rule longer than the stack is an internal error", func(t *testing.T) {
		tables := seqTables()
		tables.ruleLen = []int{1, 3}
		p, err := NewParser(mustTables(t, tables), seqActions())
		if err != nil {
			t.Fatal(err)
		}
		_, err = p.Parse(newTestTokenStream(&testToken{kind: 1, lexeme: "x"}, &testToken{kind: 2, lexeme: "y"}))
		var intErr *InternalError
		if !errors.As(err, &intErr) {
			t.Fatalf("expected an internal error, got: %v", err)
		}
	})
}

func TestNewParser(t *testing.T) {
	tab := mustTables(t, seqTables())

	_, err := NewParser(tab, ActionTable{nil})
	if err == nil {
		t.Fatal("an action table shorter than the rules must be rejected")
	}
	_, err = NewParser(tab, ActionTable{nil, nil, nil})
	if err == nil {
		t.Fatal("an action table longer than the rules must be rejected")
	}
	_, err = NewParser(nil, ActionTable{})
	if err == nil {
		t.Fatal("nil tables must be rejected")
	}
	_, err = NewParser(tab, seqActions(), Observe(nil))
	if err == nil {
		t.Fatal("a nil observer must be rejected")
	}
}

func TestParser_Parse_Deterministic(t *testing.T) {
	var calls int
	var mu sync.Mutex
	acts := ActionTable{
		nil,
		func(rhs RHS) (any, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return []any{rhs.At(1), rhs.At(2)}, nil
		},
	}
	p, err := NewParser(mustTables(t, seqTables()), acts)
	if err != nil {
		t.Fatal(err)
	}
	parse := func() (any, error) {
		return p.Parse(newTestTokenStream(&testToken{kind: 1, lexeme: "x"}, &testToken{kind: 2, lexeme: "y"}))
	}

	expected, err := parse()
	if err != nil {
		t.Fatal(err)
	}

	const n = 8
	results := make([]any, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = parse()
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		if !reflect.DeepEqual(results[i], expected) {
			t.Fatalf("unexpected result; want: %v, got: %v", expected, results[i])
		}
	}
	if calls != n+1 {
		t.Fatalf("the action must run once per parse; got: %v", calls)
	}
}

func TestTracer(t *testing.T) {
	tab := mustTables(t, seqTables())
	var b bytes.Buffer
	p, err := NewParser(tab, seqActions(), Observe(NewTracer(&b, tab)))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Parse(newTestTokenStream(&testToken{kind: 1, lexeme: "x"}, &testToken{kind: 2, lexeme: "y"}))
	if err != nil {
		t.Fatal(err)
	}

	expected := `state 0
read a "x"
shift a
state 2
read b "y"
shift b
state 3
reduce by (1) S: a b
state 1
read EOF ""
accept
`
	if b.String() != expected {
		t.Fatalf("unexpected trace; want:\n%v\ngot:\n%v", expected, b.String())
	}
}
