package grammar

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// newTestTables returns tables of the grammar `s: a`.
func newTestTables() *ParseTables {
	return &ParseTables{
		Name:                  "test",
		TokenToSymbol:         []int{0, 2},
		TokenToSymbolMapSize:  2,
		Action:                []int{-32766, -32766, 0, 3},
		ActionCheck:           []int{CheckMiss, CheckMiss, 0, 2},
		ActionBase:            []int{1, 2},
		ActionDefault:         []int{32767, 32767},
		ActionTableSize:       4,
		GoTo:                  []int{1},
		GoToCheck:             []int{1},
		GoToBase:              []int{0, 0},
		GoToDefault:           []int{0, 1},
		GoToTableSize:         1,
		RuleToNonTerminal:     []int{0, 1},
		RuleToLength:          []int{1, 1},
		SymbolToName:          []string{"EOF", "error", "a"},
		NonTerminalToName:     []string{"$accept", "s"},
		RuleName:              []string{"$accept: s", "s: a"},
		SymbolCount:           3,
		NumNonLeafStates:      2,
		TwoTableStateBound:    0,
		InvalidSymbol:         3,
		ErrorSymbol:           1,
		DefaultActionSentinel: -32766,
		UnexpectedTokenRule:   32767,
	}
}

func TestParseTables_Validate(t *testing.T) {
	tests := []struct {
		caption string
		modify  func(tab *ParseTables)
		errMsgs []string
	}{
		{
			caption: "valid tables",
			modify:  func(tab *ParseTables) {},
		},
		{
			caption: "names are optional",
			modify: func(tab *ParseTables) {
				tab.SymbolToName = nil
				tab.NonTerminalToName = nil
				tab.RuleName = nil
			},
		},
		{
			caption: "a token map must have the declared size",
			modify: func(tab *ParseTables) {
				tab.TokenToSymbolMapSize = 3
			},
			errMsgs: []string{"token_to_symbol must have 3 entries; got: 2"},
		},
		{
			caption: "an invalid symbol must not be a valid symbol",
			modify: func(tab *ParseTables) {
				tab.InvalidSymbol = 2
			},
			errMsgs: []string{"invalid_symbol must not be a valid symbol; got: 2"},
		},
		{
			caption: "a check value must be a symbol or a miss",
			modify: func(tab *ParseTables) {
				tab.ActionCheck = []int{CheckMiss, CheckMiss, 0, 5}
			},
			errMsgs: []string{"action_check[3] is neither a symbol nor a miss: 5"},
		},
		{
			caption: "the sentinel must not be a real action",
			modify: func(tab *ParseTables) {
				tab.DefaultActionSentinel = -1
			},
			errMsgs: []string{"default_action_sentinel collides with a real action: -1"},
		},
		{
			caption: "all violations are reported",
			modify: func(tab *ParseTables) {
				tab.RuleToNonTerminal = []int{0}
				tab.RuleName = []string{"$accept: s"}
				tab.GoToCheck = []int{2}
			},
			errMsgs: []string{
				"rule_to_non_terminal must have 2 entries; got: 1",
				"goto_check[0] is neither a non-terminal nor a miss: 2",
				"rule_name must have 2 entries; got: 1",
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			tab := newTestTables()
			tt.modify(tab)
			err := tab.Validate()
			if len(tt.errMsgs) == 0 {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil {
				t.Fatal("an expected error didn't occur")
			}
			msgs := strings.Split(err.Error(), "\n")
			if !reflect.DeepEqual(msgs, tt.errMsgs) {
				t.Fatalf("unexpected error messages\nwant: %q\ngot: %q", tt.errMsgs, msgs)
			}
		})
	}
}

func TestReadTables(t *testing.T) {
	orig := newTestTables()
	var b bytes.Buffer
	err := orig.Write(&b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `"default_action_sentinel":-32766`) {
		t.Fatalf("unexpected JSON: %v", b.String())
	}

	tab, err := ReadTables(&b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tab, orig) {
		t.Fatalf("unexpected tables\nwant: %+v\ngot: %+v", orig, tab)
	}

	_, err = ReadTables(strings.NewReader(`{"action": "x"}`))
	if err == nil {
		t.Fatal("an expected error didn't occur")
	}
}
