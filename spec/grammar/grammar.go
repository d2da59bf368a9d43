package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	mlspec "github.com/nihei9/maleeni/spec"
)

// CheckMiss marks an unused slot of a check array.
const CheckMiss = -1

// ParseTables is the compiled form of a grammar the parser driver executes. The tables are the
// contract between a table generator and the driver and are shared read-only by all parses.
//
// An action entry v means:
//   - v == DefaultActionSentinel: no entry; the state's default action applies.
//   - 0 < v < NumNonLeafStates: shift and go to state v.
//   - v >= NumNonLeafStates: shift and then reduce by rule v - NumNonLeafStates.
//   - v <= 0: reduce by rule -v. Rule 0 means accept.
//
// A default action is a rule number: 0 means accept, UnexpectedTokenRule means a syntax error,
// and any other value means reduce by that rule.
//
// A goto entry g means state g when g < NumNonLeafStates. Otherwise, the parser goes to the
// pseudo state g and immediately reduces by rule g - NumNonLeafStates.
type ParseTables struct {
	Name string `json:"name"`

	// LexicalSpecification is the compiled lexical specification the tables were generated with.
	// The driver falls back to the built-in one when it is absent.
	LexicalSpecification *mlspec.CompiledLexSpec `json:"lexical_specification,omitempty"`

	TokenToSymbol        []int `json:"token_to_symbol"`
	TokenToSymbolMapSize int   `json:"token_to_symbol_map_size"`

	Action          []int `json:"action"`
	ActionCheck     []int `json:"action_check"`
	ActionBase      []int `json:"action_base"`
	ActionDefault   []int `json:"action_default"`
	ActionTableSize int   `json:"action_table_size"`

	GoTo          []int `json:"goto"`
	GoToCheck     []int `json:"goto_check"`
	GoToBase      []int `json:"goto_base"`
	GoToDefault   []int `json:"goto_default"`
	GoToTableSize int   `json:"goto_table_size"`

	RuleToNonTerminal []int `json:"rule_to_non_terminal"`
	RuleToLength      []int `json:"rule_to_length"`

	SymbolToName      []string `json:"symbol_to_name,omitempty"`
	NonTerminalToName []string `json:"non_terminal_to_name,omitempty"`
	RuleName          []string `json:"rule_name,omitempty"`

	SymbolCount           int `json:"symbol_count"`
	NumNonLeafStates      int `json:"num_non_leaf_states"`
	TwoTableStateBound    int `json:"two_table_state_bound"`
	InvalidSymbol         int `json:"invalid_symbol"`
	ErrorSymbol           int `json:"error_symbol"`
	DefaultActionSentinel int `json:"default_action_sentinel"`
	UnexpectedTokenRule   int `json:"unexpected_token_rule"`
}

// RuleCount returns the number of rules including the rule 0.
func (t *ParseTables) RuleCount() int {
	return len(t.RuleToLength)
}

// NonTerminalCount returns the number of non-terminal symbols.
func (t *ParseTables) NonTerminalCount() int {
	return len(t.GoToBase)
}

// Validate checks the structural contract of the tables. It reports all violations at once.
func (t *ParseTables) Validate() error {
	var errs []error
	fail := func(format string, a ...interface{}) {
		errs = append(errs, fmt.Errorf(format, a...))
	}

	if len(t.TokenToSymbol) != t.TokenToSymbolMapSize {
		fail("token_to_symbol must have %v entries; got: %v", t.TokenToSymbolMapSize, len(t.TokenToSymbol))
	}
	if t.SymbolCount <= 0 {
		fail("symbol_count must be >= 1; got: %v", t.SymbolCount)
	}
	if t.InvalidSymbol >= 0 && t.InvalidSymbol < t.SymbolCount {
		fail("invalid_symbol must not be a valid symbol; got: %v", t.InvalidSymbol)
	}
	for kind, sym := range t.TokenToSymbol {
		if sym != t.InvalidSymbol && (sym < 0 || sym >= t.SymbolCount) {
			fail("token kind %v maps to an out-of-range symbol %v", kind, sym)
		}
	}
	if t.ErrorSymbol < 0 || t.ErrorSymbol >= t.SymbolCount {
		fail("error_symbol is out of range: %v", t.ErrorSymbol)
	}

	ruleCount := t.RuleCount()
	if ruleCount == 0 {
		fail("a grammar must have at least the rule 0")
	}
	if len(t.RuleToNonTerminal) != ruleCount {
		fail("rule_to_non_terminal must have %v entries; got: %v", ruleCount, len(t.RuleToNonTerminal))
	}
	if t.UnexpectedTokenRule >= 0 && t.UnexpectedTokenRule < ruleCount {
		fail("unexpected_token_rule must not be a real rule; got: %v", t.UnexpectedTokenRule)
	}

	ntCount := t.NonTerminalCount()
	if len(t.GoToDefault) != ntCount {
		fail("goto_default must have %v entries; got: %v", ntCount, len(t.GoToDefault))
	}
	for rule, nt := range t.RuleToNonTerminal {
		if nt < 0 || nt >= ntCount {
			fail("rule %v has an out-of-range non-terminal %v", rule, nt)
		}
	}
	for rule, l := range t.RuleToLength {
		if l < 0 {
			fail("rule %v has a negative length %v", rule, l)
		}
	}

	if t.NumNonLeafStates <= 0 {
		fail("num_non_leaf_states must be >= 1; got: %v", t.NumNonLeafStates)
	}
	if t.TwoTableStateBound < 0 || t.TwoTableStateBound > t.NumNonLeafStates {
		fail("two_table_state_bound is out of range: %v", t.TwoTableStateBound)
	}
	if len(t.ActionBase) < t.NumNonLeafStates+t.TwoTableStateBound {
		fail("action_base must have at least %v entries; got: %v", t.NumNonLeafStates+t.TwoTableStateBound, len(t.ActionBase))
	}
	if len(t.ActionDefault) < t.NumNonLeafStates {
		fail("action_default must have at least %v entries; got: %v", t.NumNonLeafStates, len(t.ActionDefault))
	}
	if len(t.Action) != t.ActionTableSize || len(t.ActionCheck) != t.ActionTableSize {
		fail("action and action_check must have %v entries; got: %v, %v", t.ActionTableSize, len(t.Action), len(t.ActionCheck))
	}
	if len(t.GoTo) != t.GoToTableSize || len(t.GoToCheck) != t.GoToTableSize {
		fail("goto and goto_check must have %v entries; got: %v, %v", t.GoToTableSize, len(t.GoTo), len(t.GoToCheck))
	}
	if t.isRealAction(t.DefaultActionSentinel, ruleCount) {
		fail("default_action_sentinel collides with a real action: %v", t.DefaultActionSentinel)
	}
	for i, sym := range t.ActionCheck {
		if sym != CheckMiss && (sym < 0 || sym >= t.SymbolCount) {
			fail("action_check[%v] is neither a symbol nor a miss: %v", i, sym)
		}
	}
	for i, nt := range t.GoToCheck {
		if nt != CheckMiss && (nt < 0 || nt >= ntCount) {
			fail("goto_check[%v] is neither a non-terminal nor a miss: %v", i, nt)
		}
	}

	if len(t.SymbolToName) > 0 && len(t.SymbolToName) != t.SymbolCount {
		fail("symbol_to_name must have %v entries; got: %v", t.SymbolCount, len(t.SymbolToName))
	}
	if len(t.NonTerminalToName) > 0 && len(t.NonTerminalToName) != ntCount {
		fail("non_terminal_to_name must have %v entries; got: %v", ntCount, len(t.NonTerminalToName))
	}
	if len(t.RuleName) > 0 && len(t.RuleName) != ruleCount {
		fail("rule_name must have %v entries; got: %v", ruleCount, len(t.RuleName))
	}

	return errors.Join(errs...)
}

// isRealAction reports whether v decodes to a shift, a shift-reduce, or a reduce.
func (t *ParseTables) isRealAction(v int, ruleCount int) bool {
	if v > 0 {
		return v < t.NumNonLeafStates+ruleCount
	}
	return -v < ruleCount
}

// ReadTables reads tables in the JSON format.
func ReadTables(r io.Reader) (*ParseTables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tab := &ParseTables{}
	err = json.Unmarshal(data, tab)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

// Write writes the tables in the JSON format.
func (t *ParseTables) Write(w io.Writer) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(data))
	return err
}
