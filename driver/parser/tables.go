package parser

import (
	"errors"
	"fmt"
	"strconv"

	spec "github.com/nihei9/docblock/spec/grammar"
)

type ActionType string

const (
	ActionTypeShift       = ActionType("shift")
	ActionTypeShiftReduce = ActionType("shift-reduce")
	ActionTypeReduce      = ActionType("reduce")
	ActionTypeAccept      = ActionType("accept")
	ActionTypeError       = ActionType("error")

	// actionTypeNone marks an action slot holding the default action sentinel.
	actionTypeNone = ActionType("")
)

// Action is a decoded entry of an action table.
type Action struct {
	Type ActionType

	// State is the state the parser pushes on a shift or a shift-reduce. For a shift-reduce, it is
	// a pseudo state the following reduction pops immediately.
	State int

	// Rule is the rule the parser reduces by on a shift-reduce or a reduce.
	Rule int
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.State)
	case ActionTypeShiftReduce:
		return fmt.Sprintf("shift %v and reduce %v", a.State, a.Rule)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce %v", a.Rule)
	}
	return string(a.Type)
}

// Slot tells which row of an action table answered a lookup.
type Slot string

const (
	SlotDefaultOnly = Slot("default-only")
	SlotPrimary     = Slot("primary")
	SlotOverflow    = Slot("overflow")
	SlotDefault     = Slot("default")
)

// Target is a decoded entry of a goto table. When Then is a reduce action, State is a pseudo state
// and the parser reduces by Then.Rule without consulting the input.
type Target struct {
	State int
	Then  Action
}

// Reduces reports whether the parser reduces again right after going to the target.
func (t Target) Reduces() bool {
	return t.Then.Type == ActionTypeReduce
}

// Tables is a decoded, immutable form of spec.ParseTables. Every overloaded integer is decoded once
// when the tables are built, so lookups don't compare magnitudes. Tables can be shared by any
// number of parsers running concurrently.
type Tables struct {
	src *spec.ParseTables

	action        []Action
	actionDefault []Action
	goTo          []Target
	goToDefault   []Target
}

// NewTables validates `src` and decodes it.
func NewTables(src *spec.ParseTables) (*Tables, error) {
	if src == nil {
		return nil, fmt.Errorf("parse tables are nil")
	}
	err := src.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid parse tables: %w", err)
	}

	tab := &Tables{
		src: src,
	}
	var errs []error
	tab.action = make([]Action, len(src.Action))
	for i, v := range src.Action {
		if src.ActionCheck[i] == spec.CheckMiss {
			continue
		}
		act, err := tab.decodeAction(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("action[%v]: %w", i, err))
			continue
		}
		tab.action[i] = act
	}
	tab.actionDefault = make([]Action, src.NumNonLeafStates)
	for state := 0; state < src.NumNonLeafStates; state++ {
		act, err := tab.decodeDefault(src.ActionDefault[state])
		if err != nil {
			errs = append(errs, fmt.Errorf("action_default[%v]: %w", state, err))
			continue
		}
		tab.actionDefault[state] = act
	}
	tab.goTo = make([]Target, len(src.GoTo))
	for i, g := range src.GoTo {
		if src.GoToCheck[i] == spec.CheckMiss {
			continue
		}
		tgt, err := tab.decodeTarget(g)
		if err != nil {
			errs = append(errs, fmt.Errorf("goto[%v]: %w", i, err))
			continue
		}
		tab.goTo[i] = tgt
	}
	tab.goToDefault = make([]Target, len(src.GoToDefault))
	for nt, g := range src.GoToDefault {
		tgt, err := tab.decodeTarget(g)
		if err != nil {
			errs = append(errs, fmt.Errorf("goto_default[%v]: %w", nt, err))
			continue
		}
		tab.goToDefault[nt] = tgt
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid parse tables: %w", errors.Join(errs...))
	}

	return tab, nil
}

func (tab *Tables) decodeAction(v int) (Action, error) {
	src := tab.src
	switch {
	case v == src.DefaultActionSentinel:
		return Action{Type: actionTypeNone}, nil
	case v > 0 && v < src.NumNonLeafStates:
		return Action{Type: ActionTypeShift, State: v}, nil
	case v >= src.NumNonLeafStates:
		rule := v - src.NumNonLeafStates
		if rule == 0 || rule >= src.RuleCount() {
			return Action{}, fmt.Errorf("shift-reduce by an invalid rule %v", rule)
		}
		if src.RuleToLength[rule] == 0 {
			return Action{}, fmt.Errorf("shift-reduce by the rule %v whose right-hand side is empty", rule)
		}
		return Action{Type: ActionTypeShiftReduce, State: v, Rule: rule}, nil
	}
	return tab.decodeRule(-v)
}

// decodeDefault decodes a default action. A default is a rule number; a negated rule number is
// also accepted.
func (tab *Tables) decodeDefault(v int) (Action, error) {
	if v < 0 {
		v = -v
	}
	return tab.decodeRule(v)
}

func (tab *Tables) decodeRule(rule int) (Action, error) {
	switch {
	case rule == 0:
		return Action{Type: ActionTypeAccept}, nil
	case rule == tab.src.UnexpectedTokenRule:
		return Action{Type: ActionTypeError}, nil
	case rule >= tab.src.RuleCount():
		return Action{}, fmt.Errorf("reduce by an invalid rule %v", rule)
	}
	return Action{Type: ActionTypeReduce, Rule: rule}, nil
}

func (tab *Tables) decodeTarget(g int) (Target, error) {
	src := tab.src
	if g < 0 {
		return Target{}, fmt.Errorf("invalid goto target %v", g)
	}
	if g < src.NumNonLeafStates {
		return Target{State: g}, nil
	}
	rule := g - src.NumNonLeafStates
	if rule == 0 || rule >= src.RuleCount() {
		return Target{}, fmt.Errorf("goto-reduce by an invalid rule %v", rule)
	}
	if src.RuleToLength[rule] == 0 {
		return Target{}, fmt.Errorf("goto-reduce by the rule %v whose right-hand side is empty", rule)
	}
	return Target{
		State: g,
		Then: Action{
			Type: ActionTypeReduce,
			Rule: rule,
		},
	}, nil
}

// Lookup returns the action of `state` on `symbol` and the slot the action came from. `state` must be
// a non-leaf state.
func (tab *Tables) Lookup(state int, symbol int) (Action, Slot) {
	if tab.DefaultOnly(state) {
		return tab.actionDefault[state], SlotDefaultOnly
	}

	idx, ok := tab.actionSlot(tab.src.ActionBase[state], symbol)
	slot := SlotPrimary
	if !ok && state < tab.src.TwoTableStateBound {
		idx, ok = tab.actionSlot(tab.src.ActionBase[state+tab.src.NumNonLeafStates], symbol)
		slot = SlotOverflow
	}
	if ok && tab.action[idx].Type != actionTypeNone {
		return tab.action[idx], slot
	}
	return tab.actionDefault[state], SlotDefault
}

func (tab *Tables) actionSlot(base int, symbol int) (int, bool) {
	idx := base + symbol
	if idx < 0 || idx >= tab.src.ActionTableSize || tab.src.ActionCheck[idx] != symbol {
		return 0, false
	}
	return idx, true
}

// DefaultOnly reports whether `state` always takes its default action. The parser doesn't read
// a token in such a state.
func (tab *Tables) DefaultOnly(state int) bool {
	return tab.src.ActionBase[state] == 0
}

// GoTo returns the target the parser goes to after reducing to `nonTerminal` with `state` exposed
// on the top of the state stack.
func (tab *Tables) GoTo(nonTerminal int, state int) Target {
	idx := tab.src.GoToBase[nonTerminal] + state
	if idx >= 0 && idx < tab.src.GoToTableSize && tab.src.GoToCheck[idx] == nonTerminal {
		return tab.goTo[idx]
	}
	return tab.goToDefault[nonTerminal]
}

// Expected returns the symbols `state` has an explicit action on, in ascending order. The error
// symbol is never included because no input can produce it.
func (tab *Tables) Expected(state int) []int {
	if tab.DefaultOnly(state) {
		return nil
	}

	var syms []int
	for sym := 0; sym < tab.src.SymbolCount; sym++ {
		if sym == tab.src.ErrorSymbol {
			continue
		}
		act, slot := tab.Lookup(state, sym)
		if slot == SlotDefault || act.Type == ActionTypeError {
			continue
		}
		syms = append(syms, sym)
	}
	return syms
}

// Symbol maps a token kind to a symbol.
func (tab *Tables) Symbol(kind int) (int, bool) {
	if kind < 0 || kind >= tab.src.TokenToSymbolMapSize {
		return tab.src.InvalidSymbol, false
	}
	sym := tab.src.TokenToSymbol[kind]
	if sym == tab.src.InvalidSymbol {
		return sym, false
	}
	return sym, true
}

// IsState reports whether `state` is a state the parser can decide an action in.
func (tab *Tables) IsState(state int) bool {
	return state >= 0 && state < tab.src.NumNonLeafStates
}

func (tab *Tables) RuleCount() int {
	return tab.src.RuleCount()
}

func (tab *Tables) RuleLength(rule int) int {
	return tab.src.RuleToLength[rule]
}

func (tab *Tables) RuleNonTerminal(rule int) int {
	return tab.src.RuleToNonTerminal[rule]
}

func (tab *Tables) SymbolCount() int {
	return tab.src.SymbolCount
}

func (tab *Tables) NumNonLeafStates() int {
	return tab.src.NumNonLeafStates
}

func (tab *Tables) Name() string {
	return tab.src.Name
}

// SymbolName returns the name of a symbol. When the tables have no name table, it returns the number.
func (tab *Tables) SymbolName(symbol int) string {
	if symbol >= 0 && symbol < len(tab.src.SymbolToName) {
		return tab.src.SymbolToName[symbol]
	}
	return "#" + strconv.Itoa(symbol)
}

func (tab *Tables) NonTerminalName(nonTerminal int) string {
	if nonTerminal >= 0 && nonTerminal < len(tab.src.NonTerminalToName) {
		return tab.src.NonTerminalToName[nonTerminal]
	}
	return "#" + strconv.Itoa(nonTerminal)
}

func (tab *Tables) RuleName(rule int) string {
	if rule >= 0 && rule < len(tab.src.RuleName) {
		return tab.src.RuleName[rule]
	}
	return "#" + strconv.Itoa(rule)
}
