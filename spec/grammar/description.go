package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Kind   int    `json:"kind"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

// State describes an LR(0) state of the automaton a table generator built. Number is the state
// number before leaf states are folded. Code is the number the packed tables use: a state number
// for a non-leaf state, or NumNonLeafStates + rule for a leaf state.
type State struct {
	Number        int           `json:"number"`
	Code          int           `json:"code"`
	Leaf          bool          `json:"leaf"`
	Kernel        []*Item       `json:"kernel"`
	Shift         []*Transition `json:"shift"`
	Reduce        []*Reduce     `json:"reduce"`
	GoTo          []*Transition `json:"goto"`
	DefaultAction int           `json:"default_action"`
	Accept        bool          `json:"accept"`
}

// Report is a human-oriented description of how tables were generated. Numbers in RHS fields are
// terminal numbers when non-negative and -(non-terminal number + 1) otherwise.
type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}
