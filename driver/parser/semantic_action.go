package parser

// RHS gives a semantic action the values of the right-hand side being reduced. A terminal's value
// is its lexeme; a non-terminal's value is whatever the action that produced it returned.
type RHS struct {
	values []any
}

// At returns the i-th value of the right-hand side. `i` is 1-based as `$i` in yacc.
func (r RHS) At(i int) any {
	if i < 1 || i > len(r.values) {
		return nil
	}
	return r.values[i-1]
}

func (r RHS) Len() int {
	return len(r.values)
}

// ActionFunc computes the value of a left-hand side from its right-hand side.
type ActionFunc func(rhs RHS) (any, error)

// ActionTable maps a rule number to its semantic action. It must have exactly one entry per rule,
// the rule 0 included. A nil entry passes the first value through (`$$ = $1`), or produces nil
// for an empty rule.
type ActionTable []ActionFunc

func (t ActionTable) run(rule int, rhs RHS) (any, error) {
	f := t[rule]
	if f == nil {
		return rhs.At(1), nil
	}
	return f(rhs)
}
