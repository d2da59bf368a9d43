package parser

import (
	"fmt"
	"strings"
)

// maxExpectedSymbols is the maximum number of expected symbols a syntax error lists. When a state
// expects more symbols, the error lists none of them.
const maxExpectedSymbols = 4

// InvalidTokenError means a token stream produced a token kind the tables don't map to a symbol.
type InvalidTokenError struct {
	KindID int
	Lexeme string
	Row    int
	Col    int
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("%v:%v: invalid token kind %v: %q", e.Row+1, e.Col+1, e.KindID, e.Lexeme)
}

// SyntaxError means no action applies to a symbol. Its message consists of names from the name
// tables only.
type SyntaxError struct {
	// Symbol is the name of the unexpected symbol.
	Symbol string

	// Expected is the names of symbols the parser could have accepted. It is empty when there are
	// more than four candidates.
	Expected []string

	Token VToken
	Row   int
	Col   int
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error: unexpected %v", e.Symbol)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expecting %v", strings.Join(e.Expected, " or "))
	}
	return b.String()
}

// InternalError means the tables or the parser itself are broken. Input never causes it.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

// ActionError means a semantic action returned an error.
type ActionError struct {
	Rule     int
	RuleName string
	Cause    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("semantic action of rule %v (%v) failed: %v", e.Rule, e.RuleName, e.Cause)
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}
