package error

import (
	"fmt"
	"strings"
)

// SpecError is an error in a grammar declaration.
type SpecError struct {
	Cause error

	// Detail names the symbol or the production the error is about.
	Detail string

	// SourceName is the name of the grammar.
	SourceName string

	// Rule is the number of the rule the error is about. 0 means the error is not about a rule.
	Rule int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Rule != 0 {
		fmt.Fprintf(&b, "rule %v: ", e.Rule)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// SpecErrors is a list of errors found in one grammar.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}
