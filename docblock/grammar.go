package docblock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nihei9/docblock/driver/lexer"
	"github.com/nihei9/docblock/driver/parser"
	"github.com/nihei9/docblock/grammar"
	spec "github.com/nihei9/docblock/spec/grammar"
)

const grammarName = "docblock"

type rule struct {
	lhs string
	rhs []string
	act parser.ActionFunc
}

// wordKinds are the tokens a piece of text consists of. AT and WHITESPACE can continue text but not
// start it. START is a word too, so that text can quote a comment opener.
var wordKinds = []lexer.KindID{
	lexer.KindIDStart,
	lexer.KindIDString,
	lexer.KindIDDot,
	lexer.KindIDColon,
	lexer.KindIDComma,
	lexer.KindIDLParen,
	lexer.KindIDRParen,
	lexer.KindIDLBrace,
	lexer.KindIDRBrace,
	lexer.KindIDLBracket,
	lexer.KindIDRBracket,
	lexer.KindIDPipe,
	lexer.KindIDLT,
	lexer.KindIDGT,
	lexer.KindIDChar,
}

func kind(k lexer.KindID) string {
	return lexer.KindName(k)
}

// rules returns the productions of the docblock grammar. Their rule numbers are their positions
// from 1. A nil action passes the first value through.
func rules() []*rule {
	rs := []*rule{
		{
			lhs: "docblock",
			rhs: []string{kind(lexer.KindIDStart), "lines", kind(lexer.KindIDEnd), "trailer"},
			act: func(rhs parser.RHS) (any, error) {
				ls, err := valueAt[[]*line](rhs, 2)
				if err != nil {
					return nil, err
				}
				return newDocblock(ls), nil
			},
		},
		{
			lhs: "lines",
			rhs: []string{"line"},
			act: func(rhs parser.RHS) (any, error) {
				l, err := valueAt[*line](rhs, 1)
				if err != nil {
					return nil, err
				}
				return []*line{l}, nil
			},
		},
		{
			lhs: "lines",
			rhs: []string{"lines", kind(lexer.KindIDCRLF), "line"},
			act: func(rhs parser.RHS) (any, error) {
				ls, err := valueAt[[]*line](rhs, 1)
				if err != nil {
					return nil, err
				}
				l, err := valueAt[*line](rhs, 3)
				if err != nil {
					return nil, err
				}
				return append(ls, l), nil
			},
		},
		{
			lhs: "line",
			rhs: []string{"opt_margin", "line_body"},
			act: func(rhs parser.RHS) (any, error) {
				return rhs.At(2), nil
			},
		},
		{
			lhs: "opt_margin",
		},
		{
			lhs: "opt_margin",
			rhs: []string{kind(lexer.KindIDLineStart)},
		},
		{
			lhs: "line_body",
			rhs: []string{"opt_ws"},
			act: func(rhs parser.RHS) (any, error) {
				return &line{}, nil
			},
		},
		{
			lhs: "line_body",
			rhs: []string{"opt_ws", "tag"},
			act: func(rhs parser.RHS) (any, error) {
				tag, err := valueAt[*Tag](rhs, 2)
				if err != nil {
					return nil, err
				}
				return &line{
					tag: tag,
				}, nil
			},
		},
		{
			lhs: "line_body",
			rhs: []string{"opt_ws", "text"},
			act: func(rhs parser.RHS) (any, error) {
				text, err := valueAt[string](rhs, 2)
				if err != nil {
					return nil, err
				}
				return &line{
					text: strings.TrimRight(text, " \t"),
				}, nil
			},
		},
		{
			lhs: "opt_ws",
		},
		{
			lhs: "opt_ws",
			rhs: []string{kind(lexer.KindIDWhitespace)},
		},
		{
			lhs: "tag",
			rhs: []string{"tag_head"},
		},
		{
			lhs: "tag",
			rhs: []string{"tag_head", kind(lexer.KindIDWhitespace)},
		},
		{
			lhs: "tag",
			rhs: []string{"tag_head", kind(lexer.KindIDWhitespace), "text"},
			act: func(rhs parser.RHS) (any, error) {
				tag, err := valueAt[*Tag](rhs, 1)
				if err != nil {
					return nil, err
				}
				body, err := valueAt[string](rhs, 3)
				if err != nil {
					return nil, err
				}
				tag.Body = strings.TrimRight(body, " \t")
				return tag, nil
			},
		},
		{
			lhs: "tag_head",
			rhs: []string{kind(lexer.KindIDAt), kind(lexer.KindIDString)},
			act: func(rhs parser.RHS) (any, error) {
				name, err := valueAt[string](rhs, 2)
				if err != nil {
					return nil, err
				}
				return &Tag{
					Name: name,
				}, nil
			},
		},
		{
			lhs: "tag_head",
			rhs: []string{kind(lexer.KindIDAt), kind(lexer.KindIDString), kind(lexer.KindIDColon), kind(lexer.KindIDString)},
			act: func(rhs parser.RHS) (any, error) {
				name, err := valueAt[string](rhs, 2)
				if err != nil {
					return nil, err
				}
				subname, err := valueAt[string](rhs, 4)
				if err != nil {
					return nil, err
				}
				return &Tag{
					Name:    name,
					Subname: subname,
				}, nil
			},
		},
		{
			lhs: "text",
			rhs: []string{"word"},
		},
		{
			lhs: "text",
			rhs: []string{"text", "word"},
			act: concatText,
		},
		{
			lhs: "text",
			rhs: []string{"text", kind(lexer.KindIDWhitespace)},
			act: concatText,
		},
		{
			lhs: "text",
			rhs: []string{"text", kind(lexer.KindIDAt)},
			act: concatText,
		},
		// Blank space and line breaks may follow the closing marker, as they do at the end of a file.
		{
			lhs: "trailer",
		},
		{
			lhs: "trailer",
			rhs: []string{"trailer", kind(lexer.KindIDCRLF)},
		},
		{
			lhs: "trailer",
			rhs: []string{"trailer", kind(lexer.KindIDWhitespace)},
		},
	}
	for _, k := range wordKinds {
		rs = append(rs, &rule{
			lhs: "word",
			rhs: []string{kind(k)},
		})
	}
	return rs
}

func concatText(rhs parser.RHS) (any, error) {
	text, err := valueAt[string](rhs, 1)
	if err != nil {
		return nil, err
	}
	word, err := valueAt[string](rhs, 2)
	if err != nil {
		return nil, err
	}
	return text + word, nil
}

// valueAt returns the i-th value of `rhs` as a T. Tables of another grammar can hand an action
// values of other types, which must not crash a parse.
func valueAt[T any](rhs parser.RHS, i int) (T, error) {
	v, ok := rhs.At(i).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("a value of %T expected at %v; got: %T", zero, i, rhs.At(i))
	}
	return v, nil
}

// newGrammar declares the docblock grammar and returns the semantic actions indexed by rule number.
func newGrammar() (*grammar.GrammarBuilder, parser.ActionTable) {
	b := grammar.NewGrammarBuilder(grammarName)
	for _, k := range lexer.Kinds() {
		if k == lexer.KindIDEOF {
			continue
		}
		b.Terminal(lexer.KindName(k), k.Int())
	}

	acts := parser.ActionTable{nil}
	for _, r := range rules() {
		b.Rule(r.lhs, r.rhs...)
		acts = append(acts, r.act)
	}
	return b, acts
}

// Compile generates parse tables of the docblock grammar. The tables carry the compiled lexical
// specification as well.
func Compile(opts ...grammar.CompileOption) (*spec.ParseTables, *spec.Report, error) {
	clspec, err := lexer.CompiledLexSpec()
	if err != nil {
		return nil, nil, err
	}
	b, _ := newGrammar()
	gram, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	tab, report, err := grammar.Compile(gram, opts...)
	if err != nil {
		return nil, nil, err
	}
	tab.LexicalSpecification = clspec
	return tab, report, nil
}

var (
	builtinOnce   sync.Once
	builtinTables *spec.ParseTables
	builtinErr    error
)

// Tables returns the parse tables of the docblock grammar. The tables are generated once and shared;
// callers must not modify them.
func Tables() (*spec.ParseTables, error) {
	builtinOnce.Do(func() {
		builtinTables, _, builtinErr = Compile()
	})
	return builtinTables, builtinErr
}

func actionTable() parser.ActionTable {
	_, acts := newGrammar()
	return acts
}
