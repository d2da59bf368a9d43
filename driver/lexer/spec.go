package lexer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

const lexSpecName = "docblock"

// modeHead is active right after a line break. The first token of a line pops it.
const modeHead = mlspec.LexModeName("head")

const headKindPrefix = "head_"

const blank = `[\u{0009}\u{0020}]`

// patterns are tried all at once. The longest match wins, and an earlier entry wins a tie.
var patterns = []struct {
	kind    KindID
	pattern string
}{
	{KindIDStart, `/\*\*`},
	{KindIDEnd, blank + `*\*/`},
	{KindIDString, `[\p{Letter}\p{Nd}_]+`},
	{KindIDCRLF, `\u{000D}\u{000A}|\u{000A}|\u{000D}`},
	{KindIDWhitespace, blank + `+`},
	{KindIDDot, `\.`},
	{KindIDAt, `@`},
	{KindIDColon, `:`},
	{KindIDComma, `,`},
	{KindIDLParen, `\(`},
	{KindIDRParen, `\)`},
	{KindIDLBrace, `{`},
	{KindIDRBrace, `}`},
	{KindIDLBracket, `\[`},
	{KindIDRBracket, `\]`},
	{KindIDPipe, `\|`},
	{KindIDLT, `<`},
	{KindIDGT, `>`},
	{KindIDChar, `.`},
}

func lexKindName(k KindID) mlspec.LexKindName {
	return mlspec.LexKindName(strings.ToLower(KindName(k)))
}

// LexSpec returns the lexical specification of docblocks.
//
// A line break pushes the head mode. The head mode knows the line-start marker in addition to
// duplicates of the other kinds, and every kind but a line break pops it. Thus the lexer
// recognizes a line-start marker only at the head of a line.
func LexSpec() *mlspec.LexSpec {
	var body []*mlspec.LexEntry
	head := []*mlspec.LexEntry{
		{
			Kind:    lexKindName(KindIDLineStart),
			Pattern: mlspec.LexPattern(blank + `*\*`),
			Modes:   []mlspec.LexModeName{modeHead},
			Pop:     true,
		},
	}
	for _, p := range patterns {
		e := &mlspec.LexEntry{
			Kind:    lexKindName(p.kind),
			Pattern: mlspec.LexPattern(p.pattern),
		}
		h := &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(headKindPrefix) + e.Kind,
			Pattern: e.Pattern,
			Modes:   []mlspec.LexModeName{modeHead},
			Pop:     true,
		}
		if p.kind == KindIDCRLF {
			e.Push = modeHead

			// An empty line keeps the lexer at the head of a line.
			h.Pop = false
		}
		body = append(body, e)
		head = append(head, h)
	}

	return &mlspec.LexSpec{
		Name:    lexSpecName,
		Entries: append(body, head...),
	}
}

// Compile compiles a lexical specification into the DFA tables a lexer runs.
func Compile(lexspec *mlspec.LexSpec) (*mlspec.CompiledLexSpec, error) {
	clspec, err, cErrs := mlcompiler.Compile(lexspec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, errors.New(b.String())
		}
		return nil, err
	}
	return clspec, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

var (
	builtinOnce sync.Once
	builtinSpec *mlspec.CompiledLexSpec
	builtinErr  error
)

// CompiledLexSpec returns the compiled form of LexSpec. The result is shared; callers must not
// modify it.
func CompiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	builtinOnce.Do(func() {
		builtinSpec, builtinErr = Compile(LexSpec())
	})
	return builtinSpec, builtinErr
}

// kindTable maps the kinds of a compiled specification to the kinds of the lexer. A kind of the
// head mode maps to the kind it duplicates.
func kindTable(clspec *mlspec.CompiledLexSpec) ([]KindID, error) {
	byName := map[mlspec.LexKindName]KindID{}
	for _, k := range Kinds() {
		if k == KindIDEOF {
			continue
		}
		byName[lexKindName(k)] = k
	}

	tab := make([]KindID, len(clspec.KindNames))
	for id, name := range clspec.KindNames {
		if name == mlspec.LexKindNameNil {
			continue
		}
		k, ok := byName[mlspec.LexKindName(strings.TrimPrefix(name.String(), headKindPrefix))]
		if !ok {
			return nil, fmt.Errorf("a lexical specification has an unknown kind: %v", name)
		}
		tab[id] = k
	}
	return tab, nil
}
