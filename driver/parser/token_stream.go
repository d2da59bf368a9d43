package parser

import (
	"io"

	"github.com/nihei9/docblock/driver/lexer"
	mlspec "github.com/nihei9/maleeni/spec"
)

// VToken is a token a parser reads. A kind ID 0 means the end of the input.
type VToken interface {
	// KindID returns the kind ID in the tokenizer's ID space.
	KindID() int

	// Lexeme returns the text of the token.
	Lexeme() string

	// Position returns the zero-based row and column of the token.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	tok *lexer.Token
}

func (t *vToken) KindID() int {
	return t.tok.KindID.Int()
}

func (t *vToken) Lexeme() string {
	return t.tok.Lexeme
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	lex *lexer.Lexer
}

// NewTokenStream returns a token stream reading docblock tokens from `src`. A nil `clspec` means
// the built-in lexical specification.
func NewTokenStream(clspec *mlspec.CompiledLexSpec, src io.Reader) (TokenStream, error) {
	lex, err := lexer.NewLexer(clspec, src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex: lex,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	tok, err := l.lex.Next()
	if err != nil {
		return nil, err
	}
	return &vToken{
		tok: tok,
	}, nil
}
