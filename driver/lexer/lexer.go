package lexer

import (
	"fmt"
	"io"
	"unicode/utf8"

	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type KindID int

func (id KindID) Int() int {
	return int(id)
}

const (
	KindIDEOF KindID = iota
	KindIDStart
	KindIDEnd
	KindIDLineStart
	KindIDString
	KindIDCRLF
	KindIDWhitespace
	KindIDDot
	KindIDAt
	KindIDColon
	KindIDComma
	KindIDLParen
	KindIDRParen
	KindIDLBrace
	KindIDRBrace
	KindIDLBracket
	KindIDRBracket
	KindIDPipe
	KindIDLT
	KindIDGT
	KindIDChar

	kindIDCount
)

var kindNames = [kindIDCount]string{
	KindIDEOF:        "EOF",
	KindIDStart:      "START",
	KindIDEnd:        "END",
	KindIDLineStart:  "LINE_START",
	KindIDString:     "STRING",
	KindIDCRLF:       "CRLF",
	KindIDWhitespace: "WHITESPACE",
	KindIDDot:        "DOT",
	KindIDAt:         "AT",
	KindIDColon:      "COLON",
	KindIDComma:      "COMMA",
	KindIDLParen:     "LPAREN",
	KindIDRParen:     "RPAREN",
	KindIDLBrace:     "LBRACE",
	KindIDRBrace:     "RBRACE",
	KindIDLBracket:   "LBRACKET",
	KindIDRBracket:   "RBRACKET",
	KindIDPipe:       "PIPE",
	KindIDLT:         "LT",
	KindIDGT:         "GT",
	KindIDChar:       "CHAR",
}

// KindName returns the name of a kind. It returns an empty string for an unknown kind.
func KindName(kind KindID) string {
	if kind < 0 || kind >= kindIDCount {
		return ""
	}
	return kindNames[kind]
}

// Kinds returns all kinds the lexer can produce, EOF included, in ascending order.
func Kinds() []KindID {
	ks := make([]KindID, kindIDCount)
	for i := range ks {
		ks[i] = KindID(i)
	}
	return ks
}

// Token represents a token.
type Token struct {
	// KindID is an ID of a kind.
	KindID KindID

	// Lexeme is the text matched a pattern.
	Lexeme string

	// Row is a row number where a lexeme appears.
	Row int

	// Col is a column number where a lexeme appears.
	// Note that Col is counted in code points, not bytes.
	Col int

	// When this field is true, it means the token is the EOF token.
	EOF bool
}

func (t *Token) String() string {
	if t.EOF {
		return KindName(KindIDEOF)
	}
	return fmt.Sprintf("%v %q", KindName(t.KindID), t.Lexeme)
}

// TokenizeError means the lexer met input that no pattern can classify, such as a byte that doesn't
// form UTF-8.
type TokenizeError struct {
	Row  int
	Col  int
	Byte byte
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("%v:%v: cannot tokenize a byte 0x%02x", e.Row+1, e.Col+1, e.Byte)
}

type Lexer struct {
	lex     *mldriver.Lexer
	kindTab []KindID
	row     int
	col     int
}

// NewLexer returns a new lexer running `clspec`. A nil `clspec` means the specification LexSpec
// returns.
func NewLexer(clspec *mlspec.CompiledLexSpec, src io.Reader) (*Lexer, error) {
	if clspec == nil {
		var err error
		clspec, err = CompiledLexSpec()
		if err != nil {
			return nil, err
		}
	}
	kindTab, err := kindTable(clspec)
	if err != nil {
		return nil, err
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(clspec), src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		lex:     lex,
		kindTab: kindTab,
	}, nil
}

// Next returns a next token. Once the lexer reaches the end of the input, it keeps returning
// the EOF token.
func (l *Lexer) Next() (*Token, error) {
	tok, err := l.lex.Next()
	if err != nil {
		return nil, err
	}
	row := l.row
	col := l.col
	if tok.EOF {
		return &Token{
			KindID: KindIDEOF,
			Row:    row,
			Col:    col,
			EOF:    true,
		}, nil
	}
	if tok.Invalid {
		l.advance(tok.Lexeme)
		return nil, &TokenizeError{
			Row:  row,
			Col:  col,
			Byte: tok.Lexeme[0],
		}
	}

	l.advance(tok.Lexeme)
	return &Token{
		KindID: l.kindTab[tok.KindID],
		Lexeme: string(tok.Lexeme),
		Row:    row,
		Col:    col,
	}, nil
}

// advance moves the position past `lexeme`. Lexemes cover the input without gaps, so the lexer
// counts positions from them instead of relying on the driver's.
// LF, CR LF, and a lone CR end a line, and columns are counted in code points.
func (l *Lexer) advance(lexeme []byte) {
	for i, b := range lexeme {
		switch {
		case b == '\n':
			l.row++
			l.col = 0
		case b == '\r':
			if i+1 < len(lexeme) && lexeme[i+1] == '\n' {
				continue
			}
			l.row++
			l.col = 0
		case utf8.RuneStart(b):
			l.col++
		}
	}
}
