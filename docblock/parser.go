package docblock

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nihei9/docblock/driver/parser"
	spec "github.com/nihei9/docblock/spec/grammar"
	mlspec "github.com/nihei9/maleeni/spec"
)

type parserConfig struct {
	tables *spec.ParseTables
	obs    parser.Observer
}

type ParserOption func(c *parserConfig) error

// WithTables makes a parser use tables compiled from the docblock grammar elsewhere, for instance
// tables `docblock compile` wrote to a file.
func WithTables(tab *spec.ParseTables) ParserOption {
	return func(c *parserConfig) error {
		if tab == nil {
			return fmt.Errorf("tables must be non-nil")
		}
		c.tables = tab
		return nil
	}
}

// WithObserver makes a parser report every step to `o`.
func WithObserver(o parser.Observer) ParserOption {
	return func(c *parserConfig) error {
		if o == nil {
			return fmt.Errorf("an observer must be non-nil")
		}
		c.obs = o
		return nil
	}
}

type Parser struct {
	p       *parser.Parser
	lexSpec *mlspec.CompiledLexSpec
}

func NewParser(opts ...ParserOption) (*Parser, error) {
	c := &parserConfig{}
	for _, opt := range opts {
		err := opt(c)
		if err != nil {
			return nil, err
		}
	}

	ptab := c.tables
	if ptab == nil {
		var err error
		ptab, err = Tables()
		if err != nil {
			return nil, err
		}
	} else {
		err := checkTables(ptab)
		if err != nil {
			return nil, err
		}
	}

	tab, err := parser.NewTables(ptab)
	if err != nil {
		return nil, err
	}

	var popts []parser.ParserOption
	if c.obs != nil {
		popts = append(popts, parser.Observe(c.obs))
	}
	p, err := parser.NewParser(tab, actionTable(), popts...)
	if err != nil {
		return nil, err
	}

	return &Parser{
		p:       p,
		lexSpec: ptab.LexicalSpecification,
	}, nil
}

// checkTables makes sure the rules of `tab` are the rules of the docblock grammar, so that the
// semantic actions receive the values they expect.
func checkTables(tab *spec.ParseTables) error {
	rs := rules()
	if len(tab.RuleToLength) != len(rs)+1 {
		return fmt.Errorf("tables are not of the docblock grammar: %v rules, want: %v", len(tab.RuleToLength), len(rs)+1)
	}
	var names []string
	for i, r := range rs {
		if tab.RuleToLength[i+1] != len(r.rhs) {
			return fmt.Errorf("tables are not of the docblock grammar: rule %v has %v symbols, want: %v", i+1, tab.RuleToLength[i+1], len(r.rhs))
		}
		names = append(names, ruleText(r))
	}
	if len(tab.RuleName) == 0 {
		return nil
	}
	for i, name := range names {
		if tab.RuleName[i+1] != name {
			return fmt.Errorf("tables are not of the docblock grammar: rule %v is %q, want: %q", i+1, tab.RuleName[i+1], name)
		}
	}
	return nil
}

func ruleText(r *rule) string {
	if len(r.rhs) == 0 {
		return fmt.Sprintf("%v: /* empty */", r.lhs)
	}
	return fmt.Sprintf("%v: %v", r.lhs, strings.Join(r.rhs, " "))
}

// Parse parses one docblock. Parse can be called concurrently.
func (p *Parser) Parse(src io.Reader) (*Docblock, error) {
	ts, err := parser.NewTokenStream(p.lexSpec, src)
	if err != nil {
		return nil, err
	}
	v, err := p.p.Parse(ts)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(*Docblock)
	if !ok {
		return nil, &parser.InternalError{
			Message: fmt.Sprintf("a parse resulted in %T instead of a docblock", v),
		}
	}
	return doc, nil
}

var (
	defaultOnce   sync.Once
	defaultParser *Parser
	defaultErr    error
)

// Parse parses one docblock with the built-in tables.
func Parse(src string) (*Docblock, error) {
	defaultOnce.Do(func() {
		defaultParser, defaultErr = NewParser()
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultParser.Parse(strings.NewReader(src))
}
