package grammar

import (
	"fmt"

	verr "github.com/nihei9/docblock/error"
	spec "github.com/nihei9/docblock/spec/grammar"
)

type terminalDecl struct {
	name string
	kind int
}

type ruleDecl struct {
	lhs string
	rhs []string
}

// GrammarBuilder collects declarations of a grammar. Declarations are checked all together by Build.
type GrammarBuilder struct {
	name  string
	terms []*terminalDecl
	rules []*ruleDecl
	start string
}

func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name: name,
	}
}

// Terminal declares a terminal symbol a token kind maps to. The kind 0 is reserved for the end of input.
func (b *GrammarBuilder) Terminal(name string, kind int) {
	b.terms = append(b.terms, &terminalDecl{
		name: name,
		kind: kind,
	})
}

// Rule declares a production and returns its rule number. Rules are numbered from 1 in the order
// of declarations; the rule 0 is the augmented production `$accept: start`.
func (b *GrammarBuilder) Rule(lhs string, rhs ...string) int {
	b.rules = append(b.rules, &ruleDecl{
		lhs: lhs,
		rhs: rhs,
	})
	return len(b.rules)
}

// Start sets the start symbol. The LHS of the first rule is the start symbol by default.
func (b *GrammarBuilder) Start(lhs string) {
	b.start = lhs
}

type Grammar struct {
	name   string
	symTab *symbolTable
	prods  *productionSet
}

func (g *Grammar) Name() string {
	return g.name
}

func isReservedName(name string) bool {
	switch name {
	case terminalNameEOF, terminalNameError, nonTerminalStart:
		return true
	}
	return false
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	var errs verr.SpecErrors
	addErr := func(cause error, detail string, rule int) {
		errs = append(errs, &verr.SpecError{
			Cause:      cause,
			Detail:     detail,
			SourceName: b.name,
			Rule:       rule,
		})
	}

	symTab := newSymbolTable()
	for _, term := range b.terms {
		if isReservedName(term.name) {
			addErr(semErrReservedSym, term.name, 0)
			continue
		}
		_, err := symTab.registerTerminal(term.name, term.kind)
		if err != nil {
			addErr(err, fmt.Sprintf("%v (kind %v)", term.name, term.kind), 0)
		}
	}

	if len(b.rules) == 0 {
		addErr(semErrNoProduction, "", 0)
		return nil, errs
	}

	for i, rule := range b.rules {
		if isReservedName(rule.lhs) {
			addErr(semErrReservedSym, rule.lhs, i+1)
			continue
		}
		_, err := symTab.registerNonTerminal(rule.lhs)
		if err != nil {
			addErr(err, rule.lhs, i+1)
		}
	}

	startName := b.start
	if startName == "" {
		startName = b.rules[0].lhs
	}
	startSym, ok := symTab.toSymbol(startName)
	if !ok || startSym.isTerminal() || startSym.isStart() {
		addErr(semErrNoStartSymbol, startName, 0)
		return nil, errs
	}

	prods := newProductionSet()
	{
		prod, err := newProduction(symbolStart, []symbol{startSym})
		if err != nil {
			return nil, err
		}
		prods.append(prod)
	}
	for i, rule := range b.rules {
		lhs, ok := symTab.toSymbol(rule.lhs)
		if !ok || lhs.isTerminal() || lhs.isStart() {
			// The LHS is already reported.
			continue
		}

		rhs := make([]symbol, 0, len(rule.rhs))
		valid := true
		for _, name := range rule.rhs {
			if isReservedName(name) {
				addErr(semErrReservedSym, name, i+1)
				valid = false
				continue
			}
			sym, ok := symTab.toSymbol(name)
			if !ok {
				addErr(semErrUndefinedSym, name, i+1)
				valid = false
				continue
			}
			rhs = append(rhs, sym)
		}
		if !valid {
			continue
		}

		prod, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(prod) {
			addErr(semErrDuplicateProduction, prod.text(symTab), i+1)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	b.checkUnusedSymbols(symTab, prods, addErr)
	if len(errs) > 0 {
		return nil, errs
	}

	return &Grammar{
		name:   b.name,
		symTab: symTab,
		prods:  prods,
	}, nil
}

// checkUnusedSymbols reports non-terminals the start symbol cannot reach and terminals no reachable
// production uses.
func (b *GrammarBuilder) checkUnusedSymbols(symTab *symbolTable, prods *productionSet, addErr func(cause error, detail string, rule int)) {
	marked := map[symbol]bool{
		symbolStart: true,
	}
	unchecked := []symbol{symbolStart}
	for len(unchecked) > 0 {
		lhs := unchecked[0]
		unchecked = unchecked[1:]
		ps, _ := prods.findByLHS(lhs)
		for _, prod := range ps {
			for _, sym := range prod.rhs {
				if marked[sym] {
					continue
				}
				marked[sym] = true
				if !sym.isTerminal() {
					unchecked = append(unchecked, sym)
				}
			}
		}
	}

	for num := 1; num < symTab.nonTerminalCount(); num++ {
		sym := newNonTerminalSymbol(num)
		if marked[sym] {
			continue
		}
		addErr(semErrUnusedProduction, symTab.toText(sym), 0)
	}
	for num := int(symbolError) + 1; num < symTab.terminalCount(); num++ {
		sym := newTerminalSymbol(num)
		if marked[sym] {
			continue
		}
		addErr(semErrUnusedTerminal, symTab.toText(sym), 0)
	}
}

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

// EnableReporting makes Compile generate a report of the automaton.
func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compile generates parse tables of a grammar. A grammar that is not SLR(1) results in
// verr.SpecErrors listing all conflicts.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.ParseTables, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	firstSet, err := genFirstSet(gram.prods)
	if err != nil {
		return nil, nil, err
	}

	followSet, err := genFollowSet(gram.prods, firstSet)
	if err != nil {
		return nil, nil, err
	}

	lr0, err := genLR0Automaton(gram.prods, symbolStart)
	if err != nil {
		return nil, nil, err
	}

	slr1, err := genSLR1Automaton(lr0, gram.prods, followSet)
	if err != nil {
		return nil, nil, err
	}

	b := &lrTableBuilder{
		automaton: slr1,
		prods:     gram.prods,
		symTab:    gram.symTab,
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	if len(b.conflicts) > 0 {
		return nil, nil, genConflictErrors(gram, b.conflicts)
	}

	ptab := &spec.ParseTables{
		Name: gram.name,
	}
	err = tab.pack(ptab)
	if err != nil {
		return nil, nil, err
	}

	symCount := gram.symTab.terminalCount()
	{
		size := gram.symTab.maxKind() + 1
		kind2Sym := make([]int, size)
		for kind := range kind2Sym {
			kind2Sym[kind] = symCount
		}
		for kind, sym := range gram.symTab.kind2Sym {
			kind2Sym[kind] = sym.num()
		}
		ptab.TokenToSymbol = kind2Sym
		ptab.TokenToSymbolMapSize = size
	}

	{
		ps := gram.prods.getAllProductions()
		ptab.RuleToNonTerminal = make([]int, len(ps))
		ptab.RuleToLength = make([]int, len(ps))
		ptab.RuleName = make([]string, len(ps))
		for _, p := range ps {
			ptab.RuleToNonTerminal[p.num] = p.lhs.num()
			ptab.RuleToLength[p.num] = len(p.rhs)
			ptab.RuleName[p.num] = p.text(gram.symTab)
		}
	}

	ptab.SymbolToName = append([]string{}, gram.symTab.termTexts...)
	ptab.NonTerminalToName = append([]string{}, gram.symTab.nonTermTexts...)
	ptab.SymbolCount = symCount
	ptab.InvalidSymbol = symCount
	ptab.ErrorSymbol = symbolError.num()

	err = ptab.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("generated tables are broken: %w", err)
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report, err = b.genReport(tab)
		if err != nil {
			return nil, nil, err
		}
	}

	return ptab, report, nil
}

func genConflictErrors(gram *Grammar, conflicts []conflict) error {
	ruleText := func(num int) string {
		prod, ok := gram.prods.findByNum(num)
		if !ok {
			return fmt.Sprintf("#%v", num)
		}
		return prod.text(gram.symTab)
	}

	var errs verr.SpecErrors
	for _, con := range conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			errs = append(errs, &verr.SpecError{
				Cause:      semErrSRConflict,
				Detail:     fmt.Sprintf("state %v, symbol %v: shift to state %v / reduce by %v", c.state, gram.symTab.toText(c.sym), c.nextState, ruleText(c.prodNum)),
				SourceName: gram.name,
				Rule:       c.prodNum,
			})
		case *reduceReduceConflict:
			errs = append(errs, &verr.SpecError{
				Cause:      semErrRRConflict,
				Detail:     fmt.Sprintf("state %v, symbol %v: reduce by %v / reduce by %v", c.state, gram.symTab.toText(c.sym), ruleText(c.prodNum1), ruleText(c.prodNum2)),
				SourceName: gram.name,
				Rule:       c.prodNum2,
			})
		}
	}
	return errs
}
