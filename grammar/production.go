package grammar

import (
	"fmt"
	"strings"
)

type production struct {
	num int
	lhs symbol
	rhs []symbol
}

func newProduction(lhs symbol, rhs []symbol) (*production, error) {
	if lhs.isNil() || lhs.isTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.isNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		lhs: lhs,
		rhs: rhs,
	}, nil
}

func (p *production) isEmpty() bool {
	return len(p.rhs) == 0
}

func (p *production) equals(q *production) bool {
	if p.lhs != q.lhs || len(p.rhs) != len(q.rhs) {
		return false
	}
	for i, sym := range p.rhs {
		if q.rhs[i] != sym {
			return false
		}
	}
	return true
}

// text returns a yacc-like text of the production.
func (p *production) text(symTab *symbolTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:", symTab.toText(p.lhs))
	if p.isEmpty() {
		fmt.Fprintf(&b, " /* empty */")
	}
	for _, sym := range p.rhs {
		fmt.Fprintf(&b, " %v", symTab.toText(sym))
	}
	return b.String()
}

type productionSet struct {
	prods     []*production
	lhs2Prods map[symbol][]*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol][]*production{},
	}
}

// append numbers `prod` in the order of appending. It returns false when the set already has
// the same production.
func (ps *productionSet) append(prod *production) bool {
	for _, p := range ps.lhs2Prods[prod.lhs] {
		if p.equals(prod) {
			return false
		}
	}

	prod.num = len(ps.prods)
	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)

	return true
}

func (ps *productionSet) findByNum(num int) (*production, bool) {
	if num < 0 || num >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByLHS(lhs symbol) ([]*production, bool) {
	if lhs.isNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}
