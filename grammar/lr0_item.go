package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
)

type lr0ItemID [32]byte

func (id lr0ItemID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

func genLR0ItemID(prod int, dot int) lr0ItemID {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], uint64(prod))
	binary.BigEndian.PutUint64(b[8:], uint64(dot))
	return sha256.Sum256(b[:])
}

// lr0Item is a production with a dot in its RHS. For `expr: expr add term`, dot 1 means
// `expr: expr ・add term`, and the dotted symbol is `add`. When the dot is at the end, the dotted
// symbol is symbolNil and the item is reducible.
type lr0Item struct {
	id           lr0ItemID
	prod         int
	dot          int
	dottedSymbol symbol

	// initial is true only for `$accept: ・start`.
	initial bool

	reducible bool

	// kernel is true for the initial item and items whose dot isn't at the head.
	kernel bool
}

func newLR0Item(prod *production, dot int) (*lr0Item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > len(prod.rhs) {
		return nil, fmt.Errorf("dot must be between 0 and %v; got: %v", len(prod.rhs), dot)
	}

	item := &lr0Item{
		id:           genLR0ItemID(prod.num, dot),
		prod:         prod.num,
		dot:          dot,
		dottedSymbol: symbolNil,
		initial:      prod.lhs.isStart() && dot == 0,
		reducible:    dot == len(prod.rhs),
	}
	if !item.reducible {
		item.dottedSymbol = prod.rhs[dot]
	}
	item.kernel = item.initial || dot > 0
	return item, nil
}

// next returns the item the parser reaches by reading the dotted symbol.
func (item *lr0Item) next(prods *productionSet) (*lr0Item, error) {
	prod, ok := prods.findByNum(item.prod)
	if !ok {
		return nil, fmt.Errorf("a production was not found: %v", item.prod)
	}
	return newLR0Item(prod, item.dot+1)
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// kernel is the set of kernel items identifying an LR(0) state. Two kernels having the same items
// have the same ID regardless of the order the items were given in.
type kernel struct {
	id    kernelID
	items []*lr0Item
}

func newKernel(items []*lr0Item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}
	for _, item := range items {
		if !item.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", item.id)
		}
	}

	sorted := make([]*lr0Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].prod != sorted[j].prod {
			return sorted[i].prod < sorted[j].prod
		}
		return sorted[i].dot < sorted[j].dot
	})
	uniq := sorted[:1]
	for _, item := range sorted[1:] {
		if item.id == uniq[len(uniq)-1].id {
			continue
		}
		uniq = append(uniq, item)
	}

	h := sha256.New()
	for _, item := range uniq {
		h.Write(item.id[:])
	}
	var id kernelID
	copy(id[:], h.Sum(nil))

	return &kernel{
		id:    id,
		items: uniq,
	}, nil
}
