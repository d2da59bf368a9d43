package compressor

import (
	"fmt"
	"sort"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

// CheckMode decides what a check slot of a compressed table records.
type CheckMode int

const (
	// CheckColumn records the column number of an entry. A lookup of (row, col) is valid when the
	// slot records col. This is how an action table is checked, and it requires every non-empty
	// row to own a distinct displacement.
	CheckColumn CheckMode = iota

	// CheckRow records the row number of an entry. This is how a goto table is checked.
	CheckRow
)

// ForbiddenValue marks a check slot no entry occupies.
const ForbiddenValue = -1

// RowDisplacementTable overlays the rows of a sparse table on one array. A row starts at its
// displacement, and a check array tells whether a slot belongs to the row being looked up.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	MinDisplacement  int
	Mode             CheckMode
	Entries          []int
	Checks           []int
	RowDisplacement  []int
}

// NewRowDisplacementTable returns a new RowDisplacementTable. Entries equal to `emptyValue` are
// not stored. Non-empty rows get displacements greater than or equal to `minDisplacement`; empty
// rows get the displacement 0.
func NewRowDisplacementTable(emptyValue int, mode CheckMode, minDisplacement int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue:      emptyValue,
		MinDisplacement: minDisplacement,
		Mode:            mode,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Mode == CheckColumn && d == 0 {
		return tab.EmptyValue, nil
	}
	idx := d + col
	if idx < 0 || idx >= len(tab.Entries) || tab.Checks[idx] != tab.checkValue(row, col) {
		return tab.EmptyValue, nil
	}
	return tab.Entries[idx], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *RowDisplacementTable) checkValue(row, col int) int {
	if tab.Mode == CheckRow {
		return row
	}
	return col
}

type row struct {
	num  int
	cols []int
}

// Compress packs `orig`. Rows with more entries are placed first, each at the smallest displacement
// after the previously placed row where none of its entries collide with placed ones.
func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	if tab.Mode == CheckColumn && tab.MinDisplacement < 1 {
		return fmt.Errorf("a column-checked table needs a minimum displacement >= 1 because the displacement 0 means an empty row")
	}

	rows := make([]*row, 0, orig.rowCount)
	for r := 0; r < orig.rowCount; r++ {
		var cols []int
		for c, v := range orig.entries[r*orig.colCount : (r+1)*orig.colCount] {
			if v != tab.EmptyValue {
				cols = append(cols, c)
			}
		}
		if len(cols) == 0 {
			continue
		}
		rows = append(rows, &row{
			num:  r,
			cols: cols,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	var entries []int
	var checks []int
	collides := func(d int, cols []int) bool {
		for _, c := range cols {
			if d+c < len(checks) && checks[d+c] != ForbiddenValue {
				return true
			}
		}
		return false
	}
	displacement := make([]int, orig.rowCount)
	d := tab.MinDisplacement
	for _, r := range rows {
		for collides(d, r.cols) {
			d++
		}
		for len(entries) < d+orig.colCount {
			entries = append(entries, tab.EmptyValue)
			checks = append(checks, ForbiddenValue)
		}
		for _, c := range r.cols {
			entries[d+c] = orig.entries[r.num*orig.colCount+c]
			checks[d+c] = tab.checkValue(r.num, c)
		}
		displacement[r.num] = d

		// Displacements only increase, so no two non-empty rows share one.
		d++
	}

	// Trailing unused slots are dropped; a lookup beyond the end is a miss.
	n := len(checks)
	for n > 0 && checks[n-1] == ForbiddenValue {
		n--
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:n]
	tab.Checks = checks[:n]
	tab.RowDisplacement = displacement

	return nil
}
