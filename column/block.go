package column

import "sort"

// Block is an ordered list of named, equal-length columns — the unit the
// merge join subsystem reads and produces.
type Block struct {
	Names   []string
	Columns []Column
}

// NewBlock builds a Block from parallel name/column slices. Panics if the
// slices differ in length or the columns don't share a row count, since
// that would be a caller bug, not a runtime condition this subsystem
// recovers from.
func NewBlock(names []string, cols []Column) *Block {
	if len(names) != len(cols) {
		panic("column: NewBlock name/column count mismatch")
	}
	rows := -1
	for _, c := range cols {
		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			panic("column: NewBlock columns have mismatched row counts")
		}
	}
	return &Block{Names: names, Columns: cols}
}

// Rows returns the block's row count, 0 for a column-less block.
func (b *Block) Rows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return b.Columns[0].Len()
}

// ColumnByName looks up a column by name, returning its index too.
func (b *Block) ColumnByName(name string) (Column, int, bool) {
	for i, n := range b.Names {
		if n == name {
			return b.Columns[i], i, true
		}
	}
	return nil, -1, false
}

// KeyColumns resolves names to columns in order, for building a
// mergecursor.Cursor or calling CompareKeysAt.
func (b *Block) KeyColumns(names []string) ([]Column, bool) {
	cols := make([]Column, len(names))
	for i, name := range names {
		c, _, ok := b.ColumnByName(name)
		if !ok {
			return nil, false
		}
		cols[i] = c
	}
	return cols, true
}

// SortColumn names one column of a SortDescription; this subsystem only
// ever sorts ascending with NULLs last, so there is no direction or
// null_direction field to carry.
type SortColumn struct {
	Name string
}

// SortDescription is an ordered list of sort keys.
type SortDescription []SortColumn

// Names returns the column names of a SortDescription, in order.
func (d SortDescription) Names() []string {
	names := make([]string, len(d))
	for i, c := range d {
		names[i] = c.Name
	}
	return names
}

// SortBlock stably reorders a block's rows ascending by the named key
// columns, NULLs last.
func SortBlock(b *Block, desc SortDescription) error {
	keys, ok := b.KeyColumns(desc.Names())
	if !ok {
		return errMissingSortKey(desc.Names(), b.Names)
	}

	rows := b.Rows()
	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, bIdx int) bool {
		return CompareKeysAt(keys, order[a], keys, order[bIdx]) < 0
	})

	for i, col := range b.Columns {
		builder := NewBuilder(col, rows)
		for _, srcRow := range order {
			builder.CopyRange(col, srcRow, 1)
		}
		b.Columns[i] = builder.Finish()
	}
	return nil
}

// MaterializeBlock strips Const/LowCardinality wrappers from every column
// in place, normalizing the schema before any row-order-sensitive work
// (sorting, joining).
func MaterializeBlock(b *Block) {
	for i, c := range b.Columns {
		b.Columns[i] = Materialize(c)
	}
}
