package column

import "fmt"

// Builder accumulates output rows for one column, used both internally by
// SortBlock (to materialize a permutation) and by the assembler package to
// build LEFT/INNER join output columns.
type Builder interface {
	// CopyRange appends n rows from src starting at row start.
	CopyRange(src Column, start, n int)
	// RepeatAt appends n copies of src's row at pos.
	RepeatAt(src Column, pos, n int)
	// AppendNulls appends n NULL (or zero-value, for a non-nullable
	// destination) rows.
	AppendNulls(n int)
	// Finish hands back the built column.
	Finish() Column
}

// NewBuilder returns a Builder shaped like template: nullable destinations
// get a nullableBuilder, everything else a vectorBuilder. capacityHint
// preallocates the backing slice when the caller already knows the
// destination row count.
func NewBuilder(template Column, capacityHint int) Builder {
	if _, ok := template.(*Nullable); ok {
		return &nullableBuilder{values: make([]interface{}, 0, capacityHint)}
	}
	return &vectorBuilder{values: make([]interface{}, 0, capacityHint)}
}

type vectorBuilder struct {
	values []interface{}
}

func (vb *vectorBuilder) CopyRange(src Column, start, n int) {
	for i := 0; i < n; i++ {
		vb.values = append(vb.values, src.ValueAt(start+i))
	}
}

func (vb *vectorBuilder) RepeatAt(src Column, pos, n int) {
	v := src.ValueAt(pos)
	for i := 0; i < n; i++ {
		vb.values = append(vb.values, v)
	}
}

func (vb *vectorBuilder) AppendNulls(n int) {
	for i := 0; i < n; i++ {
		vb.values = append(vb.values, nil)
	}
}

func (vb *vectorBuilder) Finish() Column {
	return &Vector{Values: vb.values}
}

// nullableBuilder wraps a vectorBuilder with a null mask. When the
// destination is nullable but the source column is plain, every copied row
// gets a false mask entry — handled here by IsNullAt always being consulted
// per-row regardless of whether src itself is a Nullable.
type nullableBuilder struct {
	values []interface{}
	mask   []bool
}

func (nb *nullableBuilder) CopyRange(src Column, start, n int) {
	for i := 0; i < n; i++ {
		row := start + i
		nb.values = append(nb.values, src.ValueAt(row))
		nb.mask = append(nb.mask, src.IsNullAt(row))
	}
}

func (nb *nullableBuilder) RepeatAt(src Column, pos, n int) {
	v := src.ValueAt(pos)
	isNull := src.IsNullAt(pos)
	for i := 0; i < n; i++ {
		nb.values = append(nb.values, v)
		nb.mask = append(nb.mask, isNull)
	}
}

func (nb *nullableBuilder) AppendNulls(n int) {
	for i := 0; i < n; i++ {
		nb.values = append(nb.values, nil)
		nb.mask = append(nb.mask, true)
	}
}

func (nb *nullableBuilder) Finish() Column {
	return NewNullableWithMask(&Vector{Values: nb.values}, nb.mask)
}

func errMissingSortKey(wanted, have []string) error {
	return fmt.Errorf("column: sort key column not found in block: wanted %v, have %v", wanted, have)
}
