package column

// Nullable wraps a non-nullable column with a null bitmask. Mask[i] == true
// means the cell is NULL; ValueAt then ignores the wrapped column's value.
//
// CompareAt implements the "plain" NULLs-last ordering with two NULLs
// considered equal. The join-disabling override (two NULLs never equal for
// cross-side matching) lives in CompareKeysAt, not here; see
// column/compare.go.
type Nullable struct {
	nested Column
	Mask   []bool
}

// NewNullable wraps nested with an all-false (non-null) mask.
func NewNullable(nested Column) *Nullable {
	return &Nullable{nested: nested, Mask: make([]bool, nested.Len())}
}

// NewNullableWithMask wraps nested with an explicit null mask.
func NewNullableWithMask(nested Column, mask []bool) *Nullable {
	return &Nullable{nested: nested, Mask: mask}
}

func (n *Nullable) Len() int { return len(n.Mask) }

func (n *Nullable) ValueAt(i int) interface{} {
	if n.Mask[i] {
		return nil
	}
	return n.nested.ValueAt(i)
}

func (n *Nullable) IsNullAt(i int) bool { return n.Mask[i] }

// Nested returns the wrapped, non-nullable column.
func (n *Nullable) Nested() Column { return n.nested }

func (n *Nullable) Clone() Column {
	mask := make([]bool, len(n.Mask))
	copy(mask, n.Mask)
	return &Nullable{nested: n.nested.Clone(), Mask: mask}
}

func (n *Nullable) CompareAt(i, j int, other Column) int {
	iNull := n.Mask[i]
	jNull := other.IsNullAt(j)

	switch {
	case iNull && jNull:
		return 0
	case iNull:
		return 1
	case jNull:
		return -1
	}

	if otherNullable, ok := other.(*Nullable); ok {
		return n.nested.CompareAt(i, j, otherNullable.nested)
	}
	return n.nested.CompareAt(i, j, other)
}
