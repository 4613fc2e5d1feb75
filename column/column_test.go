package column

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareKeysAt_NullNeverJoins(t *testing.T) {
	left := NewNullableWithMask(NewVector(1, 2), []bool{false, true})
	right := NewNullableWithMask(NewVector(1, 2), []bool{false, true})

	require.Equal(t, 0, CompareKeysAt([]Column{left}, 0, []Column{right}, 0), "non-null keys should compare equal")
	require.Equal(t, 1, CompareKeysAt([]Column{left}, 1, []Column{right}, 1), "two NULL keys must never compare equal")
}

func TestCompareKeysAt_PlainVsNullable(t *testing.T) {
	plain := NewVector(5, 5)
	nullable := NewNullableWithMask(NewVector(5, 0), []bool{false, true})

	require.Equal(t, 0, CompareKeysAt([]Column{plain}, 0, []Column{nullable}, 0))
	require.Equal(t, -1, CompareKeysAt([]Column{plain}, 1, []Column{nullable}, 1), "plain non-null key sorts before a NULL key")
}

func TestSortBlock_StableAscendingNullsLast(t *testing.T) {
	b := NewBlock(
		[]string{"k", "v"},
		[]Column{
			NewNullableWithMask(NewVector(2, nil, 1, 1), []bool{false, true, false, false}),
			NewVector("b", "c", "a1", "a2"),
		},
	)

	require.NoError(t, SortBlock(b, SortDescription{{Name: "k"}}))

	kCol := b.Columns[0]
	require.Equal(t, 1, kCol.ValueAt(0))
	require.Equal(t, 1, kCol.ValueAt(1))
	require.True(t, kCol.IsNullAt(3), "NULL key sorts last")

	vCol := b.Columns[1]
	require.Equal(t, "a1", vCol.ValueAt(0))
	require.Equal(t, "a2", vCol.ValueAt(1))
	require.Equal(t, "b", vCol.ValueAt(2))
}

func TestMaterializeBlock_StripsConstAndLowCardinality(t *testing.T) {
	b := NewBlock(
		[]string{"c", "lc"},
		[]Column{
			&Const{Value: "x", N: 3},
			&LowCardinality{Dict: []interface{}{"a", "b"}, Codes: []int{0, 1, 0}},
		},
	)
	MaterializeBlock(b)

	_, isConst := b.Columns[0].(*Const)
	require.False(t, isConst)
	require.Equal(t, "x", b.Columns[0].ValueAt(1))

	_, isLC := b.Columns[1].(*LowCardinality)
	require.False(t, isLC)
	require.Equal(t, "b", b.Columns[1].ValueAt(1))
}

func TestBuilder_NullableFromPlainSource(t *testing.T) {
	src := NewVector("x", "y", "z")
	b := NewBuilder(NewNullable(NewVector()), 0)
	b.CopyRange(src, 1, 2)
	out := b.Finish().(*Nullable)
	require.Equal(t, "y", out.ValueAt(0))
	require.False(t, out.IsNullAt(0))

	b2 := NewBuilder(NewNullable(NewVector()), 0)
	b2.AppendNulls(2)
	out2 := b2.Finish().(*Nullable)
	require.True(t, out2.IsNullAt(0))
	require.True(t, out2.IsNullAt(1))
}
