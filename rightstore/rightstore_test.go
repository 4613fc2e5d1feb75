package rightstore

import (
	"context"
	"testing"

	"github.com/kasuganosora/mergejoin/column"
	"github.com/kasuganosora/mergejoin/joinerr"
	"github.com/kasuganosora/mergejoin/joinspec"
	"github.com/stretchr/testify/require"
)

func plan(t *testing.T, maxRows int, limits joinspec.SizeLimits) *joinspec.Plan {
	p, err := joinspec.NewPlan(joinspec.Spec{
		Kind:                joinspec.Inner,
		Strictness:          joinspec.All,
		KeysLeft:            []string{"k"},
		KeysRight:           []string{"k"},
		MaxRowsInRightBlock: maxRows,
		SizeLimits:          limits,
	})
	require.NoError(t, err)
	return p
}

func block(keys []interface{}, vals []interface{}) *column.Block {
	return column.NewBlock([]string{"k", "v"}, []column.Column{
		column.NewVector(keys...),
		column.NewVector(vals...),
	})
}

func TestAddAndFinalize_SingleBlock(t *testing.T) {
	s := New(plan(t, 100, joinspec.SizeLimits{}))
	ok, err := s.Add(context.Background(), block([]interface{}{3, 1, 2}, []interface{}{"c", "a", "b"}))
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Finalize())
	blocks := s.Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, 1, blocks[0].Columns[0].ValueAt(0))
	require.Equal(t, 2, blocks[0].Columns[0].ValueAt(1))
	require.Equal(t, 3, blocks[0].Columns[0].ValueAt(2))
}

func TestFinalize_MergesMultipleBlocksGlobalSorted(t *testing.T) {
	s := New(plan(t, 2, joinspec.SizeLimits{}))
	ctx := context.Background()
	_, err := s.Add(ctx, block([]interface{}{5, 1}, []interface{}{"x", "y"}))
	require.NoError(t, err)
	_, err = s.Add(ctx, block([]interface{}{3, 2}, []interface{}{"z", "w"}))
	require.NoError(t, err)

	require.NoError(t, s.Finalize())
	blocks := s.Blocks()

	var allKeys []interface{}
	for _, b := range blocks {
		require.LessOrEqual(t, b.Rows(), 2)
		for i := 0; i < b.Rows(); i++ {
			allKeys = append(allKeys, b.Columns[0].ValueAt(i))
		}
	}
	require.Equal(t, []interface{}{1, 2, 3, 5}, allKeys)
}

func TestFinalize_Idempotent(t *testing.T) {
	s := New(plan(t, 10, joinspec.SizeLimits{}))
	_, err := s.Add(context.Background(), block([]interface{}{1, 2}, []interface{}{"a", "b"}))
	require.NoError(t, err)

	require.NoError(t, s.Finalize())
	first := s.Blocks()
	require.NoError(t, s.Finalize())
	second := s.Blocks()
	require.Len(t, second, len(first))
	for i := range first {
		require.Same(t, first[i], second[i], "repeat Finalize must not rebuild the runs")
	}
}

func TestAdd_ThrowModeRejectsOverflow(t *testing.T) {
	s := New(plan(t, 10, joinspec.SizeLimits{MaxRows: 5, OverflowMode: joinspec.Throw}))
	ctx := context.Background()
	_, err := s.Add(ctx, block([]interface{}{1, 2, 3}, []interface{}{"a", "b", "c"}))
	require.NoError(t, err)

	_, err = s.Add(ctx, block([]interface{}{4, 5, 6}, []interface{}{"d", "e", "f"}))
	require.Error(t, err)
	require.IsType(t, &joinerr.SetSizeLimitExceeded{}, err)
}

func TestAdd_BreakModeTruncatesSilently(t *testing.T) {
	s := New(plan(t, 10, joinspec.SizeLimits{MaxRows: 5, OverflowMode: joinspec.Break}))
	ctx := context.Background()
	ok, err := s.Add(ctx, block([]interface{}{1, 2, 3}, []interface{}{"a", "b", "c"}))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Add(ctx, block([]interface{}{4, 5, 6}, []interface{}{"d", "e", "f"}))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Finalize())
	total := 0
	for _, b := range s.Blocks() {
		total += b.Rows()
	}
	require.Equal(t, 5, total)
}
