package joincommon

import (
	"testing"

	"github.com/kasuganosora/mergejoin/column"
	"github.com/kasuganosora/mergejoin/joinerr"
	"github.com/stretchr/testify/require"
)

func blockOf(names []string, cols ...[]interface{}) *column.Block {
	columns := make([]column.Column, len(cols))
	for i, c := range cols {
		columns[i] = column.NewVector(c...)
	}
	return column.NewBlock(names, columns)
}

func TestExtractKeysForJoin(t *testing.T) {
	sample := blockOf([]string{"key", "rval", "other"},
		[]interface{}{}, []interface{}{}, []interface{}{})

	keyCols, otherCols := ExtractKeysForJoin([]string{"key"}, sample)
	require.Equal(t, []string{"key"}, keyCols)
	require.Equal(t, []string{"rval", "other"}, otherCols)
}

func TestCheckTypesOfKeys_HappyPath(t *testing.T) {
	left := blockOf([]string{"key"}, []interface{}{1, 2, 3})
	right := blockOf([]string{"key"}, []interface{}{})
	require.NoError(t, CheckTypesOfKeys(left, []string{"key"}, right, []string{"key"}))
}

func TestCheckTypesOfKeys_MissingLeftColumn(t *testing.T) {
	left := blockOf([]string{"other"}, []interface{}{1})
	right := blockOf([]string{"key"}, []interface{}{})
	err := CheckTypesOfKeys(left, []string{"key"}, right, []string{"key"})
	require.Error(t, err)
	require.IsType(t, &joinerr.TypeMismatch{}, err)
}

func TestCheckTypesOfKeys_MissingRightColumn(t *testing.T) {
	left := blockOf([]string{"key"}, []interface{}{1})
	right := blockOf([]string{"other"}, []interface{}{})
	err := CheckTypesOfKeys(left, []string{"key"}, right, []string{"key"})
	require.Error(t, err)
	require.IsType(t, &joinerr.TypeMismatch{}, err)
}

func TestCheckTypesOfKeys_NumericVsStringMismatch(t *testing.T) {
	left := blockOf([]string{"key"}, []interface{}{1, 2, 3})
	right := blockOf([]string{"key"}, []interface{}{"a", "b"})
	err := CheckTypesOfKeys(left, []string{"key"}, right, []string{"key"})
	require.Error(t, err)
	mismatch, ok := err.(*joinerr.TypeMismatch)
	require.True(t, ok)
	require.Equal(t, "key", mismatch.LeftKey)
	require.Equal(t, "key", mismatch.RightKey)
}

func TestCheckTypesOfKeys_AllNullSkipsFamilyCheck(t *testing.T) {
	left := column.NewBlock([]string{"key"}, []column.Column{
		column.NewNullableWithMask(column.NewVector(nil, nil), []bool{true, true}),
	})
	right := blockOf([]string{"key"}, []interface{}{"a", "b"})
	require.NoError(t, CheckTypesOfKeys(left, []string{"key"}, right, []string{"key"}))
}
