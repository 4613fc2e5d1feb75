// Package joincommon implements the small schema-adjustment helpers the
// merge join driver needs from its surrounding query layer: partitioning a
// sample schema into join keys and appended columns, checking key-type
// compatibility, and applying nullability/LowCardinality normalization.
// A full planner would own these; this module provides narrow, in-module
// equivalents so mergejoin has no external dependency.
package joincommon

import (
	"github.com/kasuganosora/mergejoin/column"
	"github.com/kasuganosora/mergejoin/joinerr"
)

// ExtractKeysForJoin partitions sample's columns into the right-side join
// key columns (named by keysRight) and everything else, which becomes the
// pool of columns eligible for columns_added_by_join.
func ExtractKeysForJoin(keysRight []string, sample *column.Block) (keyColumns []string, otherColumns []string) {
	isKey := make(map[string]bool, len(keysRight))
	for _, k := range keysRight {
		isKey[k] = true
	}
	for _, name := range sample.Names {
		if isKey[name] {
			keyColumns = append(keyColumns, name)
		} else {
			otherColumns = append(otherColumns, name)
		}
	}
	return keyColumns, otherColumns
}

// CheckTypesOfKeys verifies that every named left/right key column exists
// and that their non-null values fall in compatible value families
// (numeric vs. string). It does not require identical Go types, since a
// Vector's cells are loosely typed — only that the two sides aren't
// fundamentally incomparable.
func CheckTypesOfKeys(leftBlock *column.Block, keysLeft []string, rightSample *column.Block, keysRight []string) error {
	for i := range keysLeft {
		lc, _, ok := leftBlock.ColumnByName(keysLeft[i])
		if !ok {
			return joinerr.NewTypeMismatch(keysLeft[i], keysRight[i])
		}
		rc, _, ok := rightSample.ColumnByName(keysRight[i])
		if !ok {
			return joinerr.NewTypeMismatch(keysLeft[i], keysRight[i])
		}
		lf := firstNonNullFamily(lc)
		rf := firstNonNullFamily(rc)
		if lf != "" && rf != "" && lf != rf {
			return joinerr.NewTypeMismatch(keysLeft[i], keysRight[i])
		}
	}
	return nil
}

func firstNonNullFamily(c column.Column) string {
	for i := 0; i < c.Len(); i++ {
		if c.IsNullAt(i) {
			continue
		}
		switch c.ValueAt(i).(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return "numeric"
		case string:
			return "string"
		default:
			return "other"
		}
	}
	return ""
}

// CreateMissedColumns appends NULL-filled columns to block for any name in
// want not already present, sized to block's row count.
func CreateMissedColumns(block *column.Block, want []ColumnSpec) {
	rows := block.Rows()
	for _, spec := range want {
		if _, _, ok := block.ColumnByName(spec.Name); ok {
			continue
		}
		mask := make([]bool, rows)
		for i := range mask {
			mask[i] = true
		}
		block.Names = append(block.Names, spec.Name)
		block.Columns = append(block.Columns, column.NewNullableWithMask(column.NewVector(make([]interface{}, rows)...), mask))
	}
}

// ColumnSpec names a column and is used only to drive CreateMissedColumns.
// It is a separate type from joinspec.ColumnSpec; this package does not
// import joinspec.
type ColumnSpec struct {
	Name string
}

// ConvertColumnsToNullable wraps every named column of block in a Nullable
// (all-false mask) if it isn't already nullable.
func ConvertColumnsToNullable(block *column.Block, names []string) {
	for _, name := range names {
		c, idx, ok := block.ColumnByName(name)
		if !ok {
			continue
		}
		if _, isNullable := c.(*column.Nullable); isNullable {
			continue
		}
		block.Columns[idx] = column.NewNullable(c)
	}
}

// RemoveLowCardinalityInplace strips Const/LowCardinality wrappers from
// every column of block, delegating to column.MaterializeBlock.
func RemoveLowCardinalityInplace(block *column.Block) {
	column.MaterializeBlock(block)
}
