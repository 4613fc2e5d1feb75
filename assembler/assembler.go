// Package assembler builds a merge join's output columns: the left side's
// own columns (copied or left untouched) and the right side's appended
// columns (copied, repeated, or NULL-filled), driven by keyrange's
// inequal/equal event stream.
package assembler

import "github.com/kasuganosora/mergejoin/column"

// Output accumulates one join_block call's result columns.
type Output struct {
	leftNames  []string
	leftCols   []column.Builder
	rightNames []string
	rightCols  []column.Builder

	copyLeft bool
}

// New builds an Output. leftTemplate/rightTemplate supply the column
// shapes (plain vs nullable) for NewBuilder; capacityHint sizes the
// initial allocation. copyLeft controls whether copy_left/CopyLeft is a
// no-op: set false for ANY+LEFT, where the block's own left columns are
// reused as-is and only right columns are built.
func New(leftNames []string, leftTemplate []column.Column, rightNames []string, rightTemplate []column.Column, capacityHint int, copyLeft bool) *Output {
	o := &Output{leftNames: leftNames, rightNames: rightNames, copyLeft: copyLeft}
	if copyLeft {
		o.leftCols = make([]column.Builder, len(leftTemplate))
		for i, c := range leftTemplate {
			o.leftCols[i] = column.NewBuilder(c, capacityHint)
		}
	}
	o.rightCols = make([]column.Builder, len(rightTemplate))
	for i, c := range rightTemplate {
		o.rightCols[i] = column.NewBuilder(c, capacityHint)
	}
	return o
}

// CopyLeft extends each left builder by n rows from block starting at
// start. A no-op when the Output was constructed with copyLeft == false.
func (o *Output) CopyLeft(block *column.Block, start, n int) {
	if !o.copyLeft || n == 0 {
		return
	}
	for i, name := range o.leftNames {
		src, _, ok := block.ColumnByName(name)
		if !ok {
			continue
		}
		o.leftCols[i].CopyRange(src, start, n)
	}
}

// CopyRight extends each right builder by n rows from rightBlock starting
// at start, looked up by name.
func (o *Output) CopyRight(rightBlock *column.Block, start, n int) {
	if n == 0 {
		return
	}
	for i, name := range o.rightNames {
		src, _, ok := rightBlock.ColumnByName(name)
		if !ok {
			continue
		}
		o.rightCols[i].CopyRange(src, start, n)
	}
}

// RepeatRight extends each right builder with n copies of rightBlock's row
// at pos.
func (o *Output) RepeatRight(rightBlock *column.Block, pos, n int) {
	if n == 0 {
		return
	}
	for i, name := range o.rightNames {
		src, _, ok := rightBlock.ColumnByName(name)
		if !ok {
			continue
		}
		o.rightCols[i].RepeatAt(src, pos, n)
	}
}

// AppendNullRight extends each right builder with n NULL rows.
func (o *Output) AppendNullRight(n int) {
	if n == 0 {
		return
	}
	for _, b := range o.rightCols {
		b.AppendNulls(n)
	}
}

// FinishLeft hands back the built left columns, or nil if copyLeft was
// false (caller should reuse the block's own columns instead).
func (o *Output) FinishLeft() []column.Column {
	if !o.copyLeft {
		return nil
	}
	cols := make([]column.Column, len(o.leftCols))
	for i, b := range o.leftCols {
		cols[i] = b.Finish()
	}
	return cols
}

// FinishRight hands back the built right (appended) columns.
func (o *Output) FinishRight() []column.Column {
	cols := make([]column.Column, len(o.rightCols))
	for i, b := range o.rightCols {
		cols[i] = b.Finish()
	}
	return cols
}

// HandleInequalLeft applies a LEFT join's inequal-left event: left rows
// [from,to) with no right-side match get copied through with a NULL right
// side.
func (o *Output) HandleInequalLeft(block *column.Block, from, to int) {
	n := to - from
	o.CopyLeft(block, from, n)
	o.AppendNullRight(n)
}

// HandleEqualAll applies an ALL-strictness equal event: the full cartesian
// product of the matching left and right rows.
func (o *Output) HandleEqualAll(block, rightBlock *column.Block, leftStart, leftLen, rightStart, rightLen int) {
	for row := rightStart; row < rightStart+rightLen; row++ {
		o.CopyLeft(block, leftStart, leftLen)
		o.RepeatRight(rightBlock, row, leftLen)
	}
}

// HandleEqualAnyLeft applies an ANY-strictness, LEFT-join equal event: the
// block's own left rows are reused as-is (Output must have been built with
// copyLeft == false), and the right side broadcasts its first matching row
// leftLen times so the two sides stay row-aligned.
func (o *Output) HandleEqualAnyLeft(rightBlock *column.Block, rightStart, leftLen int) {
	o.RepeatRight(rightBlock, rightStart, leftLen)
}

// HandleEqualAnyInner applies an ANY-strictness, INNER-join equal event:
// left rows are copied through and the right side broadcasts its first
// matching row.
func (o *Output) HandleEqualAnyInner(block, rightBlock *column.Block, leftStart, leftLen, rightStart int) {
	o.CopyLeft(block, leftStart, leftLen)
	o.RepeatRight(rightBlock, rightStart, leftLen)
}
