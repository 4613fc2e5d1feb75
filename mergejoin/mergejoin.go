// Package mergejoin implements the top-level partial merge join driver:
// accumulate the right side via rightstore, then probe each incoming left
// block against the frozen, sorted right runs using mergecursor and
// keyrange, assembling output with assembler.
package mergejoin

import (
	"context"

	"github.com/kasuganosora/mergejoin/assembler"
	"github.com/kasuganosora/mergejoin/column"
	"github.com/kasuganosora/mergejoin/joincommon"
	"github.com/kasuganosora/mergejoin/joinerr"
	"github.com/kasuganosora/mergejoin/joinspec"
	"github.com/kasuganosora/mergejoin/keyrange"
	"github.com/kasuganosora/mergejoin/mergecursor"
	"github.com/kasuganosora/mergejoin/rightstore"
)

// MergeJoin is the join driver: one instance per join operation, built
// once from a Spec and a sample of the right side's schema, fed right
// blocks via AddJoinedBlock, then probed with JoinBlock per left block.
type MergeJoin struct {
	plan        *joinspec.Plan
	store       *rightstore.Store
	rightSample *column.Block
	addedNames  []string
	nullableAdd bool

	totals *column.Block
}

// New validates spec, checks that every columns_added_by_join name refers to
// a non-key right column, and returns a ready-to-use driver.
func New(spec joinspec.Spec, rightSample *column.Block) (*MergeJoin, error) {
	plan, err := joinspec.NewPlan(spec)
	if err != nil {
		return nil, err
	}

	_, otherColumns := joincommon.ExtractKeysForJoin(spec.KeysRight, rightSample)
	eligible := make(map[string]bool, len(otherColumns))
	for _, name := range otherColumns {
		eligible[name] = true
	}

	names := make([]string, len(spec.ColumnsAddedByJoin))
	for i, cs := range spec.ColumnsAddedByJoin {
		if !eligible[cs.Name] {
			return nil, joinerr.NewLogicalError("", "columns_added_by_join references unknown or key right column: "+cs.Name)
		}
		names[i] = cs.Name
	}

	return &MergeJoin{
		plan:        plan,
		store:       rightstore.New(plan),
		rightSample: rightSample,
		addedNames:  names,
		nullableAdd: spec.ForceNullableRight || plan.IsLeft,
	}, nil
}

// AddJoinedBlock feeds one right-side block into the accumulating store.
// Must not be called after the first JoinBlock call.
func (mj *MergeJoin) AddJoinedBlock(ctx context.Context, block *column.Block) (bool, error) {
	return mj.store.Add(ctx, block)
}

// SetTotals stores the totals row and finalizes the right side (so the
// first JoinBlock call doesn't pay the finalize cost).
func (mj *MergeJoin) SetTotals(totals *column.Block) error {
	mj.totals = totals
	return mj.store.Finalize()
}

// JoinTotals applies the stored totals' right-side columns to a totals
// block, NULL-filling the appended columns if none were set.
func (mj *MergeJoin) JoinTotals(block *column.Block) error {
	if mj.totals == nil {
		want := make([]joincommon.ColumnSpec, len(mj.addedNames))
		for i, name := range mj.addedNames {
			want[i] = joincommon.ColumnSpec{Name: name}
		}
		joincommon.CreateMissedColumns(block, want)
		return nil
	}
	for _, name := range mj.addedNames {
		src, _, ok := mj.totals.ColumnByName(name)
		if !ok {
			return joinerr.NewLogicalError("", "totals block missing column "+name)
		}
		builder := column.NewBuilder(src, block.Rows())
		builder.RepeatAt(src, 0, block.Rows())
		block.Names = append(block.Names, name)
		block.Columns = append(block.Columns, builder.Finish())
	}
	return nil
}

// JoinBlock joins block in place against the frozen right side: sorts
// block by the left key columns, walks right runs in order (skipping
// non-intersecting ones), and appends the joined right columns.
func (mj *MergeJoin) JoinBlock(ctx context.Context, block *column.Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	spec := mj.plan.Spec
	if err := joincommon.CheckTypesOfKeys(block, spec.KeysLeft, mj.rightSample, spec.KeysRight); err != nil {
		return err
	}

	joincommon.RemoveLowCardinalityInplace(block)
	leftSort := make(column.SortDescription, len(mj.plan.LeftSortDescription))
	for i, name := range mj.plan.LeftSortDescription {
		leftSort[i] = column.SortColumn{Name: name}
	}
	if err := column.SortBlock(block, leftSort); err != nil {
		return joinerr.NewLogicalError(mj.store.RunID(), err.Error())
	}

	if err := mj.store.Finalize(); err != nil {
		return err
	}
	rightBlocks := mj.store.Blocks()

	leftKeys, ok := block.KeyColumns(spec.KeysLeft)
	if !ok {
		return joinerr.NewLogicalError(mj.store.RunID(), "left block missing one or more join key columns")
	}
	leftCursor := mergecursor.New(leftKeys, block.Rows())
	merger := keyrange.New(leftCursor, mj.plan.IsAll)

	copyLeft := !(mj.plan.IsLeft && !mj.plan.IsAll)
	capacityHint := 0
	if mj.plan.IsLeft {
		capacityHint = block.Rows()
	}

	out := assembler.New(block.Names, block.Columns, mj.addedNames, mj.rightTemplate(), capacityHint, copyLeft)

	var currentRight *column.Block
	emit := func(ev keyrange.Event) {
		switch ev.Kind {
		case keyrange.InequalLeft:
			if mj.plan.IsLeft {
				out.HandleInequalLeft(block, ev.From, ev.To)
			}
		case keyrange.Equal:
			switch {
			case mj.plan.IsAll:
				out.HandleEqualAll(block, currentRight, ev.Range.LeftStart, ev.Range.LeftLen, ev.Range.RightStart, ev.Range.RightLen)
			case mj.plan.IsLeft:
				out.HandleEqualAnyLeft(currentRight, ev.Range.RightStart, ev.Range.LeftLen)
			default:
				out.HandleEqualAnyInner(block, currentRight, ev.Range.LeftStart, ev.Range.LeftLen, ev.Range.RightStart)
			}
		}
	}

rightBlockLoop:
	for _, rb := range rightBlocks {
		if leftCursor.AtEnd() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if rb.Rows() == 0 {
			continue
		}

		rbKeys, ok := rb.KeyColumns(spec.KeysRight)
		if !ok {
			return joinerr.NewLogicalError(mj.store.RunID(), "right block missing one or more join key columns")
		}

		if mj.plan.SkipNotIntersected {
			switch leftCursor.Intersect(rowSlice(rbKeys, 0), rowSlice(rbKeys, rb.Rows()-1)) {
			case -1:
				break rightBlockLoop
			case 1:
				continue rightBlockLoop
			}
		}

		currentRight = rb
		rightCursor := mergecursor.New(rbKeys, rb.Rows())
		merger.ProcessBlock(rightCursor, emit)
	}
	merger.Drain(emit)

	if copyLeft {
		for i, c := range out.FinishLeft() {
			block.Columns[i] = c
		}
	}

	block.Names = append(block.Names, mj.addedNames...)
	block.Columns = append(block.Columns, out.FinishRight()...)
	return nil
}

// rightTemplate builds zero-row column shapes for the appended right
// columns, taken from the right sample schema and nullability-adjusted via
// joincommon.ConvertColumnsToNullable when the join kind or
// force_nullable_right could introduce a missing match.
func (mj *MergeJoin) rightTemplate() []column.Column {
	cols := make([]column.Column, len(mj.addedNames))
	for i, name := range mj.addedNames {
		src, _, _ := mj.rightSample.ColumnByName(name)
		cols[i] = column.NewBuilder(src, 0).Finish()
	}
	tmp := column.NewBlock(append([]string(nil), mj.addedNames...), cols)
	if mj.nullableAdd {
		joincommon.ConvertColumnsToNullable(tmp, mj.addedNames)
	}
	return tmp.Columns
}

func rowSlice(cols []column.Column, row int) []column.Column {
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		out[i] = column.AtRow(c, row)
	}
	return out
}
