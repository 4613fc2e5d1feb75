// Package mergecursor implements a positional cursor over a sorted block's
// key columns: just pos, rows, and the key column references needed to walk
// and compare rows. It carries none of the generic multi-way merge
// machinery a general sort-merge cursor would need, since this subsystem
// only ever merges two sides.
package mergecursor

import "github.com/kasuganosora/mergejoin/column"

// Range is the result of NextEqualRange: the starting position and run
// length of a matching key range on each side. An empty Range (both lengths
// zero) means one side ran out before a match was found.
type Range struct {
	LeftStart  int
	RightStart int
	LeftLen    int
	RightLen   int
}

// Empty reports whether the range carries no rows on either side.
func (r Range) Empty() bool { return r.LeftLen == 0 && r.RightLen == 0 }

// Cursor walks one side's key columns in sorted order.
type Cursor struct {
	pos  int
	rows int
	keys []column.Column

	// hasNullable is computed once at construction; nothing reads it.
	// Comparison always goes through column.CompareKeysAt, which already
	// branches on nullability per column.
	hasNullable bool
}

// New builds a cursor over keys, a parallel list of a block's key columns in
// join-key order. rows is the block's row count.
func New(keys []column.Column, rows int) *Cursor {
	hasNullable := false
	for _, k := range keys {
		if _, ok := k.(*column.Nullable); ok {
			hasNullable = true
			break
		}
	}
	return &Cursor{keys: keys, rows: rows, hasNullable: hasNullable}
}

// Position returns the cursor's current row.
func (c *Cursor) Position() int { return c.pos }

// End returns one past the last valid row (the block's row count).
func (c *Cursor) End() int { return c.rows }

// AtEnd reports whether the cursor has consumed every row.
func (c *Cursor) AtEnd() bool { return c.pos >= c.rows }

// Advance moves the cursor forward by n rows.
func (c *Cursor) Advance(n int) { c.pos += n }

// CompareRow lexicographically compares row i of the receiver's keys
// against row j of other's keys, using the join-disabling NULL rule
// (column.CompareKeysAt) — two NULL keys never compare equal.
func (c *Cursor) CompareRow(other *Cursor, i, j int) int {
	return column.CompareKeysAt(c.keys, i, other.keys, j)
}

// EqualRunLength counts consecutive rows starting at pos sharing the same
// key, using the plain (non-join-disabling) per-column compare — within one
// sorted side, consecutive NULLs are grouped into the same run, since that
// side was sorted with the same NULLs-last, NULLs-equal convention. Returns
// 0 only when the cursor is already at end.
func (c *Cursor) EqualRunLength() int {
	if c.AtEnd() {
		return 0
	}
	n := 1
	for c.pos+n < c.rows && c.samePlain(c.pos, c.pos+n) {
		n++
	}
	return n
}

func (c *Cursor) samePlain(i, j int) bool {
	for _, k := range c.keys {
		if k.CompareAt(i, j, k) != 0 {
			return false
		}
	}
	return true
}

// NextEqualRange advances both cursors (the receiver as "left", other as
// "right") until their current rows share a key or either side ends. On a
// match it returns the starting positions and run lengths on both sides
// without advancing past them; on exhaustion it returns an empty Range at
// the current positions.
func (c *Cursor) NextEqualRange(other *Cursor) Range {
	for !c.AtEnd() && !other.AtEnd() {
		cmp := c.CompareRow(other, c.pos, other.pos)
		switch {
		case cmp < 0:
			c.pos++
		case cmp > 0:
			other.pos++
		default:
			return Range{
				LeftStart:  c.pos,
				RightStart: other.pos,
				LeftLen:    c.EqualRunLength(),
				RightLen:   other.EqualRunLength(),
			}
		}
	}
	return Range{LeftStart: c.pos, RightStart: other.pos}
}

// Intersect compares the receiver's remaining key range against the min/max
// keys of a candidate right block (rightMin, rightMax being the first and
// last row of that block's key columns):
//
//	-1 — the cursor's remaining rows lie entirely before the block (skip
//	     this block and stop probing, since right blocks are globally
//	     sorted and every later block is also all-after)
//	+1 — the cursor's remaining rows lie entirely after the block (skip
//	     just this block and keep probing; a later block may still overlap)
//	 0 — overlap is possible; the block must be processed
func (c *Cursor) Intersect(rightMin, rightMax []column.Column) int {
	if c.AtEnd() {
		panic("mergecursor: Intersect called on an exhausted cursor")
	}
	lastPos := c.rows - 1

	firstVsMax := 0
	lastVsMin := 0
	for i := range c.keys {
		if firstVsMax == 0 {
			firstVsMax = nullableCompareForIntersect(c.keys[i], c.pos, rightMax[i], 0)
		}
		if lastVsMin == 0 {
			lastVsMin = nullableCompareForIntersect(c.keys[i], lastPos, rightMin[i], 0)
		}
	}

	switch {
	case firstVsMax > 0:
		return 1
	case lastVsMin < 0:
		return -1
	default:
		return 0
	}
}

// nullableCompareForIntersect is always NULL-aware regardless of whether
// either side actually carries nullable columns, since intersect only runs
// once per right block and the extra branch cost is immaterial here.
func nullableCompareForIntersect(left column.Column, i int, right column.Column, j int) int {
	cmp := left.CompareAt(i, j, right)
	if cmp == 0 && left.IsNullAt(i) {
		return 1
	}
	return cmp
}
