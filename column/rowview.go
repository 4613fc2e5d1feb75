package column

// rowView presents a single row of an underlying column as a length-1
// Column, for call sites (like mergecursor.Cursor.Intersect) that compare a
// cursor's current row against one fixed row of another block without
// materializing a copy.
type rowView struct {
	src Column
	row int
}

// AtRow returns a length-1 view of c's row-th cell.
func AtRow(c Column, row int) Column { return &rowView{src: c, row: row} }

func (r *rowView) Len() int                  { return 1 }
func (r *rowView) ValueAt(int) interface{}   { return r.src.ValueAt(r.row) }
func (r *rowView) IsNullAt(int) bool         { return r.src.IsNullAt(r.row) }
func (r *rowView) Nested() Column            { return r }
func (r *rowView) Clone() Column             { return &rowView{src: r.src, row: r.row} }
func (r *rowView) CompareAt(_, j int, other Column) int {
	return r.src.CompareAt(r.row, j, other)
}
