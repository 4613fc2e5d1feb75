package column

// CompareKeysAt is the join-equality compare primitive: a lexicographic,
// three-way compare of row i's key columns (left) against row j's key
// columns (right), with the join-disabling NULL rule applied — two NULL
// keys compare unequal, so a NULL key never matches any key, including
// another NULL.
//
// It delegates to each column's own CompareAt (ascending, NULLs-last, two
// NULLs equal) and overrides the result to +1 whenever that compare reports
// equal but the left cell is NULL. Since the raw compare only reports
// "equal" for a NULL cell when the other cell is NULL too, the override
// fires exactly when both compared cells are NULL.
func CompareKeysAt(left []Column, i int, right []Column, j int) int {
	for k := range left {
		cmp := left[k].CompareAt(i, j, right[k])
		if cmp == 0 && left[k].IsNullAt(i) {
			cmp = 1
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}
