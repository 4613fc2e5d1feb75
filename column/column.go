// Package column implements the columnar value model the merge join
// subsystem operates on: typed, equal-length column vectors grouped into
// blocks, with NULL-aware comparison and LowCardinality/constant
// materialization.
package column

import (
	"fmt"
	"strconv"
)

// Column is an immutable, random-access value sequence. CompareAt compares
// cell i of the receiver against cell j of other using an ascending,
// NULLs-last ordering where two NULLs compare equal to each other — this is
// the "plain" comparison used for sorting and for within-side equal-run
// detection. Cross-side join equality (where a NULL must never match,
// including another NULL) is layered on top by CompareKeysAt.
type Column interface {
	Len() int
	ValueAt(i int) interface{}
	CompareAt(i, j int, other Column) int
	IsNullAt(i int) bool
	// Nested returns the receiver for a plain column, or the wrapped
	// non-nullable column for a Nullable.
	Nested() Column
	Clone() Column
}

// Vector is a plain, non-nullable column backed by a slice of Go values.
type Vector struct {
	Values []interface{}
}

// NewVector builds a Vector from values.
func NewVector(values ...interface{}) *Vector {
	return &Vector{Values: values}
}

func (v *Vector) Len() int                   { return len(v.Values) }
func (v *Vector) ValueAt(i int) interface{}  { return v.Values[i] }
func (v *Vector) IsNullAt(i int) bool        { return v.Values[i] == nil }
func (v *Vector) Nested() Column             { return v }
func (v *Vector) Clone() Column {
	values := make([]interface{}, len(v.Values))
	copy(values, v.Values)
	return &Vector{Values: values}
}

// CompareAt compares v[i] against other.ValueAt(j), NULLs last, two NULLs
// considered equal.
func (v *Vector) CompareAt(i, j int, other Column) int {
	return compareScalar(v.Values[i], other.ValueAt(j))
}

// compareScalar orders two scalar values: numeric coercion first, string
// fallback otherwise, nil sorts after any non-nil value.
func compareScalar(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	aNum, aErr := toFloat64(a)
	bNum, bErr := toFloat64(b)
	if aErr == nil && bErr == nil {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	aStr := fmt.Sprintf("%v", a)
	bStr := fmt.Sprintf("%v", b)
	switch {
	case aStr < bStr:
		return -1
	case aStr > bStr:
		return 1
	default:
		return 0
	}
}

func toFloat64(arg interface{}) (float64, error) {
	switch v := arg.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float64", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", arg)
	}
}

// Const is a column whose single value is logically repeated N times. It is
// materialized into a Vector before any sort or comparison work — see
// Materialize and MaterializeBlock.
type Const struct {
	Value interface{}
	N     int
}

func (c *Const) Len() int                  { return c.N }
func (c *Const) ValueAt(int) interface{}   { return c.Value }
func (c *Const) IsNullAt(int) bool         { return c.Value == nil }
func (c *Const) Nested() Column            { return c }
func (c *Const) Clone() Column             { return &Const{Value: c.Value, N: c.N} }
func (c *Const) CompareAt(i, j int, other Column) int {
	return compareScalar(c.Value, other.ValueAt(j))
}

// Materialize expands a Const into a plain Vector of N copies of Value.
func (c *Const) Materialize() *Vector {
	values := make([]interface{}, c.N)
	for i := range values {
		values[i] = c.Value
	}
	return &Vector{Values: values}
}

// LowCardinality is a dictionary-encoded column: Codes[i] indexes Dict.
type LowCardinality struct {
	Dict  []interface{}
	Codes []int
}

func (lc *LowCardinality) Len() int                 { return len(lc.Codes) }
func (lc *LowCardinality) ValueAt(i int) interface{} { return lc.Dict[lc.Codes[i]] }
func (lc *LowCardinality) IsNullAt(i int) bool       { return lc.Dict[lc.Codes[i]] == nil }
func (lc *LowCardinality) Nested() Column            { return lc }
func (lc *LowCardinality) Clone() Column {
	dict := make([]interface{}, len(lc.Dict))
	copy(dict, lc.Dict)
	codes := make([]int, len(lc.Codes))
	copy(codes, lc.Codes)
	return &LowCardinality{Dict: dict, Codes: codes}
}
func (lc *LowCardinality) CompareAt(i, j int, other Column) int {
	return compareScalar(lc.ValueAt(i), other.ValueAt(j))
}

// Materialize expands a LowCardinality column into a plain Vector.
func (lc *LowCardinality) Materialize() *Vector {
	values := make([]interface{}, len(lc.Codes))
	for i, code := range lc.Codes {
		values[i] = lc.Dict[code]
	}
	return &Vector{Values: values}
}

// Materialize strips Const/LowCardinality wrappers, returning an equivalent
// plain column. Nullable columns are materialized recursively through their
// nested column. Any other column is returned unchanged.
func Materialize(c Column) Column {
	switch v := c.(type) {
	case *Const:
		return v.Materialize()
	case *LowCardinality:
		return v.Materialize()
	case *Nullable:
		return NewNullableWithMask(Materialize(v.Nested()), append([]bool(nil), v.Mask...))
	default:
		return c
	}
}
