// Package joinspec defines the merge join subsystem's external
// configuration surface: the immutable Spec a caller builds, and the Plan
// the driver precomputes from it once at construction.
package joinspec

import "github.com/kasuganosora/mergejoin/joinerr"

// Kind is the supported join kinds: only LEFT and INNER (no FULL, no
// RIGHT).
type Kind int

const (
	Inner Kind = iota
	Left
)

func (k Kind) String() string {
	if k == Inner {
		return "INNER"
	}
	return "LEFT"
}

// Strictness is ALL (full cartesian product per equal-key group) or ANY (at
// most one right row per left row).
type Strictness int

const (
	All Strictness = iota
	Any
)

func (s Strictness) String() string {
	if s == All {
		return "ALL"
	}
	return "ANY"
}

// OverflowMode governs what happens when RightSideStore's size limits are
// exceeded.
type OverflowMode int

const (
	Throw OverflowMode = iota
	Break
)

// ColumnSpec names one right-side column appended to the join output.
type ColumnSpec struct {
	Name string
	Type string
}

// SizeLimits caps the right side's accumulated row/byte counts.
type SizeLimits struct {
	MaxRows      int
	MaxBytes     int64
	OverflowMode OverflowMode
}

// Spec is the immutable, externally-constructed join specification. The
// surrounding query planner is responsible for producing one; this module
// only consumes it.
type Spec struct {
	Kind                Kind
	Strictness          Strictness
	KeysLeft            []string
	KeysRight           []string
	ColumnsAddedByJoin  []ColumnSpec
	ForceNullableRight  bool
	MaxRowsInRightBlock int
	SizeLimits          SizeLimits
}

// Plan is the driver's precomputed, immutable form of a Spec. Rewriting
// passes upstream of this module produce a new Plan rather than mutate one.
type Plan struct {
	Spec Spec

	LeftSortDescription  []string // unique key names, sort-dedup'd
	RightSortDescription []string
	LeftMergeDescription []string // full key lists, duplicates preserved
	RightMergeDescription []string

	IsAll              bool
	IsInner            bool
	IsLeft             bool
	SkipNotIntersected bool
}

// NewPlan validates spec and precomputes the driver's Plan. It rejects any
// kind other than LEFT/INNER or strictness other than ALL/ANY with
// joinerr.UnsupportedJoin, and a zero MaxRowsInRightBlock with
// joinerr.ParameterOutOfBound.
func NewPlan(spec Spec) (*Plan, error) {
	if spec.Kind != Inner && spec.Kind != Left {
		return nil, joinerr.NewUnsupportedJoin(spec.Kind.String(), spec.Strictness.String())
	}
	if spec.Strictness != All && spec.Strictness != Any {
		return nil, joinerr.NewUnsupportedJoin(spec.Kind.String(), spec.Strictness.String())
	}
	if len(spec.KeysLeft) == 0 || len(spec.KeysLeft) != len(spec.KeysRight) {
		return nil, joinerr.NewLogicalError("", "keys_left and keys_right must be non-empty and equal length")
	}
	if spec.MaxRowsInRightBlock <= 0 {
		return nil, joinerr.NewParameterOutOfBound("max_rows_in_right_block", spec.MaxRowsInRightBlock)
	}

	return &Plan{
		Spec:                   spec,
		LeftSortDescription:    dedup(spec.KeysLeft),
		RightSortDescription:   dedup(spec.KeysRight),
		LeftMergeDescription:   append([]string(nil), spec.KeysLeft...),
		RightMergeDescription:  append([]string(nil), spec.KeysRight...),
		IsAll:                  spec.Strictness == All,
		IsInner:                spec.Kind == Inner,
		IsLeft:                 spec.Kind == Left,
		SkipNotIntersected:     true,
	}, nil
}

// dedup preserves first-seen order while dropping repeats — sort
// descriptions drop duplicate keys, merge descriptions keep them.
func dedup(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
