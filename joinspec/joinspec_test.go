package joinspec

import (
	"testing"

	"github.com/kasuganosora/mergejoin/joinerr"
	"github.com/stretchr/testify/require"
)

func validSpec() Spec {
	return Spec{
		Kind:                Left,
		Strictness:          All,
		KeysLeft:            []string{"id", "id"},
		KeysRight:           []string{"id", "id"},
		MaxRowsInRightBlock: 1000,
	}
}

func TestNewPlan_Valid(t *testing.T) {
	p, err := NewPlan(validSpec())
	require.NoError(t, err)
	require.True(t, p.IsLeft)
	require.True(t, p.IsAll)
	require.Equal(t, []string{"id"}, p.LeftSortDescription)
	require.Equal(t, []string{"id", "id"}, p.LeftMergeDescription)
}

func TestNewPlan_RejectsUnsupportedKind(t *testing.T) {
	s := validSpec()
	s.Kind = Kind(99)
	_, err := NewPlan(s)
	require.Error(t, err)
	require.IsType(t, &joinerr.UnsupportedJoin{}, err)
}

func TestNewPlan_RejectsZeroMaxRows(t *testing.T) {
	s := validSpec()
	s.MaxRowsInRightBlock = 0
	_, err := NewPlan(s)
	require.Error(t, err)
	require.IsType(t, &joinerr.ParameterOutOfBound{}, err)
}

func TestNewPlan_RejectsMismatchedKeyLengths(t *testing.T) {
	s := validSpec()
	s.KeysRight = []string{"id"}
	_, err := NewPlan(s)
	require.Error(t, err)
}
