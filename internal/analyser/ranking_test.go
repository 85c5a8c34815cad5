package analyser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexline/telemetry-coach/internal/compare"
)

func td(v float64) *float64 { return &v }

func TestRankPriorityCorners_OrdersByAbsDeltaDescending(t *testing.T) {
	deltas := []compare.CornerDelta{
		{CornerNumber: 1, TimeDeltaS: td(0.1), Diagnosis: "other"},
		{CornerNumber: 2, TimeDeltaS: td(-0.8), Diagnosis: "late_brake_over_slow"},
		{CornerNumber: 3, TimeDeltaS: td(0.3), Diagnosis: "tight_line"},
	}
	named := []NamedSegment{{Name: "T1"}, {Name: "T2"}, {Name: "T3"}}

	top := rankPriorityCorners(deltas, named, 3)
	require.Len(t, top, 3)
	require.Equal(t, 2, top[0].CornerNumber)
	require.Equal(t, "T2", top[0].Name)
	require.InDelta(t, -0.8, top[0].TimeLostS, 1e-9)
	require.Equal(t, 3, top[1].CornerNumber)
	require.Equal(t, 1, top[2].CornerNumber)
}

func TestRankPriorityCorners_SkipsNilTimeDelta(t *testing.T) {
	deltas := []compare.CornerDelta{
		{CornerNumber: 1, TimeDeltaS: nil},
		{CornerNumber: 2, TimeDeltaS: td(0.5)},
	}
	top := rankPriorityCorners(deltas, nil, 3)
	require.Len(t, top, 1)
	require.Equal(t, 2, top[0].CornerNumber)
}

func TestRankPriorityCorners_TruncatesToCount(t *testing.T) {
	deltas := []compare.CornerDelta{
		{CornerNumber: 1, TimeDeltaS: td(0.9)},
		{CornerNumber: 2, TimeDeltaS: td(0.8)},
		{CornerNumber: 3, TimeDeltaS: td(0.7)},
	}
	top := rankPriorityCorners(deltas, nil, 2)
	require.Len(t, top, 2)
}
