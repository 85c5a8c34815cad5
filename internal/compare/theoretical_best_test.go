package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/lap"
)

func TestComputeTheoreticalBest_PicksFastestCornerPerLap(t *testing.T) {
	seg := segFor()
	segments := []corner.CornerSegment{seg}

	lapA := vShapedLap(130, 210, 40)
	lapA.LapNumber = 1
	lapB := vShapedLap(130, 210, 40)
	lapB.LapNumber = 2
	// Lap B carves the corner faster (steeper session-time pace inside the
	// segment) while its overall lap time stays equal to lap A's.
	st := lapB.Channels["SessionTime"]
	for i := seg.EntryM; i <= seg.ExitM; i++ {
		st[i] = st[seg.EntryM] + float64(i-seg.EntryM)*0.03
	}
	lapB.LapTimeS = st[len(st)-1]

	tb := ComputeTheoreticalBest([]*lap.NormalisedLap{lapA, lapB}, segments)
	require.Len(t, tb.CornerTimesS, 1)
	require.Equal(t, 2, tb.SourceLap[0])
}

func TestComputeTheoreticalBest_EmptyLapsReturnsZero(t *testing.T) {
	tb := ComputeTheoreticalBest(nil, []corner.CornerSegment{segFor()})
	require.Equal(t, 0.0, tb.TotalTimeS)
	require.Len(t, tb.CornerTimesS, 1)
}
