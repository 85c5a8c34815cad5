package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/lap"
)

func fixtureLap(n int, speed, brake, throttle, sessionTime func(i int) float64) *lap.NormalisedLap {
	grid := make([]int, n)
	sp := make([]float64, n)
	br := make([]float64, n)
	th := make([]float64, n)
	st := make([]float64, n)
	for i := 0; i < n; i++ {
		grid[i] = i
		sp[i] = speed(i)
		br[i] = brake(i)
		th[i] = throttle(i)
		st[i] = sessionTime(i)
	}
	return &lap.NormalisedLap{
		LapNumber: 1,
		LapTimeS:  st[n-1],
		IndexM:    grid,
		Channels: map[string][]float64{
			"Speed":       sp,
			"Brake":       br,
			"Throttle":    th,
			"SessionTime": st,
		},
	}
}

// vShapedLap builds a 400 m synthetic corner: braking from brakeStart,
// minimum speed at apex, throttle back on from throttleStart.
func vShapedLap(brakeStart, throttleStart int, apexSpeed float64) *lap.NormalisedLap {
	return fixtureLap(400,
		func(i int) float64 {
			switch {
			case i < brakeStart:
				return 60
			case i < 200:
				t := float64(i-brakeStart) / float64(200-brakeStart)
				return 60 - t*(60-apexSpeed)
			default:
				t := float64(i-200) / float64(400-200)
				if t > 1 {
					t = 1
				}
				return apexSpeed + t*(60-apexSpeed)
			}
		},
		func(i int) float64 {
			if i >= brakeStart && i < 200 {
				return 0.6
			}
			return 0.0
		},
		func(i int) float64 {
			if i >= throttleStart {
				return 1.0
			}
			return 0.0
		},
		func(i int) float64 { return float64(i) * 0.05 },
	)
}

func segFor() corner.CornerSegment {
	return corner.CornerSegment{Number: 1, EntryM: 150, ApexM: 200, ExitM: 250}
}

func TestComputeDelta_LateBraking(t *testing.T) {
	reference := vShapedLap(100, 210, 40)
	candidate := vShapedLap(130, 210, 35) // brakes 30 m later, carries less apex speed
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.Equal(t, 1, d.CornerNumber)
	require.Greater(t, d.BrakingPointDeltaM, 0.0)
	require.Less(t, d.MinSpeedDelta, 0.0)
	require.Equal(t, "late_brake_over_slow", d.Diagnosis)
}

func TestComputeDelta_EarlyLift(t *testing.T) {
	reference := vShapedLap(130, 210, 40)
	// Candidate lifts (starts braking) much earlier but brakes gently.
	candidate := fixtureLap(400,
		func(i int) float64 {
			switch {
			case i < 60:
				return 60
			case i < 200:
				t := float64(i-60) / float64(200-60)
				return 60 - t*(60-45)
			default:
				t := float64(i-200) / float64(200)
				if t > 1 {
					t = 1
				}
				return 45 + t*(60-45)
			}
		},
		func(i int) float64 {
			if i >= 60 && i < 200 {
				return 0.15 // gentle brake, peak stays below the early_lift threshold
			}
			return 0.0
		},
		func(i int) float64 {
			if i >= 210 {
				return 1.0
			}
			return 0.0
		},
		func(i int) float64 { return float64(i) * 0.05 },
	)
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.Less(t, d.BrakingPointDeltaM, 0.0)
	require.Equal(t, "early_lift", d.Diagnosis)
}

func TestComputeDelta_TightLine(t *testing.T) {
	reference := vShapedLap(130, 210, 45)
	candidate := vShapedLap(130, 210, 38) // same braking point, slower through apex
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.InDelta(t, 0, d.BrakingPointDeltaM, 1e-9)
	require.Less(t, d.MinSpeedDelta, -3.0)
	require.Equal(t, "tight_line", d.Diagnosis)
}

func TestComputeDelta_EarlyThrottleLossOfDrive(t *testing.T) {
	reference := vShapedLap(130, 250, 40)
	// Candidate applies throttle 60 m earlier than reference but spins up the
	// rears, so its exit speed 100 m past the corner is lower than reference's.
	candidate := fixtureLap(400,
		func(i int) float64 {
			switch {
			case i < 130:
				return 60
			case i < 200:
				t := float64(i-130) / float64(200-130)
				return 60 - t*(60-40)
			case i < 350:
				t := float64(i-200) / float64(350-200)
				return 40 + t*5
			default:
				t := float64(i-350) / float64(400-350)
				return 45 + t*15
			}
		},
		func(i int) float64 {
			if i >= 130 && i < 200 {
				return 0.6
			}
			return 0.0
		},
		func(i int) float64 {
			if i >= 190 {
				return 1.0
			}
			return 0.0
		},
		func(i int) float64 { return float64(i) * 0.05 },
	)
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.Less(t, d.ThrottleApplicationDeltaM, -10.0)
	require.Equal(t, "early_throttle_loss_of_drive", d.Diagnosis)
}

func TestComputeDelta_Other(t *testing.T) {
	reference := vShapedLap(130, 210, 40)
	candidate := vShapedLap(131, 211, 40) // negligible differences
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.Equal(t, "other", d.Diagnosis)
}

func TestComputeDelta_NaNWhenThresholdNeverReached(t *testing.T) {
	// Brake never reaches brakingThreshold anywhere in either lap.
	flat := fixtureLap(400,
		func(i int) float64 { return 60 },
		func(i int) float64 { return 0.0 },
		func(i int) float64 { return 1.0 },
		func(i int) float64 { return float64(i) * 0.05 },
	)
	seg := segFor()

	d := ComputeDelta(flat, flat, seg)
	require.True(t, math.IsNaN(d.BrakingPointDeltaM))
}

func TestComputeDelta_TimeDeltaNilOnNegativeInterval(t *testing.T) {
	reference := vShapedLap(130, 210, 40)
	// Candidate's SessionTime goes backwards across the segment (incident).
	candidate := vShapedLap(130, 210, 40)
	st := candidate.Channels["SessionTime"]
	st[250] = st[150] - 1
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.Nil(t, d.TimeDeltaS)
}

func TestComputeDelta_TimeDeltaPositiveWhenSlower(t *testing.T) {
	reference := vShapedLap(130, 210, 40)
	candidate := fixtureLap(400,
		func(i int) float64 { return 60 },
		func(i int) float64 { return 0 },
		func(i int) float64 { return 1 },
		func(i int) float64 { return float64(i) * 0.08 }, // slower pace throughout
	)
	seg := segFor()

	d := ComputeDelta(candidate, reference, seg)
	require.NotNil(t, d.TimeDeltaS)
	require.Greater(t, *d.TimeDeltaS, 0.0)
}
