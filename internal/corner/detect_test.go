package corner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexline/telemetry-coach/internal/lap"
)

// singleCornerLap builds a 300 m lap with one braking zone (speed 60 -> 15 ->
// 60) between roughly 90 m and 250 m, braking active 90-109 m and throttle
// active from 155 m onward.
func singleCornerLap() *lap.NormalisedLap {
	const n = 300
	speed := make([]float64, n)
	brake := make([]float64, n)
	throttle := make([]float64, n)
	steering := make([]float64, n)
	index := make([]int, n)

	for i := 0; i < n; i++ {
		index[i] = i
		switch {
		case i < 100:
			speed[i] = 60
		case i < 150:
			t := float64(i-100) / 50
			speed[i] = 60 - t*45
		case i < 250:
			t := float64(i-150) / 100
			speed[i] = 15 + t*45
		default:
			speed[i] = 60
		}
		if i >= 90 && i < 110 {
			brake[i] = 0.3
		}
		if i >= 155 {
			throttle[i] = 1.0
		}
	}

	return &lap.NormalisedLap{
		LapNumber: 1,
		LapTimeS:  10,
		IndexM:    index,
		Channels: map[string][]float64{
			"Speed":              speed,
			"Brake":              brake,
			"Throttle":           throttle,
			"SteeringWheelAngle": steering,
		},
	}
}

func TestDetect_FindsSingleCorner(t *testing.T) {
	segs := Detect(singleCornerLap(), PresetRoad)
	require.Len(t, segs, 1)

	s := segs[0]
	require.Less(t, s.EntryM, s.ApexM)
	require.Less(t, s.ApexM, s.ExitM)
	require.InDelta(t, 150, s.ApexM, 15)
	require.Less(t, s.ApexSpeedMS, 25.0)
	require.NotEmpty(t, s.Type)
}

func TestDetect_NoChannelsReturnsNil(t *testing.T) {
	n := &lap.NormalisedLap{Channels: map[string][]float64{}}
	require.Nil(t, Detect(n, PresetRoad))
}

func TestDetect_FlatSpeedNoSegments(t *testing.T) {
	const n = 300
	speed := make([]float64, n)
	for i := range speed {
		speed[i] = 50
	}
	l := &lap.NormalisedLap{
		Channels: map[string][]float64{
			"Speed":              speed,
			"Brake":              make([]float64, n),
			"Throttle":           make([]float64, n),
			"SteeringWheelAngle": make([]float64, n),
		},
	}
	require.Empty(t, Detect(l, PresetRoad))
}

func TestMergeAdjacent_MergesWithinGap(t *testing.T) {
	smoothed := make([]float64, 500)
	for i := range smoothed {
		smoothed[i] = 50
	}
	preset := PresetRoad
	segs := []CornerSegment{
		{EntryM: 100, ApexM: 150, ExitM: 200, ApexSpeedMS: 30},
		{EntryM: 210, ApexM: 260, ExitM: 300, ApexSpeedMS: 25},
	}
	merged := mergeAdjacent(segs, smoothed, preset)
	require.Len(t, merged, 1)
	require.Equal(t, 100, merged[0].EntryM)
	require.Equal(t, 300, merged[0].ExitM)
	require.Equal(t, 260, merged[0].ApexM)
	require.InDelta(t, 25, merged[0].ApexSpeedMS, 1e-9)
	require.True(t, merged[0].merged)
}

func TestMergeAdjacent_LeavesFarApartSeparate(t *testing.T) {
	segs := []CornerSegment{
		{EntryM: 100, ApexM: 150, ExitM: 200, ApexSpeedMS: 30},
		{EntryM: 500, ApexM: 550, ExitM: 600, ApexSpeedMS: 25},
	}
	merged := mergeAdjacent(segs, nil, PresetRoad)
	require.Len(t, merged, 2)
}
