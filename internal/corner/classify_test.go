package corner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestClassify_HairpinOnLowApexAndSteeringReversal(t *testing.T) {
	smoothed := flatSeries(300, 50)
	for i := 140; i <= 160; i++ {
		smoothed[i] = 15
	}
	brake := flatSeries(300, 0)
	// SteeringWheelAngle is radians (spec.md §3); 1.2 rad is close to full
	// lock, and the two-sided excursion converts to ~137.5°, past the 120°
	// hairpin threshold.
	steering := flatSeries(300, 0)
	for i := 100; i < 150; i++ {
		steering[i] = 1.2
	}
	for i := 150; i < 200; i++ {
		steering[i] = -1.2
	}
	seg := CornerSegment{EntryM: 100, ApexM: 150, ExitM: 200, ApexSpeedMS: 15}
	require.Equal(t, "hairpin", classify(seg, smoothed, brake, steering))
}

func TestClassify_SweeperOnHighApexLowBrake(t *testing.T) {
	smoothed := flatSeries(300, 50)
	brake := flatSeries(300, 0.05)
	steering := flatSeries(300, 0)
	seg := CornerSegment{EntryM: 100, ApexM: 150, ExitM: 200, ApexSpeedMS: 45}
	require.Equal(t, "sweeper", classify(seg, smoothed, brake, steering))
}

func TestClassify_HeavyBraking(t *testing.T) {
	smoothed := flatSeries(300, 50)
	for i := 140; i <= 160; i++ {
		smoothed[i] = 20
	}
	brake := flatSeries(300, 0.9)
	steering := flatSeries(300, 0)
	seg := CornerSegment{EntryM: 100, ApexM: 150, ExitM: 200, ApexSpeedMS: 20}
	require.Equal(t, "heavy_braking", classify(seg, smoothed, brake, steering))
}

func TestClassify_Kink(t *testing.T) {
	smoothed := flatSeries(300, 50)
	for i := 145; i <= 155; i++ {
		smoothed[i] = 47
	}
	brake := flatSeries(300, 0.1)
	steering := flatSeries(300, 0)
	seg := CornerSegment{EntryM: 130, ApexM: 150, ExitM: 190, ApexSpeedMS: 35}
	require.Equal(t, "kink", classify(seg, smoothed, brake, steering))
}

func TestClassify_MergedIsAlwaysChicane(t *testing.T) {
	smoothed := flatSeries(300, 50)
	brake := flatSeries(300, 0)
	steering := flatSeries(300, 0)
	seg := CornerSegment{EntryM: 100, ApexM: 150, ExitM: 200, ApexSpeedMS: 45, merged: true}
	require.Equal(t, "chicane", classify(seg, smoothed, brake, steering))
}

func TestClassify_Unknown(t *testing.T) {
	smoothed := flatSeries(300, 50)
	for i := 140; i <= 160; i++ {
		smoothed[i] = 35
	}
	brake := flatSeries(300, 0.3)
	steering := flatSeries(300, 0)
	seg := CornerSegment{EntryM: 100, ApexM: 150, ExitM: 250, ApexSpeedMS: 35}
	require.Equal(t, "unknown", classify(seg, smoothed, brake, steering))
}
