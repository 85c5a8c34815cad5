package analyser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexline/telemetry-coach/internal/lap"
)

func lapWithTime(lapNumber int, timeS float64) *lap.NormalisedLap {
	return &lap.NormalisedLap{LapNumber: lapNumber, LapTimeS: timeS}
}

func TestFilterByPace_DropsSlowLaps(t *testing.T) {
	laps := []*lap.NormalisedLap{
		lapWithTime(1, 90.0),
		lapWithTime(2, 91.0),  // within 1.10x of 90 (99.0)
		lapWithTime(3, 120.0), // disrupted lap, excluded
	}
	survivors := filterByPace(laps, 1.10)
	require.Len(t, survivors, 2)
}

func TestFilterByPace_DefaultMultiplierFromResolvedConfig(t *testing.T) {
	cfg := Config{}.resolve()
	require.Equal(t, 1.10, cfg.PaceFilterMultiplier)
	require.Equal(t, 0.15, cfg.ConsistencyStdDevS)
	require.Equal(t, 0.20, cfg.TechniqueMeanDeltaS)
	require.Equal(t, 3, cfg.PriorityCornerCount)
}

func TestFastest_PicksMinimumTime(t *testing.T) {
	laps := []*lap.NormalisedLap{lapWithTime(1, 95.0), lapWithTime(2, 88.0), lapWithTime(3, 91.0)}
	require.Equal(t, 2, fastest(laps).LapNumber)
}

func TestMedianByTime_OddCount(t *testing.T) {
	laps := []*lap.NormalisedLap{lapWithTime(1, 95.0), lapWithTime(2, 88.0), lapWithTime(3, 91.0)}
	require.Equal(t, 3, medianByTime(laps).LapNumber)
}

func TestCheckCancelled_ReturnsNilWhenNotDone(t *testing.T) {
	require.NoError(t, checkCancelled(context.Background(), "test.op"))
}

func TestCheckCancelled_ReturnsCancelledErrorWhenDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := checkCancelled(ctx, "test.op")
	require.Error(t, err)
}
