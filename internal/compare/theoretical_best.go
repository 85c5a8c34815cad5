package compare

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/lap"
)

// TheoreticalBest is the fastest achievable lap assembled by stitching
// together each corner's best-observed time across a set of laps, with the
// remaining straights taken from the single fastest lap (spec.md §4.7
// "theoretical best").
type TheoreticalBest struct {
	TotalTimeS   float64
	CornerTimesS []float64 // one per corner, in segment order
	SourceLap    []int     // lap number that contributed each corner's time
}

// ComputeTheoreticalBest evaluates corner times for every lap in laps against
// segments (detected once on the session's reference lap), and assembles the
// fastest composite: each corner's time is the minimum across laps, and the
// total is that sum plus the fastest lap's time spent outside any corner
// segment (the straights).
func ComputeTheoreticalBest(laps []*lap.NormalisedLap, segments []corner.CornerSegment) TheoreticalBest {
	tb := TheoreticalBest{
		CornerTimesS: make([]float64, len(segments)),
		SourceLap:    make([]int, len(segments)),
	}
	if len(laps) == 0 {
		return tb
	}

	for ci, seg := range segments {
		best := math.Inf(1)
		bestLap := laps[0].LapNumber
		for _, l := range laps {
			t := cornerTime(l, seg)
			if t < best {
				best, bestLap = t, l.LapNumber
			}
		}
		tb.CornerTimesS[ci] = best
		tb.SourceLap[ci] = bestLap
	}

	fastest := fastestLap(laps)
	straightTime := fastest.LapTimeS
	for _, seg := range segments {
		straightTime -= cornerTime(fastest, seg)
	}

	total := straightTime
	for _, t := range tb.CornerTimesS {
		total += t
	}
	tb.TotalTimeS = total

	return tb
}

func fastestLap(laps []*lap.NormalisedLap) *lap.NormalisedLap {
	best := laps[0]
	for _, l := range laps[1:] {
		if l.LapTimeS < best.LapTimeS {
			best = l
		}
	}
	return best
}

// LapTimeMean and LapTimeStdDev back the consistency/technique-issue
// classification in C8: a driver whose corner times vary widely across laps
// (stat.StdDev above the configured absolute threshold) gets flagged as
// inconsistent rather than simply slow.
func LapTimeMean(samples []float64) float64 { return stat.Mean(samples, nil) }

func LapTimeStdDev(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	return stat.StdDev(samples, nil)
}
