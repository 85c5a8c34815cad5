// Package compare implements the Lap Comparator (C7): per-corner deltas
// between a candidate and reference lap, theoretical best across a lap set,
// and diagnosis tagging for priority ranking.
package compare

import (
	"math"

	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/lap"
)

const (
	brakingSearchLookbackM = 200
	brakingThreshold       = 0.1
	throttleThreshold      = 0.9
	exitSpeedCheckOffsetM  = 100
)

// CornerDelta is a candidate-minus-reference comparison for one corner
// segment (spec.md §4.7).
type CornerDelta struct {
	CornerNumber              int
	BrakingPointDeltaM        float64 // NaN if either lap never reaches the brake threshold in the search window
	MinSpeedDelta             float64
	ThrottleApplicationDeltaM float64 // NaN if either lap never reaches the throttle threshold
	TimeDeltaS                *float64
	Diagnosis                 string
}

// ComputeDelta compares candidate against reference over seg, using the
// same Savitzky-Golay-smoothed speed trace the Corner Detector produced
// (corner.Smooth), so min_speed_delta reflects the same curve the segment
// boundaries were derived from.
func ComputeDelta(candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) CornerDelta {
	d := CornerDelta{CornerNumber: seg.Number}

	d.BrakingPointDeltaM = brakingPointDelta(candidate, reference, seg)
	d.MinSpeedDelta = minSpeedDelta(candidate, reference, seg)
	d.ThrottleApplicationDeltaM = throttleApplicationDelta(candidate, reference, seg)
	d.TimeDeltaS = timeDelta(candidate, reference, seg)
	d.Diagnosis = diagnose(d, candidate, reference, seg)

	return d
}

func brakingPointDelta(candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) float64 {
	c := firstAtOrAfter(candidate.Get("Brake"), seg.EntryM-brakingSearchLookbackM, brakingThreshold)
	r := firstAtOrAfter(reference.Get("Brake"), seg.EntryM-brakingSearchLookbackM, brakingThreshold)
	if c < 0 || r < 0 {
		return math.NaN()
	}
	return float64(c - r)
}

func throttleApplicationDelta(candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) float64 {
	c := firstAtOrAfter(candidate.Get("Throttle"), seg.ApexM, throttleThreshold)
	r := firstAtOrAfter(reference.Get("Throttle"), seg.ApexM, throttleThreshold)
	if c < 0 || r < 0 {
		return math.NaN()
	}
	return float64(c - r)
}

// firstAtOrAfter returns the first index >= from where values[i] >=
// threshold, or -1 if none exists. from is clamped to [0, len(values)).
func firstAtOrAfter(values []float64, from int, threshold float64) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(values); i++ {
		if values[i] >= threshold {
			return i
		}
	}
	return -1
}

func minSpeedDelta(candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) float64 {
	cSpeed := corner.Smooth(candidate.Get("Speed"))
	rSpeed := corner.Smooth(reference.Get("Speed"))
	return segmentMin(cSpeed, seg.EntryM, seg.ExitM) - segmentMin(rSpeed, seg.EntryM, seg.ExitM)
}

func segmentMin(values []float64, start, end int) float64 {
	if end >= len(values) {
		end = len(values) - 1
	}
	min := values[start]
	for i := start; i <= end; i++ {
		if values[i] < min {
			min = values[i]
		}
	}
	return min
}

// timeDelta returns candidate's corner time minus reference's, or nil if
// either lap's SessionTime interval across the segment is negative (an
// incident producing non-monotonic elapsed time, spec.md §9).
func timeDelta(candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) *float64 {
	cTime := cornerTime(candidate, seg)
	rTime := cornerTime(reference, seg)
	if cTime < 0 || rTime < 0 {
		return nil
	}
	delta := cTime - rTime
	return &delta
}

// cornerTime returns a lap's elapsed SessionTime across seg.
func cornerTime(l *lap.NormalisedLap, seg corner.CornerSegment) float64 {
	st := l.Get("SessionTime")
	exit := seg.ExitM
	if exit >= len(st) {
		exit = len(st) - 1
	}
	return st[exit] - st[seg.EntryM]
}

// exitSpeedPlus100 returns the smoothed speed 100 m past seg.ExitM, clamped
// to the end of the lap.
func exitSpeedPlus100(smoothed []float64, seg corner.CornerSegment) float64 {
	idx := seg.ExitM + exitSpeedCheckOffsetM
	if idx >= len(smoothed) {
		idx = len(smoothed) - 1
	}
	return smoothed[idx]
}
