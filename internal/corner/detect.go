package corner

import (
	"math"

	"github.com/apexline/telemetry-coach/internal/lap"
)

// Detect segments lapData into corners using preset (spec §4.4). lapData
// must carry Speed, Brake, Throttle and SteeringWheelAngle channels.
func Detect(lapData *lap.NormalisedLap, preset Preset) []CornerSegment {
	speed := lapData.Get("Speed")
	if len(speed) == 0 {
		return nil
	}
	brake := lapData.Get("Brake")
	throttle := lapData.Get("Throttle")
	steering := lapData.Get("SteeringWheelAngle")

	smoothed := smoothSpeed(speed)

	segments := make([]CornerSegment, 0)
	for _, apex := range findApexCandidates(smoothed, preset) {
		entry := walkEntry(smoothed, brake, apex, preset)
		exit := walkExit(smoothed, throttle, apex, preset)
		segments = append(segments, CornerSegment{
			EntryM:      entry,
			ApexM:       apex,
			ExitM:       exit,
			ApexSpeedMS: smoothed[apex],
		})
	}

	segments = mergeAdjacent(segments, smoothed, preset)
	segments = filterFalsePositives(segments, smoothed, brake, preset)

	for i := range segments {
		segments[i].Type = classify(segments[i], smoothed, brake, steering)
		segments[i].Number = i + 1
	}
	return segments
}

// findApexCandidates returns local-minima indices of smoothed below
// preset.ApexSpeedCeiling whose surrounding peak-to-trough drop clears
// preset.MinCornerSpeedDrop (spec §4.4 step 2).
func findApexCandidates(smoothed []float64, preset Preset) []int {
	var apexes []int
	n := len(smoothed)
	for i := 1; i < n-1; i++ {
		if smoothed[i] >= preset.ApexSpeedCeiling {
			continue
		}
		fallingIn := smoothed[i] <= smoothed[i-1]
		risingOut := smoothed[i] <= smoothed[i+1]
		isStrict := smoothed[i] < smoothed[i-1] || smoothed[i] < smoothed[i+1]
		if !(fallingIn && risingOut && isStrict) {
			continue
		}
		before := localMax(smoothed, i, -entryWalkMaxM-50)
		after := localMax(smoothed, i, entryWalkMaxM+50)
		drop := math.Min(before-smoothed[i], after-smoothed[i])
		if drop >= preset.MinCornerSpeedDrop {
			apexes = append(apexes, i)
		}
	}
	return dedupAdjacentApexes(apexes, smoothed)
}

// dedupAdjacentApexes collapses apex candidates that land on the same
// plateau of consecutive equal-valued minima into a single representative.
func dedupAdjacentApexes(apexes []int, smoothed []float64) []int {
	if len(apexes) == 0 {
		return apexes
	}
	out := []int{apexes[0]}
	for _, a := range apexes[1:] {
		last := out[len(out)-1]
		if a-last <= 1 {
			continue
		}
		out = append(out, a)
	}
	return out
}

// localMax scans from i toward i+reach (reach may be negative for backward)
// and returns the maximum value seen, bounded to the slice.
func localMax(smoothed []float64, i, reach int) float64 {
	n := len(smoothed)
	start, end := i, i+reach
	if end < start {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n - 1
	}
	max := smoothed[start]
	for k := start; k <= end; k++ {
		if smoothed[k] > max {
			max = smoothed[k]
		}
	}
	return max
}

// walkEntry walks backward from apex until Brake >= preset.BrakeThreshold is
// first observed, or the smoothed-speed derivative rises above a small
// positive epsilon (deceleration onset), bounded to entryWalkMaxM (spec
// §4.4 step 3).
func walkEntry(smoothed, brake []float64, apex int, preset Preset) int {
	entry := apex
	limit := apex - entryWalkMaxM
	if limit < 0 {
		limit = 0
	}
	for k := apex - 1; k >= limit; k-- {
		entry = k
		brakeActive := len(brake) > k && brake[k] >= preset.BrakeThreshold
		derivRising := k > 0 && smoothed[k]-smoothed[k-1] > derivEpsilon
		if brakeActive || derivRising {
			break
		}
	}
	return entry
}

// walkExit walks forward from apex until Throttle >= preset.ThrottleThreshold
// and the smoothed speed exitRiseRunM further on (clamped to the lap end) is
// higher than at that point (spec §4.4 step 4). Only the two endpoints are
// compared; the samples in between are not checked.
func walkExit(smoothed, throttle []float64, apex int, preset Preset) int {
	n := len(smoothed)
	for k := apex + 1; k < n; k++ {
		if len(throttle) <= k || throttle[k] < preset.ThrottleThreshold {
			continue
		}
		runEnd := k + exitRiseRunM
		if runEnd >= n {
			runEnd = n - 1
		}
		if runEnd > k && smoothed[runEnd] > smoothed[k] {
			return k
		}
	}
	return n - 1
}
