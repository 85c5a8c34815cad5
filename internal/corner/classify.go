package corner

import "math"

const (
	hairpinApexSpeedMax   = 20.0
	hairpinReversalDeg    = 120.0
	sweeperApexSpeedMin   = 40.0
	sweeperMaxBrake       = 0.2
	heavyBrakingPeakBrake = 0.8
	heavyBrakingSpeedDrop = 25.0
	kinkSpanMaxM          = 80
	kinkSpeedDropMaxMS    = 6.0
)

// classify assigns a corner type (spec §4.4 step 7). A merged corner is
// always a chicane by construction (two apexes within merge_gap); otherwise
// the precedence below follows the spec's listed order.
func classify(seg CornerSegment, smoothed, brake, steering []float64) string {
	if seg.merged {
		return "chicane"
	}

	peakBrake := segmentMax(brake, seg.EntryM, seg.ExitM)
	speedDrop := smoothed[seg.EntryM] - smoothed[seg.ApexM]
	span := seg.ExitM - seg.EntryM

	reversalDeg := steeringReversalRad(steering, seg.EntryM, seg.ExitM) * 180 / math.Pi
	if seg.ApexSpeedMS < hairpinApexSpeedMax && reversalDeg > hairpinReversalDeg {
		return "hairpin"
	}
	if seg.ApexSpeedMS > sweeperApexSpeedMin && peakBrake < sweeperMaxBrake {
		return "sweeper"
	}
	if peakBrake > heavyBrakingPeakBrake && speedDrop > heavyBrakingSpeedDrop {
		return "heavy_braking"
	}
	if span < kinkSpanMaxM && speedDrop < kinkSpeedDropMaxMS {
		return "kink"
	}
	return "unknown"
}

func segmentMax(values []float64, start, end int) float64 {
	if len(values) == 0 {
		return 0
	}
	if end >= len(values) {
		end = len(values) - 1
	}
	max := values[start]
	for i := start; i <= end; i++ {
		if values[i] > max {
			max = values[i]
		}
	}
	return max
}

// steeringReversalRad approximates "direction of travel reverses by >120° of
// cumulative steering" as the combined angular excursion on either side of a
// sign change in the steering trace within the segment: the sum of the
// largest positive deviation and the largest negative deviation observed.
// steering is SteeringWheelAngle in radians (spec.md §3); callers convert
// the result to degrees before comparing against hairpinReversalDeg. A
// corner with no sign change in steering (a simple single-direction turn)
// returns 0, since no reversal occurred.
func steeringReversalRad(steering []float64, start, end int) float64 {
	if len(steering) == 0 {
		return 0
	}
	if end >= len(steering) {
		end = len(steering) - 1
	}
	var maxPos, maxNeg float64
	for i := start; i <= end; i++ {
		if steering[i] > maxPos {
			maxPos = steering[i]
		}
		if steering[i] < maxNeg {
			maxNeg = steering[i]
		}
	}
	if maxPos <= 0 || maxNeg >= 0 {
		return 0
	}
	return maxPos + math.Abs(maxNeg)
}
