package lap

import (
	"sort"

	"github.com/apexline/telemetry-coach/internal/series"
)

// RejectReason is one of the enumerated C3 rejection reasons (spec §4.3).
type RejectReason string

const (
	RejectNone                RejectReason = ""
	RejectInsufficientCoverage RejectReason = "insufficient_coverage"
	RejectDistanceJump        RejectReason = "distance_jump"
	RejectTooShort            RejectReason = "too_short"
	RejectPitLap              RejectReason = "pit_lap"
)

// discreteChannels are nearest-neighbour resampled; every other channel is
// linearly interpolated (spec §3 "NormalisedLap").
var discreteChannels = map[string]bool{
	"Gear":               true,
	"PlayerTrackSurface": true,
	"OnPitRoad":          true,
}

const (
	stationarySpeedMS  = 0.1
	minCoverageFrac    = 0.90
	monotonicSpeedGate = 1.0
)

// NormalisedLap is a lap resampled onto a uniform 1-metre distance grid
// (spec §3). IndexM[i] == i for every i, always starting at 0 and ending at
// floor(trackLengthM). Channels follow the source samples inside the observed
// LapDist range; grid points before the first or after the last observed
// sample repeat that edge value, so SessionTime is flat there. Normalise does
// not check that SessionTime is strictly increasing.
type NormalisedLap struct {
	LapNumber int
	LapTimeS  float64
	IndexM    []int
	Channels  map[string][]float64
}

// Get returns a channel's values on the distance grid, or nil if absent.
func (n *NormalisedLap) Get(name string) []float64 { return n.Channels[name] }

// Normalise resamples raw onto the 1 m grid for a track of trackLengthM,
// or returns a RejectReason explaining why it could not (spec §4.3).
func Normalise(raw RawLap, trackLengthM float64) (*NormalisedLap, RejectReason) {
	if raw.Len() == 0 {
		return nil, RejectTooShort
	}

	onPit := raw.Channel("OnPitRoad")
	for _, v := range onPit {
		if v != 0 {
			return nil, RejectPitLap
		}
	}

	lapTimeS := raw.Channel("LapCurrentLapTime")[raw.Len()-1]

	trimEnd := trimTrailingStationary(raw.Channel("Speed"))
	if trimEnd <= 0 {
		return nil, RejectTooShort
	}

	dist := raw.Channel("LapDist")[:trimEnd]
	speed := raw.Channel("Speed")[:trimEnd]

	minDist, maxDist := dist[0], dist[0]
	for _, d := range dist {
		if d < minDist {
			minDist = d
		}
		if d > maxDist {
			maxDist = d
		}
	}
	if maxDist-minDist < minCoverageFrac*trackLengthM {
		return nil, RejectInsufficientCoverage
	}

	for i := 1; i < len(dist); i++ {
		if speed[i] > monotonicSpeedGate && dist[i] < dist[i-1] {
			return nil, RejectDistanceJump
		}
	}

	keep := dedupAndMonotonic(dist)
	if len(keep) < 2 {
		return nil, RejectTooShort
	}

	srcDist := make([]float64, len(keep))
	for i, idx := range keep {
		srcDist[i] = dist[idx]
	}

	gridLen := int(trackLengthM) + 1
	grid := make([]int, gridLen)
	for i := range grid {
		grid[i] = i
	}

	channels := make(map[string][]float64)
	for name := range raw.table.Channels {
		full := raw.Channel(name)[:trimEnd]
		src := make([]float64, len(keep))
		for i, idx := range keep {
			src[i] = full[idx]
		}
		if discreteChannels[name] {
			channels[name] = resampleNearest(srcDist, src, grid)
		} else {
			channels[name] = resampleLinear(srcDist, src, grid)
		}
	}

	return &NormalisedLap{
		LapNumber: raw.LapNumber,
		LapTimeS:  lapTimeS,
		IndexM:    grid,
		Channels:  channels,
	}, RejectNone
}

// trimTrailingStationary returns the exclusive end index after dropping a
// trailing run of samples whose Speed stays below stationarySpeedMS through
// to the end of the lap (spec §4.3 step 1).
func trimTrailingStationary(speed []float64) int {
	end := len(speed)
	for end > 0 && speed[end-1] < stationarySpeedMS {
		end--
	}
	return end
}

// dedupAndMonotonic returns the indices to retain: consecutive equal
// distance values collapse to the last occurrence (spec §4.3 step 5, §9
// "last-occurrence wins"), and any residual backward jitter (small
// decreases at low speed, which the distance-jump check above permits) is
// dropped so the grid construction always sees a strictly increasing
// source series.
func dedupAndMonotonic(dist []float64) []int {
	var keep []int
	last := 0
	hasLast := false
	for i := 0; i < len(dist); i++ {
		if i+1 < len(dist) && dist[i+1] == dist[i] {
			continue // a later identical sample will be retained instead
		}
		if hasLast && dist[i] <= dist[last] {
			continue
		}
		keep = append(keep, i)
		last = i
		hasLast = true
	}
	return keep
}

// resampleLinear linearly interpolates src (indexed by srcDist) onto grid,
// clamping to the first/last value outside the observed range.
func resampleLinear(srcDist, src []float64, grid []int) []float64 {
	out := make([]float64, len(grid))
	j := 0
	for i, g := range grid {
		x := float64(g)
		switch {
		case x <= srcDist[0]:
			out[i] = src[0]
		case x >= srcDist[len(srcDist)-1]:
			out[i] = src[len(src)-1]
		default:
			for j+1 < len(srcDist) && srcDist[j+1] < x {
				j++
			}
			x0, x1 := srcDist[j], srcDist[j+1]
			t := (x - x0) / (x1 - x0)
			out[i] = src[j] + (src[j+1]-src[j])*t
		}
	}
	return out
}

// resampleNearest nearest-neighbour resamples src onto grid.
func resampleNearest(srcDist, src []float64, grid []int) []float64 {
	out := make([]float64, len(grid))
	for i, g := range grid {
		x := float64(g)
		idx := sort.SearchFloat64s(srcDist, x)
		switch {
		case idx <= 0:
			out[i] = src[0]
		case idx >= len(srcDist):
			out[i] = src[len(src)-1]
		default:
			before, after := srcDist[idx-1], srcDist[idx]
			if x-before <= after-x {
				out[i] = src[idx-1]
			} else {
				out[i] = src[idx]
			}
		}
	}
	return out
}
