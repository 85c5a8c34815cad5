package compare

import (
	"math"

	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/lap"
)

const (
	lateBrakeOverSlowBrakeDeltaM = 5.0
	lateBrakeOverSlowSpeedDelta  = -2.0
	earlyLiftBrakeDeltaM         = -5.0
	earlyLiftPeakBrakeMax        = 0.3
	tightLineSpeedDelta          = -3.0
	earlyThrottleLossDeltaM      = -10.0
)

// diagnose tags a CornerDelta for priority ranking (spec.md §4.7). A NaN
// braking-point or throttle-application delta (threshold never reached)
// fails every rule that reads it, falling through to "other".
func diagnose(d CornerDelta, candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) string {
	switch {
	case d.BrakingPointDeltaM > lateBrakeOverSlowBrakeDeltaM && d.MinSpeedDelta < lateBrakeOverSlowSpeedDelta:
		return "late_brake_over_slow"
	case d.BrakingPointDeltaM < earlyLiftBrakeDeltaM && candidatePeakBrake(candidate, seg) < earlyLiftPeakBrakeMax:
		return "early_lift"
	case d.MinSpeedDelta < tightLineSpeedDelta &&
		d.BrakingPointDeltaM >= earlyLiftBrakeDeltaM && d.BrakingPointDeltaM <= lateBrakeOverSlowBrakeDeltaM:
		return "tight_line"
	case d.ThrottleApplicationDeltaM < earlyThrottleLossDeltaM && exitSpeedRegressed(candidate, reference, seg):
		return "early_throttle_loss_of_drive"
	default:
		return "other"
	}
}

func candidatePeakBrake(candidate *lap.NormalisedLap, seg corner.CornerSegment) float64 {
	brake := candidate.Get("Brake")
	if len(brake) == 0 {
		return math.NaN()
	}
	end := seg.ExitM
	if end >= len(brake) {
		end = len(brake) - 1
	}
	peak := brake[seg.EntryM]
	for i := seg.EntryM; i <= end; i++ {
		if brake[i] > peak {
			peak = brake[i]
		}
	}
	return peak
}

func exitSpeedRegressed(candidate, reference *lap.NormalisedLap, seg corner.CornerSegment) bool {
	cSpeed := corner.Smooth(candidate.Get("Speed"))
	rSpeed := corner.Smooth(reference.Get("Speed"))
	return exitSpeedPlus100(cSpeed, seg) < exitSpeedPlus100(rSpeed, seg)
}
