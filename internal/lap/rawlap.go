// Package lap implements the Lap Splitter (C2) and Distance Normaliser (C3).
package lap

import "github.com/apexline/telemetry-coach/internal/series"

// RawLap is a contiguous sample range whose Lap channel value is constant
// (spec §3).
type RawLap struct {
	LapNumber int
	Start     int // inclusive sample index into the source table
	End       int // exclusive sample index into the source table
	table     series.Table
}

// Len returns the number of samples in the lap.
func (r RawLap) Len() int { return r.End - r.Start }

// Channel returns the slice of name's values covering this lap's sample
// range.
func (r RawLap) Channel(name string) []float64 {
	full := r.table.MustGet(name)
	return full[r.Start:r.End]
}

// Split slices table into RawLaps on every index where the Lap channel
// value changes (spec §4.2). The first and last laps (out-lap, in-lap) are
// retained here; excluding them is the Analyser's policy, not the
// splitter's.
func Split(table series.Table) []RawLap {
	lapCh, ok := table.Get("Lap")
	if !ok || len(lapCh) == 0 {
		return nil
	}

	var laps []RawLap
	start := 0
	for i := 1; i <= len(lapCh); i++ {
		if i == len(lapCh) || lapCh[i] != lapCh[i-1] {
			laps = append(laps, RawLap{
				LapNumber: int(lapCh[start]),
				Start:     start,
				End:       i,
				table:     table,
			})
			start = i
		}
	}
	return laps
}
