package analyser

import "github.com/apexline/telemetry-coach/internal/trackstore"

// Config tunes thresholds the spec states as defaults but allows callers to
// override (spec.md §9 open question on consistency/technique thresholds).
// A zero-value Config resolves every field to the stated default.
type Config struct {
	PaceFilterMultiplier float64 // default 1.10
	ConsistencyStdDevS   float64 // default 0.15
	TechniqueMeanDeltaS  float64 // default 0.20
	PriorityCornerCount  int     // default 3

	// Preset, when non-empty, overrides the track_type-derived corner preset
	// (spec §6 "analyse(capture_path, track_store, preset?)"). Empty means
	// derive from the Track Store's recorded track_type, defaulting to road
	// when the track is unknown or unreadable (spec §4.8).
	Preset string

	// Landmarks, when non-nil, is consulted to seed the Track Store the
	// first time a track with no named corners is encountered (spec §4.5
	// "when has_named_corners(track_id) is false, the seeder is invoked").
	Landmarks trackstore.LandmarksDataset
}

func (c Config) resolve() Config {
	if c.PaceFilterMultiplier == 0 {
		c.PaceFilterMultiplier = 1.10
	}
	if c.ConsistencyStdDevS == 0 {
		c.ConsistencyStdDevS = 0.15
	}
	if c.TechniqueMeanDeltaS == 0 {
		c.TechniqueMeanDeltaS = 0.20
	}
	if c.PriorityCornerCount == 0 {
		c.PriorityCornerCount = 3
	}
	return c
}
