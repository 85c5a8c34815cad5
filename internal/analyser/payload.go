// Package analyser implements the Analyser (C8): end-to-end orchestration
// of C1 through C7 for a single capture file, producing one CoachingPayload.
package analyser

import "github.com/apexline/telemetry-coach/internal/corner"

// NamedSegment is a detected corner segment paired with its registry name,
// carried in the payload for downstream plotting (spec §4.8).
type NamedSegment struct {
	Segment corner.CornerSegment
	Name    string // empty when no track-store record matched
}

// PriorityCorner is one of the top-3 corners ranked by abs(time_delta_s)
// descending (spec §4.8).
type PriorityCorner struct {
	CornerNumber int
	Name         string
	TimeLostS    float64
	Diagnosis    string
}

// ConsistencyFinding flags a corner whose per-lap times are erratic
// (consistency_issue) or consistently off-reference (technique_issue).
type ConsistencyFinding struct {
	CornerNumber     int
	Name             string
	StdDevS          float64
	MeanDeltaS       float64
	ConsistencyIssue bool
	TechniqueIssue   bool
}

// CoachingPayload is the Analyser's single structured output (spec §4.8,
// §6 "Structured output to external collaborators" — field names and units
// are part of this contract).
type CoachingPayload struct {
	TrackID              string
	TrackName            string
	ReferenceLap         int
	ReferenceTime        float64
	TheoreticalBestTimeS float64
	PriorityCorners      []PriorityCorner
	ConsistencyFindings  []ConsistencyFinding
	Segments             []NamedSegment
}
