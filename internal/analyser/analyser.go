package analyser

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apexline/telemetry-coach/internal/capture"
	"github.com/apexline/telemetry-coach/internal/compare"
	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/errs"
	"github.com/apexline/telemetry-coach/internal/lap"
	"github.com/apexline/telemetry-coach/internal/registry"
	"github.com/apexline/telemetry-coach/internal/trackstore"
)

// Analyser orchestrates C1 through C7 for one capture, emitting a single
// CoachingPayload (spec §4.8).
type Analyser struct {
	Store  *trackstore.Store // may be nil: corner naming is skipped
	Log    zerolog.Logger
	Config Config
}

// New returns an Analyser with its Config defaults resolved.
func New(store *trackstore.Store, log zerolog.Logger, cfg Config) *Analyser {
	return &Analyser{Store: store, Log: log, Config: cfg.resolve()}
}

// Analyse runs the pipeline end to end for the capture at path. ctx is
// checked between stages per spec §5's cancellation points; cancellation
// returns errs.Cancelled and releases all intermediate buffers.
func (a *Analyser) Analyse(ctx context.Context, path string) (*CoachingPayload, error) {
	const op = "analyser.Analyse"
	runID := uuid.NewString()
	log := a.Log.With().Str("run_id", runID).Str("capture", path).Logger()

	cp, err := capture.Parse(path, capture.RequiredChannels)
	if err != nil {
		log.Error().Err(err).Msg("capture parse failed")
		return nil, err
	}
	if err := checkCancelled(ctx, op); err != nil {
		return nil, err
	}

	table, err := cp.Table(capture.RequiredChannels)
	if err != nil {
		return nil, err
	}

	rawLaps := lap.Split(table)
	trackLengthM := cp.Meta.TrackLengthM

	var normalised []*lap.NormalisedLap
	for _, raw := range rawLaps {
		n, reject := lap.Normalise(raw, trackLengthM)
		if reject != lap.RejectNone {
			log.Debug().Int("lap", raw.LapNumber).Str("reject", string(reject)).Msg("lap rejected")
			continue
		}
		normalised = append(normalised, n)
	}
	if err := checkCancelled(ctx, op); err != nil {
		return nil, err
	}

	survivors := filterByPace(normalised, a.Config.PaceFilterMultiplier)
	if len(survivors) < 2 {
		return nil, errs.New(op, errs.NoUsableLap, nil)
	}

	reference := fastest(survivors)
	candidate := medianByTime(survivors)

	preset := corner.PresetForTrackType(a.trackType(log, cp.Meta.TrackID))
	segments := corner.Detect(reference, preset)
	if err := checkCancelled(ctx, op); err != nil {
		return nil, err
	}

	named := a.nameSegments(log, cp.Meta.TrackID, segments)

	deltas := make([]compare.CornerDelta, 0, len(segments))
	for _, seg := range segments {
		deltas = append(deltas, compare.ComputeDelta(candidate, reference, seg))
		if err := checkCancelled(ctx, op); err != nil {
			return nil, err
		}
	}

	tb := compare.ComputeTheoreticalBest(survivors, segments)

	payload := &CoachingPayload{
		TrackID:              cp.Meta.TrackID,
		TrackName:            cp.Meta.TrackName,
		ReferenceLap:         reference.LapNumber,
		ReferenceTime:        reference.LapTimeS,
		TheoreticalBestTimeS: tb.TotalTimeS,
		Segments:             named,
		PriorityCorners:      rankPriorityCorners(deltas, named, a.Config.PriorityCornerCount),
		ConsistencyFindings:  consistencyFindings(survivors, segments, named, a.Config),
	}

	log.Info().
		Float64("reference_time_s", payload.ReferenceTime).
		Float64("theoretical_best_s", payload.TheoreticalBestTimeS).
		Int("priority_corners", len(payload.PriorityCorners)).
		Msg("analysis complete")

	return payload, nil
}

// trackType returns the track's recorded track_type, or a.Config.Preset
// when the caller supplied an explicit override (spec §6
// "analyse(capture_path, track_store, preset?)"). A nil Store or any
// read failure falls back to the empty string, which corner.PresetForTrackType
// resolves to the road default (spec §4.8 "default road").
func (a *Analyser) trackType(log zerolog.Logger, trackID string) string {
	if a.Config.Preset != "" {
		return a.Config.Preset
	}
	if a.Store == nil || trackID == "" {
		return ""
	}
	track, ok, err := a.Store.GetTrack(trackID)
	if err != nil {
		log.Warn().Err(err).Msg("track store read failed, defaulting to road preset")
		return ""
	}
	if !ok {
		return ""
	}
	return track.TrackType
}

// nameSegments resolves each segment's name via the Corner Registry (C6).
// A nil Store, or any track-store read failure, is recovered locally per
// spec §7: corner naming is skipped and segments remain unnamed. When the
// track has no named corners yet, the landmark seeder is invoked first
// (spec §4.5 "when has_named_corners(track_id) is false, the seeder is
// invoked"); a missing Landmarks dataset or a seeding failure is not fatal
// to the analysis (spec §7 "seeding failures are never fatal").
func (a *Analyser) nameSegments(log zerolog.Logger, trackID string, segments []corner.CornerSegment) []NamedSegment {
	named := make([]NamedSegment, len(segments))
	for i, seg := range segments {
		named[i] = NamedSegment{Segment: seg}
	}
	if a.Store == nil || trackID == "" {
		return named
	}

	hasNamed, err := a.Store.HasNamedCorners(trackID)
	if err != nil {
		log.Warn().Err(err).Msg("track store read failed, corners left unnamed")
		return named
	}
	if !hasNamed && a.Config.Landmarks != nil {
		if err := a.Store.SeedFromLandmarksDataset(a.Config.Landmarks); err != nil {
			log.Warn().Err(err).Msg("landmark seeding failed, proceeding with existing corner records")
		}
	}

	records, err := a.Store.ListCorners(trackID)
	if err != nil {
		log.Warn().Err(err).Msg("track store read failed, corners left unnamed")
		return named
	}

	matches := registry.MatchCorners(segments, records)
	for _, m := range matches {
		if m.Record != nil {
			named[m.SegmentIndex].Name = m.Record.Name
		}
	}
	return named
}

// filterByPace drops any lap whose time exceeds multiplier times the
// session minimum (spec §4.8 "filter disrupted laps by pace").
func filterByPace(laps []*lap.NormalisedLap, multiplier float64) []*lap.NormalisedLap {
	if len(laps) == 0 {
		return nil
	}
	min := laps[0].LapTimeS
	for _, l := range laps[1:] {
		if l.LapTimeS < min {
			min = l.LapTimeS
		}
	}
	threshold := min * multiplier
	var survivors []*lap.NormalisedLap
	for _, l := range laps {
		if l.LapTimeS <= threshold {
			survivors = append(survivors, l)
		}
	}
	return survivors
}

func fastest(laps []*lap.NormalisedLap) *lap.NormalisedLap {
	best := laps[0]
	for _, l := range laps[1:] {
		if l.LapTimeS < best.LapTimeS {
			best = l
		}
	}
	return best
}

// medianByTime returns the lap whose time is the median of the set, used as
// the candidate contrast lap so a typical mistake is surfaced rather than an
// anomaly (spec §4.8).
func medianByTime(laps []*lap.NormalisedLap) *lap.NormalisedLap {
	sorted := make([]*lap.NormalisedLap, len(laps))
	copy(sorted, laps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LapTimeS < sorted[j].LapTimeS })
	return sorted[len(sorted)/2]
}

func rankPriorityCorners(deltas []compare.CornerDelta, named []NamedSegment, count int) []PriorityCorner {
	type ranked struct {
		delta compare.CornerDelta
		name  string
	}
	rs := make([]ranked, len(deltas))
	for i, d := range deltas {
		name := ""
		if i < len(named) {
			name = named[i].Name
		}
		rs[i] = ranked{delta: d, name: name}
	}
	sort.Slice(rs, func(i, j int) bool {
		return absTimeDelta(rs[i].delta) > absTimeDelta(rs[j].delta)
	})

	if count > len(rs) {
		count = len(rs)
	}
	out := make([]PriorityCorner, 0, count)
	for _, r := range rs[:count] {
		if r.delta.TimeDeltaS == nil {
			continue
		}
		out = append(out, PriorityCorner{
			CornerNumber: r.delta.CornerNumber,
			Name:         r.name,
			TimeLostS:    *r.delta.TimeDeltaS,
			Diagnosis:    r.delta.Diagnosis,
		})
	}
	return out
}

func absTimeDelta(d compare.CornerDelta) float64 {
	if d.TimeDeltaS == nil {
		return 0
	}
	return math.Abs(*d.TimeDeltaS)
}

// consistencyFindings computes, per corner, the standard deviation and mean
// of candidate-vs-reference time deltas across every survivor lap, flagging
// consistency_issue when std-dev exceeds the configured threshold and
// technique_issue when the mean delta is large but std-dev stays low
// (spec §4.8).
func consistencyFindings(survivors []*lap.NormalisedLap, segments []corner.CornerSegment, named []NamedSegment, cfg Config) []ConsistencyFinding {
	findings := make([]ConsistencyFinding, 0, len(segments))
	reference := fastest(survivors)

	for i, seg := range segments {
		var samples []float64
		for _, l := range survivors {
			if l == reference {
				continue
			}
			d := compare.ComputeDelta(l, reference, seg)
			if d.TimeDeltaS != nil {
				samples = append(samples, *d.TimeDeltaS)
			}
		}
		if len(samples) == 0 {
			continue
		}

		mean := compare.LapTimeMean(samples)
		stdDev := compare.LapTimeStdDev(samples)

		name := ""
		if i < len(named) {
			name = named[i].Name
		}

		findings = append(findings, ConsistencyFinding{
			CornerNumber:     seg.Number,
			Name:             name,
			StdDevS:          stdDev,
			MeanDeltaS:       mean,
			ConsistencyIssue: stdDev > cfg.ConsistencyStdDevS,
			TechniqueIssue:   mean > cfg.TechniqueMeanDeltaS && stdDev <= cfg.ConsistencyStdDevS,
		})
	}
	return findings
}

func checkCancelled(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return errs.New(op, errs.Cancelled, ctx.Err())
	default:
		return nil
	}
}
