// Package registry implements the Corner Registry (C6): matching detected
// corner segments against a track's persisted corner records.
package registry

import (
	"math"
	"sort"

	"github.com/apexline/telemetry-coach/internal/corner"
	"github.com/apexline/telemetry-coach/internal/trackstore"
)

const apexProximityToleranceM = 50

// Match pairs a detected segment index with the record it was named from.
// Record is nil when no record matched (spec.md §4.6 "corner_name = None").
type Match struct {
	SegmentIndex int
	Record       *trackstore.Corner
}

type candidate struct {
	segIdx, recIdx int
	overlap        int
}

// MatchCorners matches segments against records for one track: maximal
// interval overlap wins first (greedy, longest-overlap-first), then an
// apex-proximity fallback within apexProximityToleranceM for anything still
// unmatched (spec.md §4.6). Each segment matches at most one record and
// vice versa.
func MatchCorners(segments []corner.CornerSegment, records []trackstore.Corner) []Match {
	result := make([]Match, len(segments))
	for i := range result {
		result[i] = Match{SegmentIndex: i}
	}
	if len(segments) == 0 || len(records) == 0 {
		return result
	}

	var candidates []candidate
	for si, seg := range segments {
		for ri, rec := range records {
			ov := overlapLength(seg.EntryM, seg.ExitM, int(rec.DistanceStartMeters), int(rec.DistanceEndMeters))
			if ov > 0 {
				candidates = append(candidates, candidate{si, ri, ov})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].overlap > candidates[j].overlap })

	matchedSeg := make(map[int]bool, len(segments))
	matchedRec := make(map[int]bool, len(records))
	for _, c := range candidates {
		if matchedSeg[c.segIdx] || matchedRec[c.recIdx] {
			continue
		}
		matchedSeg[c.segIdx] = true
		matchedRec[c.recIdx] = true
		rec := records[c.recIdx]
		result[c.segIdx].Record = &rec
	}

	for si, seg := range segments {
		if matchedSeg[si] {
			continue
		}
		bestRi, bestDist := -1, math.MaxFloat64
		for ri, rec := range records {
			if matchedRec[ri] {
				continue
			}
			mid := (rec.DistanceStartMeters + rec.DistanceEndMeters) / 2
			d := math.Abs(float64(seg.ApexM) - mid)
			if d <= apexProximityToleranceM && d < bestDist {
				bestDist, bestRi = d, ri
			}
		}
		if bestRi >= 0 {
			matchedSeg[si] = true
			matchedRec[bestRi] = true
			rec := records[bestRi]
			result[si].Record = &rec
		}
	}

	return result
}

// overlapLength returns the length of the intersection of [aStart, aEnd]
// and [bStart, bEnd], or 0 if they don't overlap.
func overlapLength(aStart, aEnd, bStart, bEnd int) int {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
