package corner

// mergeAdjacent merges corners whose prev.ExitM and next.EntryM fall within
// preset.MergeGapM (spec §4.4 step 5). The merged span runs
// prev.EntryM..next.ExitM, the apex is the lower of the two apex speeds, and
// the merged segment is marked so classify treats it as a chicane.
func mergeAdjacent(segments []CornerSegment, smoothed []float64, preset Preset) []CornerSegment {
	if len(segments) == 0 {
		return segments
	}
	merged := []CornerSegment{segments[0]}
	for _, next := range segments[1:] {
		last := &merged[len(merged)-1]
		if next.EntryM-last.ExitM <= preset.MergeGapM {
			last.ExitM = next.ExitM
			if next.ApexSpeedMS < last.ApexSpeedMS {
				last.ApexM = next.ApexM
				last.ApexSpeedMS = next.ApexSpeedMS
			}
			last.merged = true
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// filterFalsePositives drops corners whose entry-to-apex speed drop falls
// below preset.MinCornerSpeedDrop, or whose span is below minSpanM (spec
// §4.4 step 6).
func filterFalsePositives(segments []CornerSegment, smoothed, brake []float64, preset Preset) []CornerSegment {
	out := segments[:0]
	for _, seg := range segments {
		drop := smoothed[seg.EntryM] - smoothed[seg.ApexM]
		span := seg.ExitM - seg.EntryM
		if drop < preset.MinCornerSpeedDrop {
			continue
		}
		if span < minSpanM {
			continue
		}
		out = append(out, seg)
	}
	return out
}
