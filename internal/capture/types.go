// Package capture decodes the vendor binary telemetry capture format
// (spec §4.1, §6) into named channel arrays and session metadata.
//
// The format has four regions in file order: a 112-byte fixed header, a
// 32-byte sub-header, a UTF-8 session-metadata document, and N channel
// descriptors (144 bytes each) followed by the sample matrix.
package capture

import "github.com/apexline/telemetry-coach/internal/series"

// ChannelDescriptor is one decoded 144-byte descriptor record.
type ChannelDescriptor struct {
	Name   string
	Unit   string
	Type   series.PrimitiveType
	Offset uint32 // byte offset of this channel within one sample row
	Count  uint32 // element count; the core only supports scalar (1) channels
}
