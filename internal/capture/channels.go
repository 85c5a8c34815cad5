package capture

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/apexline/telemetry-coach/internal/errs"
	"github.com/apexline/telemetry-coach/internal/series"
)

const (
	descNameLen = 32
	descDescLen = 64
	descUnitLen = 32
)

// parseDescriptors decodes numChannels 144-byte descriptor records starting
// at offset. Unknown type codes fail with UnsupportedChannelType (spec §4.1):
// the decoder never silently misreads a channel it cannot type.
func parseDescriptors(data []byte, offset, numChannels uint32) ([]ChannelDescriptor, error) {
	const op = "capture.parseDescriptors"
	out := make([]ChannelDescriptor, 0, numChannels)
	pos := offset
	for i := uint32(0); i < numChannels; i++ {
		if err := validateRegion(op, len(data), pos, descriptorSize); err != nil {
			return nil, err
		}
		rec := data[pos : pos+descriptorSize]
		le := binary.LittleEndian

		rawType := le.Uint32(rec[0:4])
		chOffset := le.Uint32(rec[4:8])
		count := le.Uint32(rec[8:12])
		// rec[12:16] reserved (flags / countAsTime, unused by this core)

		typ := series.PrimitiveType(rawType)
		if _, ok := typ.ByteSize(); !ok {
			return nil, errs.New(op, errs.UnsupportedChannelType, fmt.Errorf("channel %d has unrecognised type code %d", i, rawType))
		}

		nameStart := 16
		name := cString(rec[nameStart : nameStart+descNameLen])
		descStart := nameStart + descNameLen
		_ = cString(rec[descStart : descStart+descDescLen]) // free-text description, not surfaced
		unitStart := descStart + descDescLen
		unit := cString(rec[unitStart : unitStart+descUnitLen])

		out = append(out, ChannelDescriptor{
			Name:   name,
			Unit:   unit,
			Type:   typ,
			Offset: chOffset,
			Count:  count,
		})
		pos += descriptorSize
	}
	return out, nil
}

// cString trims a fixed-width NUL-padded field to its text content.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// extractChannel produces the channel's full sample series in one pass: a
// base offset plus a stride equal to the sample row width, sliced straight
// out of the file view rather than decoded through a per-sample struct
// (spec §4.1 — "must not use a per-sample loop in the hot path" beyond the
// one unavoidable strided scan per channel).
func extractChannel(data []byte, matrixOffset, rowBytes, sampleCount uint32, desc ChannelDescriptor) (series.Channel, error) {
	const op = "capture.extractChannel"
	size, ok := desc.Type.ByteSize()
	if !ok {
		return series.Channel{}, errs.New(op, errs.UnsupportedChannelType, fmt.Errorf("channel %q has unrecognised type code %d", desc.Name, desc.Type))
	}

	lastRowEnd := uint64(matrixOffset) + uint64(rowBytes)*uint64(sampleCount)
	if lastRowEnd > uint64(len(data)) {
		return series.Channel{}, errs.New(op, errs.MalformedCapture, fmt.Errorf("sample matrix [%d, %d) exceeds file size %d", matrixOffset, lastRowEnd, len(data)))
	}
	if uint64(desc.Offset)+uint64(size) > uint64(rowBytes) {
		return series.Channel{}, errs.New(op, errs.MalformedCapture, fmt.Errorf("channel %q offset %d+%d exceeds row width %d", desc.Name, desc.Offset, size, rowBytes))
	}

	values := make([]float64, sampleCount)
	le := binary.LittleEndian
	base := uint64(matrixOffset) + uint64(desc.Offset)
	stride := uint64(rowBytes)

	for i := uint32(0); i < sampleCount; i++ {
		at := base + stride*uint64(i)
		field := data[at : at+uint64(size)]
		switch desc.Type {
		case series.TypeBool:
			values[i] = 0
			if field[0] != 0 {
				values[i] = 1
			}
		case series.TypeInt32, series.TypeBitfield:
			values[i] = float64(int32(le.Uint32(field)))
		case series.TypeFloat32:
			values[i] = float64(math.Float32frombits(le.Uint32(field)))
		case series.TypeDouble:
			values[i] = math.Float64frombits(le.Uint64(field))
		}
	}

	return series.Channel{Name: desc.Name, Unit: desc.Unit, Type: desc.Type, Values: values}, nil
}
