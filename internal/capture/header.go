package capture

import (
	"encoding/binary"
	"fmt"

	"github.com/apexline/telemetry-coach/internal/errs"
)

const (
	fixedHeaderSize = 112
	subHeaderSize   = 32
	descriptorSize  = 144

	magicValue = "VTEL"
)

// fileHeader is the decoded form of the 112-byte fixed header.
type fileHeader struct {
	tickRate           uint32
	numChannels         uint32
	channelDescOffset  uint32
	sampleMatrixOffset uint32
	sampleCount        uint32
	sampleRowBytes     uint32
	metadataOffset     uint32
	metadataLength     uint32
}

func parseFixedHeader(data []byte) (fileHeader, error) {
	const op = "capture.parseFixedHeader"
	if len(data) < fixedHeaderSize {
		return fileHeader{}, errs.New(op, errs.MalformedCapture, fmt.Errorf("file is %d bytes, shorter than the %d-byte fixed header", len(data), fixedHeaderSize))
	}
	if string(data[0:4]) != magicValue {
		return fileHeader{}, errs.New(op, errs.MalformedCapture, fmt.Errorf("bad magic: expected %q, got %q", magicValue, data[0:4]))
	}
	le := binary.LittleEndian
	h := fileHeader{
		// bytes [4:8] hold a format version, unused by this decoder.
		tickRate:           le.Uint32(data[8:12]),
		numChannels:        le.Uint32(data[12:16]),
		channelDescOffset:  le.Uint32(data[16:20]),
		sampleMatrixOffset: le.Uint32(data[20:24]),
		sampleCount:        le.Uint32(data[24:28]),
		sampleRowBytes:     le.Uint32(data[28:32]),
		metadataOffset:     le.Uint32(data[32:36]),
		metadataLength:     le.Uint32(data[36:40]),
	}
	if h.tickRate == 0 {
		return fileHeader{}, errs.New(op, errs.MalformedCapture, fmt.Errorf("tick rate is zero"))
	}
	return h, nil
}

// validateRegion checks that [offset, offset+length) lies within the file.
func validateRegion(op string, fileLen int, offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(fileLen) {
		return errs.New(op, errs.MalformedCapture, fmt.Errorf("region [%d, %d) exceeds file size %d", offset, offset+length, fileLen))
	}
	return nil
}
