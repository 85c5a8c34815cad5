package capture

import (
	"fmt"
	"os"

	"github.com/apexline/telemetry-coach/internal/errs"
	"github.com/apexline/telemetry-coach/internal/series"
)

// RequiredChannels is the canonical contract channel set (spec §3). The
// Analyser requires all of these to be present before it will attempt a
// lap split.
var RequiredChannels = []string{
	"Speed", "Throttle", "Brake", "SteeringWheelAngle",
	"Lat", "Lon", "Alt",
	"Lap", "LapCurrentLapTime", "LapDist", "LapDistPct",
	"SessionTime", "SessionTick",
	"RPM", "Gear", "PlayerTrackSurface", "PlayerCarMyIncidentCount",
	"OnPitRoad",
}

// Capture is a decoded telemetry file: session metadata plus lazily
// materialised channel arrays.
type Capture struct {
	Meta        series.SessionMeta
	SampleCount int
	TickRate    uint32

	data               []byte
	sampleMatrixOffset uint32
	sampleRowBytes     uint32
	descriptors        map[string]ChannelDescriptor
	cache              map[string]series.Channel
}

// Parse reads a capture file from disk and decodes it, validating that
// every name in required is present among the channel descriptors.
func Parse(path string, required []string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New("capture.Parse", errs.MalformedCapture, err)
	}
	return ParseBytes(data, required)
}

// ParseBytes decodes capture data already in memory.
func ParseBytes(data []byte, required []string) (*Capture, error) {
	const op = "capture.ParseBytes"

	header, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}

	subHeaderOffset := fixedHeaderSize
	if err := validateRegion(op, len(data), uint32(subHeaderOffset), subHeaderSize); err != nil {
		return nil, err
	}

	if err := validateRegion(op, len(data), header.metadataOffset, header.metadataLength); err != nil {
		return nil, err
	}
	rawMeta := data[header.metadataOffset : header.metadataOffset+header.metadataLength]
	doc := parseMetadataDoc(rawMeta)
	meta, err := doc.sessionMeta()
	if err != nil {
		return nil, err
	}
	if meta.SampleHz == 0 {
		meta.SampleHz = float64(header.tickRate)
	}

	descs, err := parseDescriptors(data, header.channelDescOffset, header.numChannels)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]ChannelDescriptor, len(descs))
	for _, d := range descs {
		byName[d.Name] = d
	}

	for _, name := range required {
		if _, ok := byName[name]; !ok {
			return nil, errs.New(op, errs.MissingChannel, fmt.Errorf("required channel %q not present in capture", name))
		}
	}

	if err := validateRegion(op, len(data), header.sampleMatrixOffset, header.sampleRowBytes*header.sampleCount); err != nil {
		return nil, err
	}

	return &Capture{
		Meta:               meta,
		SampleCount:        int(header.sampleCount),
		TickRate:           header.tickRate,
		data:               data,
		sampleMatrixOffset: header.sampleMatrixOffset,
		sampleRowBytes:     header.sampleRowBytes,
		descriptors:        byName,
		cache:              make(map[string]series.Channel),
	}, nil
}

// ChannelNames returns every channel name present in the capture,
// regardless of whether it was in the required set.
func (c *Capture) ChannelNames() []string {
	names := make([]string, 0, len(c.descriptors))
	for n := range c.descriptors {
		names = append(names, n)
	}
	return names
}

// Channel returns a channel's full decoded sample series, materialising and
// caching it on first access (spec §4.1: "only the subset of channels
// required downstream need be materialised").
func (c *Capture) Channel(name string) (series.Channel, error) {
	if ch, ok := c.cache[name]; ok {
		return ch, nil
	}
	desc, ok := c.descriptors[name]
	if !ok {
		return series.Channel{}, errs.New("capture.Channel", errs.MissingChannel, fmt.Errorf("channel %q not present in capture", name))
	}
	ch, err := extractChannel(c.data, c.sampleMatrixOffset, c.sampleRowBytes, uint32(c.SampleCount), desc)
	if err != nil {
		return series.Channel{}, err
	}
	c.cache[name] = ch
	return ch, nil
}

// MustChannel panics on failure; used only for channels validated present
// via RequiredChannels at Parse time, where a subsequent miss is an
// invariant violation rather than recoverable input error.
func (c *Capture) MustChannel(name string) series.Channel {
	ch, err := c.Channel(name)
	if err != nil {
		panic(errs.New("capture.MustChannel", errs.Internal, err))
	}
	return ch
}

// Table materialises every name in names into a series.Table, the shape
// the Lap Splitter (C2) consumes. This is the C1→C2 handoff point in
// spec §2's flow diagram.
func (c *Capture) Table(names []string) (series.Table, error) {
	channels := make(map[string]series.Channel, len(names))
	for _, name := range names {
		ch, err := c.Channel(name)
		if err != nil {
			return series.Table{}, err
		}
		channels[name] = ch
	}
	return series.Table{Meta: c.Meta, SampleCount: c.SampleCount, Channels: channels}, nil
}
