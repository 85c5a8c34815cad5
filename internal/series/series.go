// Package series defines the channel/table representation shared by every
// pipeline stage downstream of the binary parser (spec §3 "Channel", and
// the C1→C2 "raw per-sample table" handoff in §2's flow diagram). Keeping
// it independent of the capture package's binary-decode internals lets the
// lap, corner, compare and analyser packages build synthetic tables in
// tests without fabricating capture files.
package series

import "fmt"

// PrimitiveType is a channel's scalar type (spec §3, §6).
type PrimitiveType uint32

const (
	TypeBool     PrimitiveType = 1
	TypeInt32    PrimitiveType = 2
	TypeBitfield PrimitiveType = 3
	TypeFloat32  PrimitiveType = 4
	TypeDouble   PrimitiveType = 5
)

// ByteSize returns the on-disk width of one element of t, or false if t is
// not a recognised type code.
func (t PrimitiveType) ByteSize() (int, bool) {
	switch t {
	case TypeBool:
		return 1, true
	case TypeInt32, TypeBitfield, TypeFloat32:
		return 4, true
	case TypeDouble:
		return 8, true
	default:
		return 0, false
	}
}

func (t PrimitiveType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeBitfield:
		return "bitfield"
	case TypeFloat32:
		return "float32"
	case TypeDouble:
		return "double"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// Channel is a decoded, contiguous time series widened to float64: bool
// becomes 0/1, every integer type becomes its exact float64 equivalent.
// Every downstream stage (lap splitting, normalisation, corner detection,
// comparison) treats channels numerically regardless of on-disk type.
type Channel struct {
	Name   string
	Unit   string
	Type   PrimitiveType
	Values []float64
}

// SessionMeta is the session-level metadata extracted from a capture
// (spec §3 "Capture").
type SessionMeta struct {
	TrackID      string
	TrackName    string
	TrackLengthM float64
	CarID        string
	CarName      string
	DriverID     string
	DriverName   string
	SampleHz     float64
}

// Table is the C1 output handed to the Lap Splitter: session metadata plus
// every materialised channel, keyed by contract name (spec §3).
type Table struct {
	Meta        SessionMeta
	SampleCount int
	Channels    map[string]Channel
}

// Get returns a channel's values, or nil and false if absent.
func (t Table) Get(name string) ([]float64, bool) {
	ch, ok := t.Channels[name]
	if !ok {
		return nil, false
	}
	return ch.Values, true
}

// MustGet returns a channel's values, panicking if absent. Used only after
// presence has already been validated (capture.Parse's required-channel
// check, or a test fixture that is known to include the channel).
func (t Table) MustGet(name string) []float64 {
	v, ok := t.Get(name)
	if !ok {
		panic(fmt.Sprintf("series: channel %q not present in table", name))
	}
	return v
}

// NewTable builds a Table from name->values for tests and other synthetic
// fixtures; every channel is tagged TypeDouble since callers supply
// pre-widened float64 values directly.
func NewTable(meta SessionMeta, sampleCount int, values map[string][]float64) Table {
	channels := make(map[string]Channel, len(values))
	for name, v := range values {
		channels[name] = Channel{Name: name, Type: TypeDouble, Values: v}
	}
	return Table{Meta: meta, SampleCount: sampleCount, Channels: channels}
}
