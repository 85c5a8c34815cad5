package capture

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/apexline/telemetry-coach/internal/errs"
	"github.com/apexline/telemetry-coach/internal/series"
)

// metadataDoc is the parsed form of the session-metadata document: nested
// sections of key/value pairs, e.g.
//
//	[WeekendInfo]
//	TrackName: Bathurst Mount Panorama
//	TrackID: 219
//	TrackLength: 6.213 km
//
//	[DriverInfo]
//	DriverName: Jane Driver
//	DriverID: 1001
type metadataDoc map[string]map[string]string

func parseMetadataDoc(raw []byte) metadataDoc {
	doc := metadataDoc{}
	section := ""
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			if doc[section] == nil {
				doc[section] = map[string]string{}
			}
			continue
		}
		if section == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		doc[section][strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return doc
}

func (d metadataDoc) get(section, key string) (string, bool) {
	s, ok := d[section]
	if !ok {
		return "", false
	}
	v, ok := s[key]
	return v, ok
}

// sessionMeta extracts the fields the core requires from the parsed
// document, converting track length from km to metres (spec §3).
func (d metadataDoc) sessionMeta() (series.SessionMeta, error) {
	const op = "capture.sessionMeta"
	var meta series.SessionMeta

	meta.TrackID, _ = d.get("WeekendInfo", "TrackID")
	meta.TrackName, _ = d.get("WeekendInfo", "TrackName")
	lengthStr, ok := d.get("WeekendInfo", "TrackLength")
	if !ok {
		return meta, errs.New(op, errs.MalformedCapture, fmt.Errorf("metadata missing WeekendInfo.TrackLength"))
	}
	km, err := parseLeadingFloat(lengthStr)
	if err != nil {
		return meta, errs.New(op, errs.MalformedCapture, fmt.Errorf("unparseable TrackLength %q: %w", lengthStr, err))
	}
	meta.TrackLengthM = km * 1000.0

	meta.CarID, _ = d.get("CarInfo", "CarID")
	meta.CarName, _ = d.get("CarInfo", "CarName")
	meta.DriverID, _ = d.get("DriverInfo", "DriverID")
	meta.DriverName, _ = d.get("DriverInfo", "DriverName")

	if hzStr, ok := d.get("DiskSubHeader", "SampleFrequencyHz"); ok {
		meta.SampleHz, _ = strconv.ParseFloat(strings.TrimSpace(hzStr), 64)
	}
	return meta, nil
}

// parseLeadingFloat parses the leading numeric portion of a string like
// "6.213 km", ignoring the trailing unit.
func parseLeadingFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] == '+' || s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("no leading number in %q", s)
	}
	return strconv.ParseFloat(s[:i], 64)
}
