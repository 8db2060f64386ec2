// Package filename parses the structured identifier embedded in a Muse
// recording's object name. Parsing is strictly positional.
//
// Format:
//
//	[start timestamp]-[tz offset]_[pod serial]_[weston id]_[data type]
//	2023-06-18T00:31:31-04:00_6002-CNZB-5F0A_ww75958498_acc
package filename

import (
	"strconv"
	"strings"
	"time"
)

// startLayout is the layout of the leading collection-start timestamp.
const startLayout = "2006-01-02T15:04:05"

// Byte offsets of each field within the name.
const (
	startLen      = 19
	offsetSignPos = 19
	offsetHourPos = 20
	offsetMinPos  = 23
	podStart      = 26
	podLen        = 14
	westonStart   = 41
	westonLen     = 10
)

// colonOffsets are the positions of the three timestamp colons that
// EncodeLocal strips; DecodeLocal re-inserts them in this order.
var colonOffsets = [...]int{13, 16, 22}

// StartTime extracts the collection start timestamp from the name.
func StartTime(name string) (time.Time, bool) {
	if len(name) < startLen {
		return time.Time{}, false
	}
	t, err := time.Parse(startLayout, name[:startLen])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TimezoneOffset extracts the signed UTC offset, in hours. The sign is read
// from the single character preceding the hour digits: '-' negates, any
// other character is treated as positive.
func TimezoneOffset(name string) (float64, bool) {
	if len(name) < offsetMinPos+2 {
		return 0, false
	}
	hour, err := strconv.Atoi(name[offsetHourPos : offsetHourPos+2])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(name[offsetMinPos : offsetMinPos+2])
	if err != nil {
		return 0, false
	}
	offset := float64(hour) + float64(minute)/60.0
	if name[offsetSignPos] == '-' {
		offset = -offset
	}
	return offset, true
}

// PodID extracts the 14-character pod serial, validated by the dash
// positions in the XXXX-XXXX-XXXX format.
func PodID(name string) (string, bool) {
	if len(name) < podStart+podLen {
		return "", false
	}
	pod := name[podStart : podStart+podLen]
	if pod[4] != '-' || pod[9] != '-' {
		return "", false
	}
	return pod, true
}

// WestonID extracts the 10-character participant id. The two-letter prefix
// is checked case-insensitively: "ww" for participants, "tt" for test units.
func WestonID(name string) (string, bool) {
	if len(name) < westonStart+westonLen {
		return "", false
	}
	id := name[westonStart : westonStart+westonLen]
	prefix := strings.ToLower(id[:2])
	if prefix != "ww" && prefix != "tt" {
		return "", false
	}
	return id, true
}

// DataType extracts the content-type token after the final underscore.
func DataType(name string) (string, bool) {
	i := strings.LastIndex(name, "_")
	if i < 0 || i == len(name)-1 {
		return "", false
	}
	return name[i+1:], true
}

// EncodeLocal converts a recording name into a form safe for local
// filesystems by stripping the colons from the embedded timestamps.
func EncodeLocal(name string) string {
	return strings.ReplaceAll(name, ":", "")
}

// DecodeLocal inverts EncodeLocal by re-inserting the colons at their fixed
// offsets. For names too short to carry the timestamp fields the input is
// returned unchanged.
func DecodeLocal(name string) string {
	decoded := name
	for _, off := range colonOffsets {
		if len(decoded) < off {
			return name
		}
		decoded = decoded[:off] + ":" + decoded[off:]
	}
	return decoded
}
