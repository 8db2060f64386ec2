package quality

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// headerMarker must appear in the first line of every stats file.
const headerMarker = "muse_qc"

// statsLineCount is the full length of a stats file: one header line, one
// bare duration line, and one line per labelled measurement.
const statsLineCount = 2 + len(statLabels)

// statLabels is the required label order for lines 3..17.
var statLabels = [...]string{
	"ch1", "ch2", "ch3", "ch4",
	"ch12", "ch13", "ch43", "ch42",
	"fany", "fboth", "tany", "tboth",
	"ftany",
	"eegany", "eegall",
}

// ParseStatsFile reads the analyzer's stats file at path. See ParseStats.
func ParseStatsFile(path string, logger *log.Logger) (*QCStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()
	stats, err := ParseStats(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stats, nil
}

// ParseStats decodes a stats stream. A missing marker, an out-of-order
// label, a non-numeric value, or non-blank content after the last
// measurement invalidates the whole record and returns an error. A stream that ends before all lines are consumed is tolerated: the
// short count is logged as a warning and the fields accumulated so far are
// returned.
func ParseStats(r io.Reader, logger *log.Logger) (*QCStats, error) {
	sc := bufio.NewScanner(r)
	stats := &QCStats{}
	fields := [...]*float64{
		&stats.Ch1, &stats.Ch2, &stats.Ch3, &stats.Ch4,
		&stats.Ch12, &stats.Ch13, &stats.Ch43, &stats.Ch42,
		&stats.FAny, &stats.FBoth, &stats.TAny, &stats.TBoth,
		&stats.FtAny,
		&stats.EegAny, &stats.EegAll,
	}

	line := 0
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		line++
		switch {
		case line == 1:
			if !strings.Contains(strings.ToLower(text), headerMarker) {
				return nil, fmt.Errorf("line 1: missing %q marker", headerMarker)
			}
		case line == 2:
			dur, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("line 2: invalid duration %q", text)
			}
			stats.Dur = dur
		case line <= statsLineCount:
			label := statLabels[line-3]
			parts := strings.Fields(text)
			if len(parts) != 2 || !strings.EqualFold(parts[0], label) {
				return nil, fmt.Errorf("line %d: expected %q measurement, got %q", line, label, text)
			}
			val, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s value %q", line, label, parts[1])
			}
			*fields[line-3] = val
		default:
			// Tolerate blank lines after the last measurement, reject
			// anything else.
			if text != "" {
				return nil, fmt.Errorf("line %d: unexpected trailing content %q", line, text)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	if line < statsLineCount && logger != nil {
		logger.Printf("WARN: stats stream ended after %d of %d lines", line, statsLineCount)
	}
	return stats, nil
}
